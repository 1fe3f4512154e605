package tx

import (
	"github.com/gears-network/gears/types"
)

// Builder assembles a signable transaction. Used by tests and client
// tooling; the engine itself only decodes.
type Builder struct {
	msgs          []Msg
	memo          string
	timeoutHeight uint64
	fee           Fee
	signerInfos   []SignerInfo
	signatures    [][]byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SetMsgs(msgs ...Msg) *Builder {
	b.msgs = msgs
	return b
}

func (b *Builder) SetMemo(memo string) *Builder {
	b.memo = memo
	return b
}

func (b *Builder) SetTimeoutHeight(height uint64) *Builder {
	b.timeoutHeight = height
	return b
}

func (b *Builder) SetFee(amount types.Coins, gasLimit uint64) *Builder {
	b.fee = Fee{Amount: amount, GasLimit: gasLimit}
	return b
}

func (b *Builder) SetFeePayer(payer types.AccAddress) *Builder {
	b.fee.Payer = payer.String()
	return b
}

// AddSignerInfo declares a signer; signatures must be added in the same
// order.
func (b *Builder) AddSignerInfo(pk *PubKey, sequence uint64) *Builder {
	b.signerInfos = append(b.signerInfos, SignerInfo{
		PubKey:   pk,
		Sequence: sequence,
		SignMode: SignModeDirect,
	})
	return b
}

func (b *Builder) AddSignature(sig []byte) *Builder {
	b.signatures = append(b.signatures, sig)
	return b
}

// SignDocBytes returns the bytes a signer must sign.
func (b *Builder) SignDocBytes(chainID string, accountNumber uint64) ([]byte, error) {
	bodyBytes, err := b.bodyBytes()
	if err != nil {
		return nil, err
	}

	return MakeSignDocBytes(bodyBytes, b.authInfoBytes(), chainID, accountNumber), nil
}

// BuildRaw serializes the completed tx envelope.
func (b *Builder) BuildRaw() ([]byte, error) {
	bodyBytes, err := b.bodyBytes()
	if err != nil {
		return nil, err
	}

	raw := TxRaw{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: b.authInfoBytes(),
		Signatures:    b.signatures,
	}
	return raw.Encode(), nil
}

func (b *Builder) bodyBytes() ([]byte, error) {
	var buf []byte
	for _, msg := range b.msgs {
		value, err := msg.Marshal()
		if err != nil {
			return nil, err
		}
		buf = AppendTagBytes(buf, 1, encodeAny(Any{TypeURL: msg.TypeURL(), Value: value}))
	}

	buf = AppendTagString(buf, 2, b.memo)
	buf = AppendTagUvarint(buf, 3, b.timeoutHeight)
	return buf, nil
}

func (b *Builder) authInfoBytes() []byte {
	var buf []byte
	for _, si := range b.signerInfos {
		buf = AppendTagBytes(buf, 1, encodeSignerInfo(si))
	}
	buf = AppendTagBytes(buf, 2, encodeFee(b.fee))
	return buf
}

func encodeSignerInfo(si SignerInfo) []byte {
	var buf []byte
	if si.PubKey != nil {
		buf = AppendTagBytes(buf, 1, encodeAny(si.PubKey.Encode()))
	}

	var single []byte
	single = AppendTagUvarint(single, 1, uint64(si.SignMode))
	var mode []byte
	mode = AppendTagBytes(mode, 1, single)
	buf = AppendTagBytes(buf, 2, mode)

	buf = AppendTagUvarint(buf, 3, si.Sequence)
	return buf
}

func encodeFee(fee Fee) []byte {
	var buf []byte
	for _, coin := range fee.Amount {
		buf = AppendCoin(buf, 1, coin)
	}
	buf = AppendTagUvarint(buf, 2, fee.GasLimit)
	buf = AppendTagString(buf, 3, fee.Payer)
	buf = AppendTagString(buf, 4, fee.Granter)
	return buf
}
