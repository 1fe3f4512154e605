package tx

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/errors"
)

// SignModeDirect is the only supported sign mode: sign bytes are the SignDoc
// over the raw body and auth-info bytes.
const SignModeDirect = 1

// TxRaw is the outer wire envelope. The three sub-byte-strings are preserved
// verbatim through decode so re-encoding is byte-equal to the input.
type TxRaw struct {
	BodyBytes     []byte
	AuthInfoBytes []byte
	Signatures    [][]byte
}

// Encode re-serializes the envelope. For a decoded tx this round-trips
// byte-exactly.
func (r TxRaw) Encode() []byte {
	var buf []byte
	buf = AppendTagBytes(buf, 1, r.BodyBytes)
	buf = AppendTagBytes(buf, 2, r.AuthInfoBytes)
	for _, sig := range r.Signatures {
		buf = AppendTagBytes(buf, 3, sig)
	}
	return buf
}

// TxBody is the decoded body.
type TxBody struct {
	Messages      []Msg
	Memo          string
	TimeoutHeight uint64
}

// Fee is the declared fee and gas limit.
type Fee struct {
	Amount   types.Coins
	GasLimit uint64
	Payer    string
	Granter  string
}

// SignerInfo pairs a public key with the sequence the tx was signed at.
type SignerInfo struct {
	PubKey   *PubKey
	Sequence uint64
	SignMode int32
}

// AuthInfo is the decoded auth info.
type AuthInfo struct {
	SignerInfos []SignerInfo
	Fee         Fee
}

// Tx is a fully decoded transaction plus its raw envelope.
type Tx struct {
	Raw      TxRaw
	TxBytes  []byte
	Body     TxBody
	AuthInfo AuthInfo
}

// GetMsgs returns the body messages.
func (t *Tx) GetMsgs() []Msg {
	return t.Body.Messages
}

// GetSigners returns the distinct signers of all messages in declaration
// order; the first signer is the default fee payer.
func (t *Tx) GetSigners() []types.AccAddress {
	var signers []types.AccAddress
	seen := map[string]bool{}

	for _, msg := range t.Body.Messages {
		for _, addr := range msg.GetSigners() {
			if !seen[string(addr)] {
				signers = append(signers, addr)
				seen[string(addr)] = true
			}
		}
	}

	return signers
}

// FeePayer is the account charged the fee: the explicit payer if declared,
// otherwise the first signer.
func (t *Tx) FeePayer() types.AccAddress {
	if t.AuthInfo.Fee.Payer != "" {
		addr, err := types.AccAddressFromBech32(t.AuthInfo.Fee.Payer)
		if err == nil {
			return addr
		}
	}

	signers := t.GetSigners()
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// SignBytes reconstructs the sign doc for one signer from the raw
// sub-byte-strings.
func (t *Tx) SignBytes(chainID string, accountNumber uint64) []byte {
	return MakeSignDocBytes(t.Raw.BodyBytes, t.Raw.AuthInfoBytes, chainID, accountNumber)
}

// MakeSignDocBytes serializes a SignDoc.
func MakeSignDocBytes(bodyBytes, authInfoBytes []byte, chainID string, accountNumber uint64) []byte {
	var buf []byte
	buf = AppendTagBytes(buf, 1, bodyBytes)
	buf = AppendTagBytes(buf, 2, authInfoBytes)
	buf = AppendTagString(buf, 3, chainID)
	buf = AppendTagUvarint(buf, 4, accountNumber)
	return buf
}

// DecodeTx parses raw tx bytes, resolving messages against the registry and
// enforcing the structural rules: non-empty messages, no extension options,
// signature count matching signer infos.
func DecodeTx(registry *Registry, txBytes []byte) (*Tx, error) {
	raw, err := decodeTxRaw(txBytes)
	if err != nil {
		return nil, errorsmod.Wrap(errors.ErrTxDecode, err.Error())
	}

	body, err := decodeTxBody(registry, raw.BodyBytes)
	if err != nil {
		return nil, err
	}

	authInfo, err := decodeAuthInfo(raw.AuthInfoBytes)
	if err != nil {
		return nil, err
	}

	if len(body.Messages) == 0 {
		return nil, errorsmod.Wrap(errors.ErrTxValidation, "tx must contain at least one message")
	}

	if len(raw.Signatures) != len(authInfo.SignerInfos) {
		return nil, errorsmod.Wrapf(errors.ErrTxValidation,
			"wrong number of signatures; expected %d, got %d", len(authInfo.SignerInfos), len(raw.Signatures))
	}

	for _, msg := range body.Messages {
		if err := msg.ValidateBasic(); err != nil {
			return nil, err
		}
	}

	return &Tx{
		Raw:      raw,
		TxBytes:  txBytes,
		Body:     body,
		AuthInfo: authInfo,
	}, nil
}

func decodeTxRaw(bz []byte) (TxRaw, error) {
	var raw TxRaw

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			raw.BodyBytes = f.bytes
		case 2:
			raw.AuthInfoBytes = f.bytes
		case 3:
			raw.Signatures = append(raw.Signatures, f.bytes)
		}
		return nil
	})

	return raw, err
}

func decodeTxBody(registry *Registry, bz []byte) (TxBody, error) {
	var body TxBody

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			any, err := decodeAny(f.bytes)
			if err != nil {
				return err
			}
			msg, err := registry.Decode(any)
			if err != nil {
				return err
			}
			body.Messages = append(body.Messages, msg)
		case 2:
			body.Memo = string(f.bytes)
		case 3:
			body.TimeoutHeight = f.varint
		case 1023, 2047:
			return errorsmod.Wrap(errors.ErrTxValidation, "unknown extension options are not supported")
		}
		return nil
	})
	if err != nil {
		if errorsmod.IsOf(err, errors.ErrUnknownMsg, errors.ErrTxValidation, errors.ErrTxDecode) {
			return body, err
		}
		return body, errorsmod.Wrap(errors.ErrTxDecode, err.Error())
	}

	return body, nil
}

func decodeAuthInfo(bz []byte) (AuthInfo, error) {
	var authInfo AuthInfo

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			si, err := decodeSignerInfo(f.bytes)
			if err != nil {
				return err
			}
			authInfo.SignerInfos = append(authInfo.SignerInfos, si)
		case 2:
			fee, err := decodeFee(f.bytes)
			if err != nil {
				return err
			}
			authInfo.Fee = fee
		}
		return nil
	})
	if err != nil {
		return authInfo, errorsmod.Wrap(errors.ErrTxDecode, err.Error())
	}

	return authInfo, nil
}

func decodeSignerInfo(bz []byte) (SignerInfo, error) {
	si := SignerInfo{SignMode: SignModeDirect}

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			any, err := decodeAny(f.bytes)
			if err != nil {
				return err
			}
			pk, err := DecodePubKey(any)
			if err != nil {
				return err
			}
			si.PubKey = pk
		case 2:
			mode, err := decodeModeInfo(f.bytes)
			if err != nil {
				return err
			}
			si.SignMode = mode
		case 3:
			si.Sequence = f.varint
		}
		return nil
	})

	return si, err
}

func decodeModeInfo(bz []byte) (int32, error) {
	mode := int32(SignModeDirect)

	err := walkFields(bz, func(f field) error {
		if f.num == 1 { // single
			return walkFields(f.bytes, func(inner field) error {
				if inner.num == 1 {
					mode = int32(inner.varint)
				}
				return nil
			})
		}
		return nil
	})

	return mode, err
}

func decodeFee(bz []byte) (Fee, error) {
	var fee Fee

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			coin, err := DecodeCoin(f.bytes)
			if err != nil {
				return err
			}
			fee.Amount = fee.Amount.Add(coin)
		case 2:
			fee.GasLimit = f.varint
		case 3:
			fee.Payer = string(f.bytes)
		case 4:
			fee.Granter = string(f.bytes)
		}
		return nil
	})

	return fee, err
}

// DecodeCoin decodes a cosmos.base.v1beta1.Coin.
func DecodeCoin(bz []byte) (types.Coin, error) {
	var coin types.Coin

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			coin.Denom = string(f.bytes)
		case 2:
			amount, ok := sdkmath.NewIntFromString(string(f.bytes))
			if !ok {
				return errorsmod.Wrapf(errors.ErrInvalidCoins, "invalid amount %q", string(f.bytes))
			}
			coin.Amount = amount
		}
		return nil
	})
	if err != nil {
		return coin, err
	}

	return coin, coin.Validate()
}

// EncodeCoin serializes a cosmos.base.v1beta1.Coin.
func EncodeCoin(coin types.Coin) []byte {
	var buf []byte
	buf = AppendTagString(buf, 1, coin.Denom)
	buf = AppendTagString(buf, 2, coin.Amount.String())
	return buf
}

// AppendCoin appends a coin as a length-delimited sub-message.
func AppendCoin(buf []byte, num protowire.Number, coin types.Coin) []byte {
	return AppendTagBytes(buf, num, EncodeCoin(coin))
}
