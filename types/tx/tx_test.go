package tx

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto/secp256k1"
	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/types"
)

// testMsg is a minimal message used to exercise the codec.
type testMsg struct {
	Signer types.AccAddress
	Note   string
}

const testMsgURL = "/gears.test.v1.MsgPing"

func (m testMsg) TypeURL() string { return testMsgURL }

func (m testMsg) ValidateBasic() error { return nil }

func (m testMsg) GetSigners() []types.AccAddress { return []types.AccAddress{m.Signer} }

func (m testMsg) Marshal() ([]byte, error) {
	var buf []byte
	buf = AppendTagString(buf, 1, m.Signer.String())
	buf = AppendTagString(buf, 2, m.Note)
	return buf, nil
}

func decodeTestMsg(value []byte) (Msg, error) {
	var m testMsg
	err := walkFields(value, func(f field) error {
		switch f.num {
		case 1:
			addr, err := types.AccAddressFromBech32(string(f.bytes))
			if err != nil {
				return err
			}
			m.Signer = addr
		case 2:
			m.Note = string(f.bytes)
		}
		return nil
	})
	return m, err
}

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(testMsgURL, decodeTestMsg)
	return r
}

func buildSignedTx(t *testing.T, registry *Registry) ([]byte, secp256k1.PrivKey) {
	t.Helper()

	priv := secp256k1.GenPrivKey()
	pk := NewSecp256k1PubKey(priv.PubKey().Bytes())
	signer := pk.Address()

	builder := NewBuilder().
		SetMsgs(testMsg{Signer: signer, Note: "hello"}).
		SetMemo("memo").
		SetFee(types.NewCoins(types.NewInt64Coin("uatom", 1)), 200_000).
		AddSignerInfo(pk, 0)

	signDoc, err := builder.SignDocBytes("test-chain", 7)
	require.NoError(t, err)

	sig, err := priv.Sign(signDoc)
	require.NoError(t, err)
	builder.AddSignature(sig)

	raw, err := builder.BuildRaw()
	require.NoError(t, err)
	return raw, priv
}

func TestDecodeRoundTrip(t *testing.T) {
	registry := testRegistry()
	txBytes, _ := buildSignedTx(t, registry)

	decoded, err := DecodeTx(registry, txBytes)
	require.NoError(t, err)

	// re-encoding the raw envelope is byte-equal to the input
	require.Equal(t, txBytes, decoded.Raw.Encode())

	require.Len(t, decoded.Body.Messages, 1)
	require.Equal(t, "memo", decoded.Body.Memo)
	require.Equal(t, uint64(200_000), decoded.AuthInfo.Fee.GasLimit)
	require.Equal(t, "uatom", decoded.AuthInfo.Fee.Amount[0].Denom)
	require.Equal(t, sdkmath.NewInt(1), decoded.AuthInfo.Fee.Amount[0].Amount)
	require.Len(t, decoded.Raw.Signatures, 1)
}

func TestSignatureVerifiesOverReconstructedSignDoc(t *testing.T) {
	registry := testRegistry()
	txBytes, priv := buildSignedTx(t, registry)

	decoded, err := DecodeTx(registry, txBytes)
	require.NoError(t, err)

	signBytes := decoded.SignBytes("test-chain", 7)
	require.True(t, decoded.AuthInfo.SignerInfos[0].PubKey.VerifySignature(signBytes, decoded.Raw.Signatures[0]))

	// tampering with account number or chain id breaks verification
	require.False(t, decoded.AuthInfo.SignerInfos[0].PubKey.VerifySignature(decoded.SignBytes("test-chain", 8), decoded.Raw.Signatures[0]))
	require.False(t, decoded.AuthInfo.SignerInfos[0].PubKey.VerifySignature(decoded.SignBytes("other-chain", 7), decoded.Raw.Signatures[0]))

	// the pubkey derives the signer address
	require.Equal(t, priv.PubKey().Address().Bytes(), []byte(decoded.GetSigners()[0]))
}

func TestDecodeRejectsEmptyMessages(t *testing.T) {
	registry := testRegistry()

	builder := NewBuilder().SetFee(types.NewCoins(), 1000)
	raw, err := builder.BuildRaw()
	require.NoError(t, err)

	_, err = DecodeTx(registry, raw)
	require.ErrorContains(t, err, "at least one message")
}

func TestDecodeRejectsSignatureCountMismatch(t *testing.T) {
	registry := testRegistry()

	priv := secp256k1.GenPrivKey()
	pk := NewSecp256k1PubKey(priv.PubKey().Bytes())

	builder := NewBuilder().
		SetMsgs(testMsg{Signer: pk.Address()}).
		AddSignerInfo(pk, 0)
	// no signature added

	raw, err := builder.BuildRaw()
	require.NoError(t, err)

	_, err = DecodeTx(registry, raw)
	require.ErrorContains(t, err, "wrong number of signatures")
}

func TestDecodeRejectsUnknownMsg(t *testing.T) {
	registry := NewRegistry() // nothing registered

	txBytes, _ := buildSignedTx(t, testRegistry())
	_, err := DecodeTx(registry, txBytes)
	require.ErrorContains(t, err, "unknown message type")
}

func TestDecodeRejectsExtensionOptions(t *testing.T) {
	registry := testRegistry()

	var body []byte
	msgValue, err := testMsg{Signer: make(types.AccAddress, 20)}.Marshal()
	require.NoError(t, err)
	body = AppendTagBytes(body, 1, encodeAny(Any{TypeURL: testMsgURL, Value: msgValue}))
	body = AppendTagBytes(body, 1023, encodeAny(Any{TypeURL: "/some.Extension"}))

	raw := TxRaw{BodyBytes: body, AuthInfoBytes: nil}

	_, err = DecodeTx(registry, raw.Encode())
	require.ErrorContains(t, err, "extension options")
}

func TestFeePayerDefaultsToFirstSigner(t *testing.T) {
	registry := testRegistry()
	txBytes, priv := buildSignedTx(t, registry)

	decoded, err := DecodeTx(registry, txBytes)
	require.NoError(t, err)
	require.Equal(t, priv.PubKey().Address().Bytes(), []byte(decoded.FeePayer()))
}
