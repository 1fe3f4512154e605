package tx

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/secp256k1"

	"github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/errors"
)

// Supported public key type URLs.
const (
	PubKeySecp256k1URL = "/cosmos.crypto.secp256k1.PubKey"
	PubKeyEd25519URL   = "/cosmos.crypto.ed25519.PubKey"
)

// PubKey is a signature-verifying public key recovered from a signer info.
type PubKey struct {
	typeURL string
	key     crypto.PubKey
}

// DecodePubKey resolves a public key Any. The value is a single bytes field
// holding the raw key.
func DecodePubKey(any Any) (*PubKey, error) {
	var raw []byte
	err := walkFields(any.Value, func(f field) error {
		if f.num == 1 {
			raw = f.bytes
		}
		return nil
	})
	if err != nil {
		return nil, errorsmod.Wrap(errors.ErrTxDecode, err.Error())
	}

	switch any.TypeURL {
	case PubKeySecp256k1URL:
		if len(raw) != secp256k1.PubKeySize {
			return nil, errorsmod.Wrapf(errors.ErrTxDecode, "invalid secp256k1 key length %d", len(raw))
		}
		return &PubKey{typeURL: any.TypeURL, key: secp256k1.PubKey(raw)}, nil
	case PubKeyEd25519URL:
		if len(raw) != ed25519.PubKeySize {
			return nil, errorsmod.Wrapf(errors.ErrTxDecode, "invalid ed25519 key length %d", len(raw))
		}
		return &PubKey{typeURL: any.TypeURL, key: ed25519.PubKey(raw)}, nil
	default:
		return nil, errorsmod.Wrapf(errors.ErrTxDecode, "unsupported public key type %s", any.TypeURL)
	}
}

// NewSecp256k1PubKey wraps a raw compressed secp256k1 key.
func NewSecp256k1PubKey(raw []byte) *PubKey {
	return &PubKey{typeURL: PubKeySecp256k1URL, key: secp256k1.PubKey(raw)}
}

// NewEd25519PubKey wraps a raw ed25519 key.
func NewEd25519PubKey(raw []byte) *PubKey {
	return &PubKey{typeURL: PubKeyEd25519URL, key: ed25519.PubKey(raw)}
}

func (pk *PubKey) TypeURL() string {
	return pk.typeURL
}

func (pk *PubKey) Bytes() []byte {
	return pk.key.Bytes()
}

// CometPubKey exposes the underlying consensus key, used when reporting
// validator updates.
func (pk *PubKey) CometPubKey() crypto.PubKey {
	return pk.key
}

// Address derives the account address from the key.
func (pk *PubKey) Address() types.AccAddress {
	return types.AccAddress(pk.key.Address())
}

// VerifySignature checks sig over msg.
func (pk *PubKey) VerifySignature(msg, sig []byte) bool {
	return pk.key.VerifySignature(msg, sig)
}

// Encode serializes the key back into an Any.
func (pk *PubKey) Encode() Any {
	var value []byte
	value = AppendTagBytes(value, 1, pk.key.Bytes())
	return Any{TypeURL: pk.typeURL, Value: value}
}

// MarshalJSON encodes the key for genesis export.
func (pk *PubKey) MarshalJSON() ([]byte, error) {
	return marshalPubKeyJSON(pk)
}

func (pk *PubKey) UnmarshalJSON(bz []byte) error {
	decoded, err := unmarshalPubKeyJSON(bz)
	if err != nil {
		return err
	}

	*pk = *decoded
	return nil
}
