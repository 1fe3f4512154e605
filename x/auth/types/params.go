package types

import "github.com/pkg/errors"

// Params are the auth module's chain parameters.
type Params struct {
	MaxMemoCharacters      uint64 `json:"max_memo_characters,string"`
	TxSigLimit             uint64 `json:"tx_sig_limit,string"`
	TxSizeCostPerByte      uint64 `json:"tx_size_cost_per_byte,string"`
	SigVerifyCostED25519   uint64 `json:"sig_verify_cost_ed25519,string"`
	SigVerifyCostSecp256k1 uint64 `json:"sig_verify_cost_secp256k1,string"`
}

// Default parameter values.
const (
	DefaultMaxMemoCharacters      uint64 = 256
	DefaultTxSigLimit             uint64 = 7
	DefaultTxSizeCostPerByte      uint64 = 10
	DefaultSigVerifyCostED25519   uint64 = 590
	DefaultSigVerifyCostSecp256k1 uint64 = 1000
)

// MaxTxBytes bounds the raw tx size accepted by the ante checks.
const MaxTxBytes = 1048576

func DefaultParams() Params {
	return Params{
		MaxMemoCharacters:      DefaultMaxMemoCharacters,
		TxSigLimit:             DefaultTxSigLimit,
		TxSizeCostPerByte:      DefaultTxSizeCostPerByte,
		SigVerifyCostED25519:   DefaultSigVerifyCostED25519,
		SigVerifyCostSecp256k1: DefaultSigVerifyCostSecp256k1,
	}
}

func (p Params) Validate() error {
	if p.MaxMemoCharacters == 0 {
		return errors.New("max memo characters must be positive")
	}
	if p.TxSigLimit == 0 {
		return errors.New("tx sig limit must be positive")
	}
	return nil
}

// Param store keys within the auth subspace.
var (
	KeyMaxMemoCharacters      = []byte("MaxMemoCharacters")
	KeyTxSigLimit             = []byte("TxSigLimit")
	KeyTxSizeCostPerByte      = []byte("TxSizeCostPerByte")
	KeySigVerifyCostED25519   = []byte("SigVerifyCostED25519")
	KeySigVerifyCostSecp256k1 = []byte("SigVerifyCostSecp256k1")
)
