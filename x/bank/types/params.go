package types

// Params are the bank module's chain parameters.
type Params struct {
	SendEnabled bool `json:"send_enabled"`
}

func DefaultParams() Params {
	return Params{SendEnabled: true}
}

func (p Params) Validate() error {
	return nil
}

// Param store keys within the bank subspace.
var (
	KeySendEnabled = []byte("SendEnabled")
)
