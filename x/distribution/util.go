package distribution

import (
	sdk "github.com/gears-network/gears/types"
)

func validatorAddress(s string) (sdk.ValAddress, error) {
	return sdk.ValAddressFromBech32(s)
}
