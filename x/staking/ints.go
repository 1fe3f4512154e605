package staking

import sdkmath "cosmossdk.io/math"

func sdkZeroInt() sdkmath.Int {
	return sdkmath.ZeroInt()
}
