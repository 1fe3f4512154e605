package types

import sdkmath "cosmossdk.io/math"

func zeroInt() sdkmath.Int {
	return sdkmath.ZeroInt()
}
