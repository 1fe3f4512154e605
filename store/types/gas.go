package types

import (
	"fmt"
	"math"
)

// Gas is a unit of execution cost.
type Gas = uint64

// NoGasLimit marks a meter that only counts.
const NoGasLimit Gas = math.MaxUint64

// ErrorOutOfGas is panicked by a finite meter when a charge would exceed the
// limit. It is recovered at the tx boundary.
type ErrorOutOfGas struct {
	Descriptor string
}

// ErrorGasOverflow is panicked when accumulated gas overflows uint64. Distinct
// from running out: overflow means the caller's accounting is broken.
type ErrorGasOverflow struct {
	Descriptor string
}

// GasMeter tracks monotonic gas consumption within one scope (a tx or a
// block). Charges past the limit panic with ErrorOutOfGas.
type GasMeter interface {
	GasConsumed() Gas
	GasConsumedToLimit() Gas
	GasRemaining() Gas
	Limit() Gas
	ConsumeGas(amount Gas, descriptor string)
	IsPastLimit() bool
	IsOutOfGas() bool
	String() string
}

type basicGasMeter struct {
	limit    Gas
	consumed Gas
}

// NewGasMeter returns a meter that fails at limit.
func NewGasMeter(limit Gas) GasMeter {
	return &basicGasMeter{limit: limit}
}

func (g *basicGasMeter) GasConsumed() Gas {
	return g.consumed
}

func (g *basicGasMeter) GasConsumedToLimit() Gas {
	if g.IsPastLimit() {
		return g.limit
	}
	return g.consumed
}

func (g *basicGasMeter) GasRemaining() Gas {
	if g.IsPastLimit() {
		return 0
	}
	return g.limit - g.consumed
}

func (g *basicGasMeter) Limit() Gas {
	return g.limit
}

func (g *basicGasMeter) ConsumeGas(amount Gas, descriptor string) {
	consumed, overflow := addGas(g.consumed, amount)
	if overflow {
		g.consumed = math.MaxUint64
		panic(ErrorGasOverflow{descriptor})
	}

	if consumed > g.limit {
		g.consumed = consumed
		panic(ErrorOutOfGas{descriptor})
	}

	g.consumed = consumed
}

func (g *basicGasMeter) IsPastLimit() bool {
	return g.consumed > g.limit
}

func (g *basicGasMeter) IsOutOfGas() bool {
	return g.consumed >= g.limit
}

func (g *basicGasMeter) String() string {
	return fmt.Sprintf("BasicGasMeter{consumed: %d, limit: %d}", g.consumed, g.limit)
}

type infiniteGasMeter struct {
	consumed Gas
}

// NewInfiniteGasMeter returns a meter that never fails and only counts.
// Used for init genesis, begin/end block and simulation.
func NewInfiniteGasMeter() GasMeter {
	return &infiniteGasMeter{}
}

func (g *infiniteGasMeter) GasConsumed() Gas {
	return g.consumed
}

func (g *infiniteGasMeter) GasConsumedToLimit() Gas {
	return g.consumed
}

func (g *infiniteGasMeter) GasRemaining() Gas {
	return NoGasLimit
}

func (g *infiniteGasMeter) Limit() Gas {
	return NoGasLimit
}

func (g *infiniteGasMeter) ConsumeGas(amount Gas, descriptor string) {
	consumed, overflow := addGas(g.consumed, amount)
	if overflow {
		panic(ErrorGasOverflow{descriptor})
	}

	g.consumed = consumed
}

func (g *infiniteGasMeter) IsPastLimit() bool {
	return false
}

func (g *infiniteGasMeter) IsOutOfGas() bool {
	return false
}

func (g *infiniteGasMeter) String() string {
	return fmt.Sprintf("InfiniteGasMeter{consumed: %d}", g.consumed)
}

func addGas(a, b Gas) (Gas, bool) {
	sum := a + b
	return sum, sum < a
}

// GasConfig holds the per-operation costs charged by gas-metered stores.
type GasConfig struct {
	HasCost          Gas
	DeleteCost       Gas
	ReadCostFlat     Gas
	ReadCostPerByte  Gas
	WriteCostFlat    Gas
	WriteCostPerByte Gas
	IterNextCostFlat Gas
}

// KVGasConfig returns the default costs for KV store access.
func KVGasConfig() GasConfig {
	return GasConfig{
		HasCost:          1000,
		DeleteCost:       1000,
		ReadCostFlat:     1000,
		ReadCostPerByte:  3,
		WriteCostFlat:    2000,
		WriteCostPerByte: 30,
		IterNextCostFlat: 30,
	}
}
