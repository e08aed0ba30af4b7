package host

import (
	"fmt"
	"math"
	"math/bits"
)

// GasSchedule prices sub-calls. Every call costs Base plus PerByte for each
// byte of calldata sent and return data received.
type GasSchedule struct {
	Limit   uint64
	Base    uint64
	PerByte uint64
}

func DefaultGasSchedule() GasSchedule {
	return GasSchedule{
		Limit:   10_000_000,
		Base:    2_600,
		PerByte: 16,
	}
}

// Meter tracks gas for one invocation.
type Meter struct {
	limit uint64
	used  uint64
}

func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// Charge consumes amount, failing once the limit would be crossed. A failed
// charge exhausts the meter.
func (m *Meter) Charge(amount uint64) error {
	if amount > m.limit-m.used {
		m.used = m.limit
		return fmt.Errorf("%w: limit %d", ErrOutOfGas, m.limit)
	}
	m.used += amount
	return nil
}

func (m *Meter) Used() uint64 {
	return m.used
}

func (m *Meter) Remaining() uint64 {
	return m.limit - m.used
}

// callCost and dataCost saturate at math.MaxUint64 so an oversized schedule
// exhausts the meter instead of wrapping.
func (s GasSchedule) callCost(n int) uint64 {
	sum, carry := bits.Add64(s.Base, s.dataCost(n), 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func (s GasSchedule) dataCost(n int) uint64 {
	hi, lo := bits.Mul64(s.PerByte, uint64(n))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
