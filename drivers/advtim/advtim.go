// Package advtim drives the dead-time generator of the STM32 advanced-control
// timers (TIM1, TIM8) over an mmio.Bus.
//
// The timer kernel clock comes from a resolved clock tree:
//
//	t := advtim.New(bus, advtim.TIM1, clocks)
//	_, err := t.SetDeadTimeNanos(250)
package advtim

import (
	"errors"

	"clockcode-go/rcc"
	"clockcode-go/x/freq"
	"clockcode-go/x/mathx"
	"clockcode-go/x/mmio"
)

// Register block bases on STM32H7.
const (
	TIM1 uint32 = 0x4001_0000
	TIM8 uint32 = 0x4001_0400
)

const (
	offCR1  = 0x00
	offBDTR = 0x44
)

var (
	ErrNoClock = errors.New("advtim: timer kernel clock not running")
	ErrLocked  = errors.New("advtim: BDTR is locked")
)

// Config is optional.
type Config struct {
	// Clock is the timer kernel clock node. Nil keeps rcc.PCLK2Tim,
	// which feeds TIM1 and TIM8.
	Clock *rcc.ClockID
}

// Timer is one advanced-control timer.
type Timer struct {
	bus   mmio.Bus
	clk   rcc.FrequencySource
	clkID rcc.ClockID

	ckd  mmio.Field
	dtg  mmio.Field
	lock mmio.Field
}

// New binds a timer register block. clk may be nil when only SetDeadTime is used.
func New(bus mmio.Bus, base uint32, clk rcc.FrequencySource) *Timer {
	return &Timer{
		bus:   bus,
		clk:   clk,
		clkID: rcc.PCLK2Tim,
		ckd:   mmio.Bits(base+offCR1, 8, 2),
		dtg:   mmio.Bits(base+offBDTR, 0, 8),
		lock:  mmio.Bits(base+offBDTR, 8, 2),
	}
}

// Configure applies cfg. It does not touch the hardware.
func (t *Timer) Configure(cfg Config) {
	if cfg.Clock != nil {
		t.clkID = *cfg.Clock
	}
}

// SetDeadTime programs the setting nearest to ticks kernel clock ticks and
// returns it.
func (t *Timer) SetDeadTime(ticks uint16) (DeadTime, error) {
	if t.lock.Get(t.bus) != 0 {
		return DeadTime{}, ErrLocked
	}
	d := ComputeDeadTime(ticks)
	t.ckd.Set(t.bus, uint32(d.CKD))
	t.dtg.Set(t.bus, uint32(d.DTG))
	return d, nil
}

// SetDeadTimeNanos converts ns to kernel clock ticks, rounding to nearest,
// and programs the result.
func (t *Timer) SetDeadTimeNanos(ns uint32) (DeadTime, error) {
	if t.clk == nil {
		return DeadTime{}, ErrNoClock
	}
	f, ok := t.clk.Get(t.clkID)
	if !ok || f == 0 {
		return DeadTime{}, ErrNoClock
	}
	return t.SetDeadTime(NanosToTicks(ns, f))
}

// NanosToTicks converts ns at kernel clock f to ticks, rounding to nearest
// and saturating at 0xFFFF.
func NanosToTicks(ns uint32, f freq.Hertz) uint16 {
	ticks := mathx.RoundDiv(uint64(ns)*uint64(f), 1_000_000_000)
	return uint16(mathx.Min(ticks, 0xFFFF))
}

// DeadTime reads back the programmed setting.
func (t *Timer) DeadTime() DeadTime {
	return DeadTime{CKD: CKD(t.ckd.Get(t.bus)), DTG: uint8(t.dtg.Get(t.bus))}
}
