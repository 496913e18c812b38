// Package freq is the frequency value type shared by the clock core and drivers.
package freq

import (
	"errors"
	"math"
	"strings"

	"periph.io/x/conn/v3/physic"
)

// Hertz is a non-negative integral frequency.
type Hertz uint64

const (
	Hz  Hertz = 1
	KHz Hertz = 1_000
	MHz Hertz = 1_000_000

	// MaxHertz is the saturation point of Mul. It is also the largest value
	// physic.Frequency can carry (micro-hertz in an int64).
	MaxHertz Hertz = Hertz(math.MaxInt64 / int64(physic.Hertz))
)

var (
	ErrNegative   = errors.New("freq: negative frequency")
	ErrSubHertz   = errors.New("freq: sub-hertz resolution")
	ErrOutOfRange = errors.New("freq: out of range")
)

// MHzOf is shorthand for n megahertz.
func MHzOf(n uint64) Hertz { return Hertz(n) * MHz }

// KHzOf is shorthand for n kilohertz.
func KHzOf(n uint64) Hertz { return Hertz(n) * KHz }

// Mul scales by n, saturating at MaxHertz.
func (f Hertz) Mul(n uint32) Hertz {
	r, ok := f.CheckedMul(n)
	if !ok {
		return MaxHertz
	}
	return r
}

// CheckedMul scales by n and reports false on overflow past MaxHertz.
func (f Hertz) CheckedMul(n uint32) (Hertz, bool) {
	if n == 0 || f == 0 {
		return 0, true
	}
	if f > MaxHertz/Hertz(n) {
		return 0, false
	}
	return f * Hertz(n), true
}

// Div divides by d, truncating. Division by zero yields 0.
func (f Hertz) Div(d uint32) Hertz {
	r, _ := f.CheckedDiv(d)
	return r
}

// CheckedDiv divides by d and reports false for d == 0.
func (f Hertz) CheckedDiv(d uint32) (Hertz, bool) {
	if d == 0 {
		return 0, false
	}
	return f / Hertz(d), true
}

// AbsDiff returns |f - o|.
func (f Hertz) AbsDiff(o Hertz) Hertz {
	if f > o {
		return f - o
	}
	return o - f
}

// Physic converts to periph's physic.Frequency.
func (f Hertz) Physic() physic.Frequency {
	if f > MaxHertz {
		f = MaxHertz
	}
	return physic.Frequency(f) * physic.Hertz
}

func (f Hertz) String() string { return f.Physic().String() }

// Parse reads "25MHz", "64 MHz", "4000000" (plain hertz) and similar.
func Parse(s string) (Hertz, error) {
	var pf physic.Frequency
	if err := pf.Set(strings.ReplaceAll(strings.TrimSpace(s), " ", "")); err != nil {
		return 0, err
	}
	return FromPhysic(pf)
}

// FromPhysic converts a physic.Frequency, rejecting negative and fractional
// hertz values.
func FromPhysic(pf physic.Frequency) (Hertz, error) {
	if pf < 0 {
		return 0, ErrNegative
	}
	if pf%physic.Hertz != 0 {
		return 0, ErrSubHertz
	}
	return Hertz(pf / physic.Hertz), nil
}

// Range is an inclusive frequency interval.
type Range struct {
	Min, Max Hertz
}

// Contains reports Min <= f <= Max.
func (r Range) Contains(f Hertz) bool { return f >= r.Min && f <= r.Max }

func (r Range) String() string { return r.Min.String() + ".." + r.Max.String() }

// MarshalText and UnmarshalText let frequencies travel as "25MHz" in YAML and JSON.
func (f Hertz) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Hertz) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
