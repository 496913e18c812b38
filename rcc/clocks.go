package rcc

import "clockcode-go/x/freq"

// ClockID names a node of the resolved tree.
type ClockID uint8

const (
	Sys ClockID = iota
	CPU
	HCLK
	PCLK1
	PCLK2
	PCLK3
	PCLK4
	PCLK5
	PCLK1Tim
	PCLK2Tim
	HSI
	HSE
	CSI
	HSI48
	PerCK
	PLL1P
	PLL1Q
	PLL1R
	PLL1S
	PLL1T
	PLL2P
	PLL2Q
	PLL2R
	PLL2S
	PLL2T
	PLL3P
	PLL3Q
	PLL3R
	PLL3S
	PLL3T

	NumClocks
)

var clockNames = [NumClocks]string{
	"sys", "cpu", "hclk", "pclk1", "pclk2", "pclk3", "pclk4", "pclk5", "pclk1_tim", "pclk2_tim",
	"hsi", "hse", "csi", "hsi48", "per_ck",
	"pll1_p", "pll1_q", "pll1_r", "pll1_s", "pll1_t",
	"pll2_p", "pll2_q", "pll2_r", "pll2_s", "pll2_t",
	"pll3_p", "pll3_q", "pll3_r", "pll3_s", "pll3_t",
}

func (id ClockID) String() string {
	if id < NumClocks {
		return clockNames[id]
	}
	return "invalid"
}

// ParseClockID maps a clock name such as "pll1_q" back to its ID.
func ParseClockID(s string) (ClockID, bool) {
	for i, n := range clockNames {
		if n == s {
			return ClockID(i), true
		}
	}
	return 0, false
}

// PLLOut returns the ID of output out (0=P .. 4=T) of PLL slot pll (0-based).
func PLLOut(pll, out int) ClockID { return PLL1P + ClockID(pll*5+out) }

// APBClock returns the ID of APB domain n (1-based).
func APBClock(n int) ClockID { return PCLK1 + ClockID(n-1) }

// FrequencySource is what peripheral drivers need from the resolved tree.
type FrequencySource interface {
	Get(id ClockID) (freq.Hertz, bool)
}

// Kernel is a resolved kernel-clock mux.
type Kernel struct {
	Mux    string
	Source ClockID
	Freq   freq.Hertz
	OK     bool
}

// Clocks is the resolved clock tree. A node that is absent is disabled or
// unused; it never means the node failed. Clocks is a value: copies handed
// to drivers cannot be changed by anyone.
type Clocks struct {
	f      [NumClocks]freq.Hertz
	on     uint32
	kernel []Kernel
}

func (c *Clocks) set(id ClockID, f freq.Hertz) {
	c.f[id] = f
	c.on |= 1 << id
}

// Get returns the frequency of id, or false when the node is not driven.
func (c Clocks) Get(id ClockID) (freq.Hertz, bool) {
	if id >= NumClocks || c.on&(1<<id) == 0 {
		return 0, false
	}
	return c.f[id], true
}

// Must is Get for nodes the caller knows are present; absent nodes read 0.
func (c Clocks) Must(id ClockID) freq.Hertz {
	f, _ := c.Get(id)
	return f
}

// Kernel returns the kernel clock of the named mux.
func (c Clocks) Kernel(mux string) (freq.Hertz, bool) {
	for _, k := range c.kernel {
		if k.Mux == mux {
			return k.Freq, k.OK
		}
	}
	return 0, false
}

// Kernels lists every resolved mux.
func (c Clocks) Kernels() []Kernel {
	out := make([]Kernel, len(c.kernel))
	copy(out, c.kernel)
	return out
}

// Each visits present nodes in ID order.
func (c Clocks) Each(fn func(ClockID, freq.Hertz)) {
	for id := ClockID(0); id < NumClocks; id++ {
		if c.on&(1<<id) != 0 {
			fn(id, c.f[id])
		}
	}
}

// Equal compares two trees node by node, kernels included.
func (c Clocks) Equal(o Clocks) bool {
	if c.on != o.on || c.f != o.f || len(c.kernel) != len(o.kernel) {
		return false
	}
	for i := range c.kernel {
		if c.kernel[i] != o.kernel[i] {
			return false
		}
	}
	return true
}
