package rcc

import "clockcode-go/x/freq"

// Fixed oscillator frequencies.
const (
	HSIFreq   freq.Hertz = 64 * freq.MHz
	CSIFreq   freq.Hertz = 4 * freq.MHz
	HSI48Freq freq.Hertz = 48 * freq.MHz
)

// HSIDiv is the HSI output divider. HSIOff leaves the HSI unused by the
// final tree; it still clocks the bring-up itself.
type HSIDiv uint8

const (
	HSIOff  HSIDiv = 0
	HSIDiv1 HSIDiv = 1
	HSIDiv2 HSIDiv = 2
	HSIDiv4 HSIDiv = 4
	HSIDiv8 HSIDiv = 8
)

type HSEMode uint8

const (
	// HSECrystal is a crystal or ceramic resonator (HSEBYP=0).
	HSECrystal HSEMode = iota
	// HSEBypass is a low-swing external clock (HSEBYP=1, HSEEXT=0).
	HSEBypass
	// HSEBypassDigital is a full-swing external clock (HSEBYP=1, HSEEXT=1).
	HSEBypassDigital
)

func (m HSEMode) String() string {
	switch m {
	case HSECrystal:
		return "crystal"
	case HSEBypass:
		return "bypass"
	case HSEBypassDigital:
		return "bypass_digital"
	}
	return "invalid"
}

type HSEConfig struct {
	Freq freq.Hertz
	Mode HSEMode
}

type PLLSource uint8

const (
	PLLSrcHSI PLLSource = iota
	PLLSrcCSI
	PLLSrcHSE
)

func (s PLLSource) String() string {
	switch s {
	case PLLSrcHSI:
		return "hsi"
	case PLLSrcCSI:
		return "csi"
	case PLLSrcHSE:
		return "hse"
	}
	return "invalid"
}

// PLLDiv is an output divider, 1..128. Zero disables the output.
type PLLDiv uint8

// PLL is one PLL slot. Outputs S and T only exist on some families.
type PLL struct {
	Source PLLSource
	PreDiv uint8  // DIVM, 1..63
	Mul    uint16 // DIVN, 4..512
	P      PLLDiv
	Q      PLLDiv
	R      PLLDiv
	S      PLLDiv
	T      PLLDiv
}

// Outputs returns the P..T dividers in order.
func (p *PLL) Outputs() [5]PLLDiv { return [5]PLLDiv{p.P, p.Q, p.R, p.S, p.T} }

type SysSource uint8

const (
	SysHSI SysSource = iota
	SysCSI
	SysHSE
	SysPLL1P
)

func (s SysSource) String() string {
	switch s {
	case SysHSI:
		return "hsi"
	case SysCSI:
		return "csi"
	case SysHSE:
		return "hse"
	case SysPLL1P:
		return "pll1_p"
	}
	return "invalid"
}

// AHBPrescaler is a core or AHB divider: 1, 2, 4, 8, 16, 64, 128, 256 or 512.
// Zero is read as 1.
type AHBPrescaler uint16

// APBPrescaler is a peripheral bus divider: 1, 2, 4, 8 or 16. Zero is read as 1.
type APBPrescaler uint8

func (p AHBPrescaler) Div() uint32 {
	if p == 0 {
		return 1
	}
	return uint32(p)
}

func (p APBPrescaler) Div() uint32 {
	if p == 0 {
		return 1
	}
	return uint32(p)
}

// TimerPrescaler selects how timer kernel clocks follow their APB clock.
type TimerPrescaler uint8

const (
	// TimerX2: timer clock is hclk when PPRE is /1 or /2, else 2*pclk.
	TimerX2 TimerPrescaler = iota
	// TimerX4: timer clock is hclk when PPRE is /1, /2 or /4, else 4*pclk.
	TimerX4
)

// VoltageScale orders core supply points from fastest (Scale0) to lowest
// power (Scale3). Families with two points use Scale0 for HIGH and Scale1
// for LOW.
type VoltageScale uint8

const (
	Scale0 VoltageScale = iota
	Scale1
	Scale2
	Scale3
)

func (v VoltageScale) String() string {
	switch v {
	case Scale0:
		return "scale0"
	case Scale1:
		return "scale1"
	case Scale2:
		return "scale2"
	case Scale3:
		return "scale3"
	}
	return "invalid"
}

type SupplyMode uint8

const (
	SupplyLDO SupplyMode = iota
	SupplyDefault
	SupplyDirectSMPS
	SupplySMPSLDO
	SupplySMPSExternalLDO
	SupplySMPSExternalLDOBypass
	SupplySMPSDisabledLDOBypass
)

type SMPSLevel uint8

const (
	SMPS1V8 SMPSLevel = iota
	SMPS2V5
)

type Supply struct {
	Mode  SupplyMode
	Level SMPSLevel // SMPSLDO, SMPSExternalLDO and SMPSExternalLDOBypass only
}

// MuxSelect routes a kernel-clock mux to a source clock.
type MuxSelect struct {
	Mux    string
	Source ClockID
}

// Topology is the declarative clock tree. It is plain data owned by the
// caller; nothing in this package mutates it.
type Topology struct {
	HSI   HSIDiv
	HSE   *HSEConfig
	CSI   bool
	HSI48 bool

	PLL [3]*PLL

	Sys     SysSource
	CoreDiv AHBPrescaler // families with a separate CPU domain divider
	AHBDiv  AHBPrescaler
	APB     [5]APBPrescaler // APB1..APB5; absent domains stay at 0 or 1
	Timer   TimerPrescaler

	VoltageScale VoltageScale
	Supply       Supply
	CPUFreqBoost bool

	Mux []MuxSelect
}

// DefaultTopology is HSI undivided as system clock, every divider at 1,
// HSI48 on, no PLLs, and the lowest-power voltage scale whose ceilings
// still admit that tree on fam.
func DefaultTopology(fam Family) Topology {
	t := Topology{
		HSI:    HSIDiv1,
		HSI48:  true,
		Sys:    SysHSI,
		Timer:  TimerX2,
		Supply: Supply{Mode: SupplyLDO},
	}
	sc := fam.Traits().Scales
	t.VoltageScale = sc[0]
	for i := len(sc) - 1; i >= 0; i-- {
		t.VoltageScale = sc[i]
		if _, err := Validate(fam, t); err == nil {
			break
		}
	}
	return t
}
