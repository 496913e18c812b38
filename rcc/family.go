package rcc

import (
	"strings"

	"clockcode-go/errcode"
	"clockcode-go/x/freq"
	"clockcode-go/x/mmio"
)

// MediumVCO is the PLL VCO range every family supports.
var MediumVCO = freq.Range{Min: 150 * freq.MHz, Max: 420 * freq.MHz}

// HSERange bounds the external oscillator in every mode.
var HSERange = freq.Range{Min: 4 * freq.MHz, Max: 50 * freq.MHz}

// PDivRule constrains PLL1's P divider.
type PDivRule uint8

const (
	PDivEven PDivRule = iota
	PDivEvenOrOne
)

// SupplyKind says how much of the power supply the silicon lets us choose.
type SupplyKind uint8

const (
	SupplyNone SupplyKind = iota
	SupplyFixedLDO
	SupplyConfigurable
)

// Traits are the static capabilities of a silicon family.
type Traits struct {
	Name             string
	Scales           []VoltageScale // fastest first
	PLLs             int
	CoreDiv          bool
	APB              [5]bool // APB1..APB5 present
	SharedPLLSource  bool
	PDiv             PDivRule
	WideVCO          freq.Range
	PLLOutputsST     bool
	HSEDigitalBypass bool
	Supply           SupplyKind
	SMPS2V5          bool
	Overdrive        bool
	FreqBoost        bool
	HSIDivReset      HSIDiv
}

// SupportsScale reports whether vs is one of the family's operating points.
func (t *Traits) SupportsScale(vs VoltageScale) bool {
	for _, s := range t.Scales {
		if s == vs {
			return true
		}
	}
	return false
}

// Ceilings are the maximum clocks at one voltage scale. Core is unused on
// families without a CPU domain divider.
type Ceilings struct {
	Core freq.Hertz
	HCLK freq.Hertz
	PCLK freq.Hertz
}

// FlashTier is one row of a flash wait-state table: up to Max, use Latency
// wait states and the WrHighFreq programming delay.
type FlashTier struct {
	Max        freq.Hertz
	Latency    uint8
	WrHighFreq uint8
}

// MuxSource is one selectable input of a kernel-clock mux.
type MuxSource struct {
	Clock ClockID
	Code  uint32
}

// Mux is a peripheral kernel-clock selector.
type Mux struct {
	Name    string
	Field   mmio.Field
	Sources []MuxSource
}

func (m *Mux) source(id ClockID) (MuxSource, bool) {
	for _, s := range m.Sources {
		if s.Clock == id {
			return s, true
		}
	}
	return MuxSource{}, false
}

// resetSource is the input selected by the all-zero reset encoding.
func (m *Mux) resetSource() (ClockID, bool) {
	for _, s := range m.Sources {
		if s.Code == 0 {
			return s.Clock, true
		}
	}
	return 0, false
}

// Family is the per-silicon capability set the validator and sequencer are
// written against.
type Family interface {
	Traits() Traits
	Ceilings(vs VoltageScale, boost bool) (Ceilings, bool)
	FlashTiers(vs VoltageScale) []FlashTier
	Layout() *Layout
	Muxes() []Mux
}

type family struct {
	traits    Traits
	ceil      [4]Ceilings
	boostCore freq.Hertz
	flash     [4][]FlashTier
	layout    *Layout
	muxes     []Mux
}

func (f *family) Traits() Traits { return f.traits }

func (f *family) Ceilings(vs VoltageScale, boost bool) (Ceilings, bool) {
	if !f.traits.SupportsScale(vs) {
		return Ceilings{}, false
	}
	c := f.ceil[vs]
	if boost && vs == Scale0 && f.boostCore != 0 {
		c.Core = f.boostCore
	}
	return c, true
}

func (f *family) FlashTiers(vs VoltageScale) []FlashTier {
	if int(vs) >= len(f.flash) {
		return nil
	}
	return f.flash[vs]
}

func (f *family) Layout() *Layout { return f.layout }

func (f *family) Muxes() []Mux { return f.muxes }

func (f *family) String() string { return f.traits.Name }

// Families lists every supported family.
func Families() []Family { return []Family{H7, H72x, H7AB, H5, H7RS} }

// FamilyByName accepts the family name ("stm32h7", "stm32h72x", ...),
// case-insensitively.
func FamilyByName(name string) (Family, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Families() {
		if f.Traits().Name == n {
			return f, nil
		}
	}
	return nil, errcode.New(errcode.UnknownFamily, "rcc", name)
}

// findMux looks up a mux by name.
func findMux(fam Family, name string) (*Mux, bool) {
	ms := fam.Muxes()
	for i := range ms {
		if ms[i].Name == name {
			return &ms[i], true
		}
	}
	return nil, false
}

func mhz(n uint64) freq.Hertz { return freq.Hertz(n) * freq.MHz }

func khz(n uint64) freq.Hertz { return freq.Hertz(n) * freq.KHz }
