package rcc

import (
	"strconv"

	"clockcode-go/errcode"
	"clockcode-go/x/freq"
	"clockcode-go/x/resolve"
)

// PLLPlan is the resolved state of one PLL slot.
type PLLPlan struct {
	Enabled bool
	In      freq.Hertz
	Ref     freq.Hertz
	VCO     freq.Hertz
	Band    Band
	VCOSel  VCOSel
	Out     [5]freq.Hertz // 0 where the output is disabled
}

// Plan is a validated topology together with everything derived from it.
// The sequencer only ever applies a Plan.
type Plan struct {
	Family   Family
	Topology Topology
	Clocks   Clocks
	PLL      [3]PLLPlan
	Flash    FlashTiming
	Ceilings Ceilings
}

// Validate resolves every node of topo on fam. It never touches hardware.
func Validate(fam Family, topo Topology) (Clocks, error) {
	p, err := Resolve(fam, topo)
	if err != nil {
		return Clocks{}, err
	}
	return p.Clocks, nil
}

type bandRow struct {
	max  freq.Hertz
	band Band
}

var bands = []bandRow{
	{1_999_999, Band1to2},
	{3_999_999, Band2to4},
	{7_999_999, Band4to8},
	{16_000_000, Band8to16},
}

// RefBand classifies a PLL reference clock. ok is false above 16 MHz.
func RefBand(ref freq.Hertz) (Band, bool) {
	r, ok := resolve.Tier(ref, bands, func(b bandRow) freq.Hertz { return b.max })
	return r.band, ok
}

// SelectVCO picks the VCO range for vco. The medium range wins when both
// fit; the wide range is not available in the lowest reference band.
func SelectVCO(t Traits, band Band, vco freq.Hertz) (VCOSel, bool) {
	if MediumVCO.Contains(vco) {
		return VCOMedium, true
	}
	if band != Band1to2 && t.WideVCO.Contains(vco) {
		return VCOWide, true
	}
	return 0, false
}

var outNames = [5]string{"p", "q", "r", "s", "t"}

func pllOp(i int) string { return "pll" + strconv.Itoa(i+1) }

func fail(c errcode.Code, op, msg string) error { return errcode.New(c, op, msg) }

// Resolve validates topo and computes the full plan. Every failure is a
// fatal configuration error.
func Resolve(fam Family, topo Topology) (*Plan, error) {
	tr := fam.Traits()
	p := &Plan{Family: fam, Topology: topo}
	c := &p.Clocks

	if err := checkParams(tr, &topo); err != nil {
		return nil, err
	}
	ceil, ok := fam.Ceilings(topo.VoltageScale, topo.CPUFreqBoost)
	if !ok {
		return nil, fail(errcode.UnsupportedScale, "validate", topo.VoltageScale.String())
	}
	p.Ceilings = ceil

	// Oscillators.
	if topo.HSI != HSIOff {
		c.set(HSI, HSIFreq.Div(uint32(topo.HSI)))
	}
	if topo.HSE != nil {
		c.set(HSE, topo.HSE.Freq)
	}
	if topo.CSI {
		c.set(CSI, CSIFreq)
	}
	if topo.HSI48 {
		c.set(HSI48, HSI48Freq)
	}

	// Shared source check runs before any PLL is resolved.
	if tr.SharedPLLSource {
		var first *PLL
		for _, pl := range topo.PLL {
			if pl == nil {
				continue
			}
			if first == nil {
				first = pl
			} else if pl.Source != first.Source {
				return nil, fail(errcode.PLLSourceMismatch, "validate",
					"enabled PLLs use "+first.Source.String()+" and "+pl.Source.String())
			}
		}
	}

	for i, pl := range topo.PLL {
		if pl == nil {
			continue
		}
		pp, err := resolvePLL(tr, i, pl, c)
		if err != nil {
			return nil, err
		}
		p.PLL[i] = pp
		for o, f := range pp.Out {
			if f != 0 {
				c.set(PLLOut(i, o), f)
			}
		}
	}

	// System clock.
	var sysID ClockID
	switch topo.Sys {
	case SysHSI:
		sysID = HSI
	case SysCSI:
		sysID = CSI
	case SysHSE:
		sysID = HSE
	case SysPLL1P:
		sysID = PLL1P
	default:
		return nil, fail(errcode.InvalidSource, "sys", strconv.Itoa(int(topo.Sys)))
	}
	sys, ok := c.Get(sysID)
	if !ok {
		return nil, fail(errcode.SourceDisabled, "sys", sysID.String()+" is not enabled")
	}
	c.set(Sys, sys)

	// Core and bus clocks.
	cpu, hclk := sys, sys.Div(topo.AHBDiv.Div())
	if tr.CoreDiv {
		cpu = sys.Div(topo.CoreDiv.Div())
		hclk = cpu.Div(topo.AHBDiv.Div())
		if cpu > ceil.Core {
			return nil, fail(errcode.CeilingExceeded, "cpu", cpu.String()+" > "+ceil.Core.String())
		}
	} else {
		cpu = hclk
	}
	if hclk > ceil.HCLK {
		return nil, fail(errcode.CeilingExceeded, "hclk", hclk.String()+" > "+ceil.HCLK.String())
	}
	c.set(CPU, cpu)
	c.set(HCLK, hclk)

	for n := 1; n <= 5; n++ {
		if !tr.APB[n-1] {
			continue
		}
		div := topo.APB[n-1].Div()
		pclk := hclk.Div(div)
		if pclk > ceil.PCLK {
			return nil, fail(errcode.CeilingExceeded, "pclk"+strconv.Itoa(n),
				pclk.String()+" > "+ceil.PCLK.String())
		}
		c.set(APBClock(n), pclk)
		if n <= 2 {
			c.set(PCLK1Tim+ClockID(n-1), TimerClock(hclk, div, topo.Timer))
		}
	}

	ft, err := SelectFlashTiming(fam, hclk, topo.VoltageScale)
	if err != nil {
		return nil, err
	}
	p.Flash = ft

	if err := resolveMuxes(fam, topo.Mux, c); err != nil {
		return nil, err
	}
	return p, nil
}

// TimerClock derives an APB timer kernel clock from hclk and the APB divider.
func TimerClock(hclk freq.Hertz, apbDiv uint32, policy TimerPrescaler) freq.Hertz {
	mult := uint32(2)
	if policy == TimerX4 {
		mult = 4
	}
	if apbDiv <= mult {
		return hclk
	}
	return hclk.Div(apbDiv).Mul(mult)
}

func checkParams(tr Traits, t *Topology) error {
	const op = "validate"
	if !tr.SupportsScale(t.VoltageScale) {
		return fail(errcode.UnsupportedScale, op, t.VoltageScale.String()+" on "+tr.Name)
	}
	if t.HSI != HSIOff {
		if _, ok := EncodeHSIDiv(t.HSI); !ok {
			return fail(errcode.InvalidParams, "hsi", "divider "+strconv.Itoa(int(t.HSI)))
		}
	}
	if t.HSE != nil {
		if !HSERange.Contains(t.HSE.Freq) {
			return fail(errcode.InvalidParams, "hse", t.HSE.Freq.String()+" outside "+HSERange.String())
		}
		switch t.HSE.Mode {
		case HSECrystal, HSEBypass:
		case HSEBypassDigital:
			if !tr.HSEDigitalBypass {
				return fail(errcode.Unsupported, "hse", "digital bypass on "+tr.Name)
			}
		default:
			return fail(errcode.InvalidParams, "hse", "mode "+t.HSE.Mode.String())
		}
	}
	if _, ok := EncodeAHB(t.AHBDiv.Div()); !ok {
		return fail(errcode.InvalidParams, "ahb", "divider "+strconv.Itoa(int(t.AHBDiv)))
	}
	if _, ok := EncodeAHB(t.CoreDiv.Div()); !ok {
		return fail(errcode.InvalidParams, "core", "divider "+strconv.Itoa(int(t.CoreDiv)))
	}
	if !tr.CoreDiv && t.CoreDiv.Div() != 1 {
		return fail(errcode.Unsupported, "core", "no CPU domain divider on "+tr.Name)
	}
	for i, d := range t.APB {
		if _, ok := EncodeAPB(d.Div()); !ok {
			return fail(errcode.InvalidParams, "apb"+strconv.Itoa(i+1), "divider "+strconv.Itoa(int(d)))
		}
		if !tr.APB[i] && d.Div() != 1 {
			return fail(errcode.Unsupported, "apb"+strconv.Itoa(i+1), "no such bus on "+tr.Name)
		}
	}
	if t.Timer != TimerX2 && t.Timer != TimerX4 {
		return fail(errcode.InvalidParams, "timpre", strconv.Itoa(int(t.Timer)))
	}
	if t.CPUFreqBoost && !tr.FreqBoost {
		return fail(errcode.Unsupported, "boost", "no CPU frequency boost on "+tr.Name)
	}
	for i, pl := range t.PLL {
		if pl != nil && i >= tr.PLLs {
			return fail(errcode.Unsupported, pllOp(i), "family has "+strconv.Itoa(tr.PLLs)+" PLLs")
		}
	}
	return checkSupply(tr, t.Supply)
}

func checkSupply(tr Traits, s Supply) error {
	switch tr.Supply {
	case SupplyNone, SupplyFixedLDO:
		if s.Mode != SupplyLDO {
			return fail(errcode.Unsupported, "supply", "supply is fixed on "+tr.Name)
		}
		return nil
	}
	if s.Mode > SupplySMPSDisabledLDOBypass {
		return fail(errcode.InvalidParams, "supply", "mode "+strconv.Itoa(int(s.Mode)))
	}
	switch s.Level {
	case SMPS1V8:
	case SMPS2V5:
		if !tr.SMPS2V5 {
			return fail(errcode.Unsupported, "supply", "2.5V SMPS level on "+tr.Name)
		}
	default:
		return fail(errcode.InvalidParams, "supply", "level "+strconv.Itoa(int(s.Level)))
	}
	return nil
}

func resolvePLL(tr Traits, i int, pl *PLL, c *Clocks) (PLLPlan, error) {
	op := pllOp(i)
	var srcID ClockID
	switch pl.Source {
	case PLLSrcHSI:
		srcID = HSI
	case PLLSrcCSI:
		srcID = CSI
	case PLLSrcHSE:
		srcID = HSE
	default:
		return PLLPlan{}, fail(errcode.InvalidSource, op, "source "+strconv.Itoa(int(pl.Source)))
	}
	in, ok := c.Get(srcID)
	if !ok {
		return PLLPlan{}, fail(errcode.SourceDisabled, op, srcID.String()+" is not enabled")
	}
	if pl.PreDiv < 1 || pl.PreDiv > 63 {
		return PLLPlan{}, fail(errcode.InvalidParams, op, "prediv "+strconv.Itoa(int(pl.PreDiv)))
	}
	if pl.Mul < 4 || pl.Mul > 512 {
		return PLLPlan{}, fail(errcode.InvalidParams, op, "mul "+strconv.Itoa(int(pl.Mul)))
	}

	ref := in.Div(uint32(pl.PreDiv))
	band, ok := RefBand(ref)
	if !ok {
		return PLLPlan{}, fail(errcode.RefOutOfRange, op, "ref "+ref.String()+" above 16MHz")
	}
	vco, ok := ref.CheckedMul(uint32(pl.Mul))
	if !ok {
		return PLLPlan{}, fail(errcode.VCOOutOfRange, op, "vco overflow")
	}
	sel, ok := SelectVCO(tr, band, vco)
	if !ok {
		return PLLPlan{}, fail(errcode.VCOOutOfRange, op, "vco "+vco.String()+" in band "+band.String())
	}

	pp := PLLPlan{Enabled: true, In: in, Ref: ref, VCO: vco, Band: band, VCOSel: sel}
	for o, d := range pl.Outputs() {
		if d == 0 {
			continue
		}
		limit := PLLDiv(128)
		if o >= 3 {
			if !tr.PLLOutputsST {
				return PLLPlan{}, fail(errcode.Unsupported, op, "output "+outNames[o]+" on "+tr.Name)
			}
			limit = 8
		}
		if d > limit {
			return PLLPlan{}, fail(errcode.PLLDivInvalid, op, outNames[o]+" divider "+strconv.Itoa(int(d)))
		}
		if i == 0 && o == 0 && !pDivAllowed(tr.PDiv, d) {
			return PLLPlan{}, fail(errcode.PLLDivInvalid, op, "p divider "+strconv.Itoa(int(d))+" must be even")
		}
		pp.Out[o] = vco.Div(uint32(d))
	}
	return pp, nil
}

func pDivAllowed(r PDivRule, d PLLDiv) bool {
	if d%2 == 0 {
		return true
	}
	return r == PDivEvenOrOne && d == 1
}

// resolveMuxes validates explicit selections and resolves every kernel
// clock, reset defaults included. per_ck is resolved first since other
// muxes may select it.
func resolveMuxes(fam Family, sel []MuxSelect, c *Clocks) error {
	chosen := make(map[string]ClockID, len(sel))
	for _, s := range sel {
		m, ok := findMux(fam, s.Mux)
		if !ok {
			return fail(errcode.UnknownMux, "mux", s.Mux)
		}
		if _, ok := m.source(s.Source); !ok {
			return fail(errcode.InvalidSource, "mux", s.Mux+" cannot select "+s.Source.String())
		}
		chosen[s.Mux] = s.Source
	}
	pick := func(m *Mux) (ClockID, bool) {
		if src, ok := chosen[m.Name]; ok {
			return src, true
		}
		return m.resetSource()
	}
	if m, ok := findMux(fam, "ckper"); ok {
		if src, ok := pick(m); ok {
			if f, ok := c.Get(src); ok {
				c.set(PerCK, f)
			}
		}
	}
	for _, s := range sel {
		if _, ok := c.Get(s.Source); !ok {
			return fail(errcode.MuxSourceUnavailable, "mux", s.Mux+": "+s.Source.String()+" is not running")
		}
	}
	ms := fam.Muxes()
	for i := range ms {
		k := Kernel{Mux: ms[i].Name}
		if src, ok := pick(&ms[i]); ok {
			k.Source = src
			k.Freq, k.OK = c.Get(src)
		}
		c.kernel = append(c.kernel, k)
	}
	return nil
}
