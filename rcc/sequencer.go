package rcc

import (
	"strconv"

	"clockcode-go/errcode"
	"clockcode-go/x/critical"
	"clockcode-go/x/freq"
	"clockcode-go/x/logx"
	"clockcode-go/x/mmio"
)

// State is a bring-up stage. The sequencer only moves forward.
type State uint8

const (
	StateReset State = iota
	StateSafeClock
	StateOscillatorsStable
	StatePLLsConfigured
	StateSysClockSwitched
	StatePrescalersApplied
	StateMuxesConfigured
	StateReady
)

var stateNames = [...]string{
	"reset", "safe_clock", "oscillators_stable", "plls_configured",
	"sysclk_switched", "prescalers_applied", "muxes_configured", "ready",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// Options tune how a Sequencer talks to hardware. Zero values pick
// SpinPoller and critical.With.
type Options struct {
	Poller   Poller
	Critical func(func())
	OnState  func(State)
}

// Sequencer applies a validated plan to the RCC, PWR and FLASH registers.
type Sequencer struct {
	fam     Family
	lay     *Layout
	bus     mmio.Bus
	poll    Poller
	crit    func(func())
	onState func(State)
	state   State
}

func NewSequencer(fam Family, bus mmio.Bus, opts Options) *Sequencer {
	s := &Sequencer{
		fam:     fam,
		lay:     fam.Layout(),
		bus:     bus,
		poll:    opts.Poller,
		crit:    opts.Critical,
		onState: opts.OnState,
	}
	if s.poll == nil {
		s.poll = SpinPoller{}
	}
	if s.crit == nil {
		s.crit = critical.With
	}
	return s
}

// Bringup validates topo and, only if it is valid, applies it.
func Bringup(fam Family, topo Topology, bus mmio.Bus, opts Options) (Clocks, error) {
	return NewSequencer(fam, bus, opts).Run(topo)
}

func (s *Sequencer) State() State { return s.state }

// Run validates topo and applies it. No register is written when
// validation fails.
func (s *Sequencer) Run(topo Topology) (Clocks, error) {
	p, err := Resolve(s.fam, topo)
	if err != nil {
		return Clocks{}, err
	}
	return s.Apply(p)
}

// Apply drives the hardware from reset to Ready for a resolved plan.
func (s *Sequencer) Apply(p *Plan) (Clocks, error) {
	if s.state != StateReset {
		return Clocks{}, errcode.New(errcode.InvalidParams, "bringup", "sequencer already at "+s.state.String())
	}
	steps := [...]struct {
		to State
		fn func(*Plan) error
	}{
		{StateSafeClock, s.safeClock},
		{StateOscillatorsStable, s.oscillators},
		{StatePLLsConfigured, s.plls},
		{StateSysClockSwitched, s.switchSys},
		{StatePrescalersApplied, s.prescalers},
		{StateMuxesConfigured, s.muxes},
		{StateReady, s.ready},
	}
	for _, st := range steps {
		if err := st.fn(p); err != nil {
			return Clocks{}, &errcode.E{C: errcode.Of(err), Op: "bringup " + st.to.String(), Msg: err.Error(), Err: err}
		}
		s.state = st.to
		logx.Debug("rcc: state", "state", st.to)
		if s.onState != nil {
			s.onState(st.to)
		}
	}
	return p.Clocks, nil
}

func (s *Sequencer) waitFor(what string, f mmio.Field, want uint32) error {
	if !f.Present() {
		return nil
	}
	return s.poll.Until(what, func() bool { return f.Get(s.bus) == want })
}

// safeClock parks the system clock on HSI, raises every divider to at
// least its target and far enough that HSI stays within the target
// scale's ceilings, then sets supply, voltage scale and a flash latency
// that covers both HSI and the final bus clock.
func (s *Sequencer) safeClock(p *Plan) error {
	l, b := s.lay, s.bus
	l.HSIOn.Set(b, 1)
	if err := s.waitFor("HSIRDY", l.HSIRdy, 1); err != nil {
		return err
	}
	l.SW.Set(b, l.SysCode[SysHSI])
	if err := s.waitFor("SWS=HSI", l.SWS, l.SysCode[SysHSI]); err != nil {
		return err
	}
	if err := s.writeDividers(s.dividers(p, s.hsiBound(p)), true); err != nil {
		return err
	}
	if err := s.power(p); err != nil {
		return err
	}
	bound := p.Clocks.Must(HCLK)
	if bound < HSIFreq {
		bound = HSIFreq
	}
	ft, err := SelectFlashTiming(s.fam, bound, p.Topology.VoltageScale)
	if err != nil {
		ft = p.Flash
	}
	return s.raiseFlash(ft)
}

func (s *Sequencer) power(p *Plan) error {
	l, b := s.lay, s.bus
	tr := s.fam.Traits()
	switch tr.Supply {
	case SupplyFixedLDO:
		s.crit(func() {
			mmio.Modify(b,
				mmio.Update{F: l.SupplySCUEn, V: 1},
				mmio.Update{F: l.SupplyLDOEn, V: 1},
				mmio.Update{F: l.SupplyBypass, V: 0},
			)
		})
	case SupplyConfigurable:
		ups := supplyUpdates(l, p.Topology.Supply)
		s.crit(func() { mmio.Modify(b, ups...) })
	}
	// Stuck here means the board's VCAP voltage does not match the supply
	// configuration.
	if err := s.waitFor("ACTVOSRDY", l.ActVOSRdy, 1); err != nil {
		return err
	}

	vs := p.Topology.VoltageScale
	if tr.Overdrive && vs == Scale0 {
		l.VOS.Set(b, l.VOSCode[Scale1])
		if err := s.waitFor("VOSRDY", l.VOSRdy, 1); err != nil {
			return err
		}
		s.crit(func() { l.Overdrive.Set(b, 1) })
		return s.waitFor("VOSRDY", l.VOSRdy, 1)
	}
	l.VOS.Set(b, l.VOSCode[vs])
	return s.waitFor("VOSRDY", l.VOSRdy, 1)
}

func supplyUpdates(l *Layout, sp Supply) []mmio.Update {
	u := func(f mmio.Field, v bool) mmio.Update { return mmio.Update{F: f, V: mmio.B2U(v)} }
	switch sp.Mode {
	case SupplyDefault:
		return []mmio.Update{{F: l.SupplySDLevel, V: 0}, u(l.SupplySDExtHP, false),
			u(l.SupplySDEn, true), u(l.SupplyLDOEn, true), u(l.SupplyBypass, false)}
	case SupplyDirectSMPS:
		return []mmio.Update{u(l.SupplySDExtHP, false), u(l.SupplySDEn, true),
			u(l.SupplyLDOEn, false), u(l.SupplyBypass, false)}
	case SupplySMPSLDO, SupplySMPSExternalLDO, SupplySMPSExternalLDOBypass:
		ext := sp.Mode != SupplySMPSLDO
		return []mmio.Update{{F: l.SupplySDLevel, V: l.SDLevelCode[sp.Level]}, u(l.SupplySDExtHP, ext),
			u(l.SupplySDEn, true), u(l.SupplyLDOEn, sp.Mode != SupplySMPSExternalLDOBypass),
			u(l.SupplyBypass, sp.Mode == SupplySMPSExternalLDOBypass)}
	case SupplySMPSDisabledLDOBypass:
		return []mmio.Update{u(l.SupplySDEn, false), u(l.SupplyLDOEn, false), u(l.SupplyBypass, true)}
	}
	return []mmio.Update{u(l.SupplySDEn, false), u(l.SupplyLDOEn, true), u(l.SupplyBypass, false)}
}

func (s *Sequencer) oscillators(p *Plan) error {
	l, b, t := s.lay, s.bus, p.Topology
	if t.HSI != HSIOff {
		code, _ := EncodeHSIDiv(t.HSI)
		l.HSIDiv.Set(b, code)
		if err := s.waitFor("HSIRDY", l.HSIRdy, 1); err != nil {
			return err
		}
	}

	if t.HSE == nil {
		l.HSEOn.Set(b, 0)
	} else {
		// HSEBYP and HSEEXT only take writes while the oscillator is off.
		if l.HSEOn.IsSet(b) {
			l.HSEOn.Set(b, 0)
			if err := s.waitFor("HSERDY=0", l.HSERdy, 0); err != nil {
				return err
			}
		}
		mmio.Modify(b,
			mmio.Update{F: l.HSEByp, V: mmio.B2U(t.HSE.Mode != HSECrystal)},
			mmio.Update{F: l.HSEExt, V: mmio.B2U(t.HSE.Mode == HSEBypassDigital)},
		)
		l.HSEOn.Set(b, 1)
		if err := s.waitFor("HSERDY", l.HSERdy, 1); err != nil {
			return err
		}
	}

	l.HSI48On.SetBool(b, t.HSI48)
	if t.HSI48 {
		if err := s.waitFor("HSI48RDY", l.HSI48Rdy, 1); err != nil {
			return err
		}
	}
	l.CSIOn.SetBool(b, t.CSI)
	if t.CSI {
		if err := s.waitFor("CSIRDY", l.CSIRdy, 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) plls(p *Plan) error {
	l, b := s.lay, s.bus
	n := s.fam.Traits().PLLs
	// Stop every slot first: a shared PLLSRC only takes writes with all
	// PLLs off.
	for i := 0; i < n; i++ {
		l.PLLOn[i].Set(b, 0)
		if err := s.waitFor(pllOp(i)+"RDY=0", l.PLLRdy[i], 0); err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		pl := p.Topology.PLL[i]
		if pl == nil {
			// DIVM=0 powers the unused PLL down.
			l.PLLM[i].Set(b, 0)
			continue
		}
		pp := p.PLL[i]
		outs := pl.Outputs()
		ups := []mmio.Update{
			{F: l.PLLSrc[i], V: l.PLLSrcCode[pl.Source]},
			{F: l.PLLM[i], V: uint32(pl.PreDiv)},
			{F: l.PLLVCOSel[i], V: uint32(pp.VCOSel)},
			{F: l.PLLRge[i], V: uint32(pp.Band)},
			{F: l.PLLFracEn[i], V: 0},
		}
		for o, d := range outs {
			ups = append(ups, mmio.Update{F: l.PLLOutEn[i][o], V: mmio.B2U(d != 0)})
		}
		ups = append(ups, mmio.Update{F: l.PLLN[i], V: uint32(pl.Mul) - 1})
		for o, d := range outs {
			// Disabled taps keep a legal divider of 2.
			if d == 0 {
				d = 2
			}
			ups = append(ups, mmio.Update{F: l.PLLOutDiv[i][o], V: encodeMinusOne(uint32(d))})
		}
		mmio.Modify(b, ups...)

		l.PLLOn[i].Set(b, 1)
		if err := s.waitFor(pllOp(i)+"RDY", l.PLLRdy[i], 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) switchSys(p *Plan) error {
	l, b, t := s.lay, s.bus, p.Topology
	if t.CPUFreqBoost && l.CPUFreqBoost.Present() && !l.CPUFreqBoost.IsSet(b) {
		return errcode.New(errcode.CeilingExceeded, "cpu", "CPU_FREQ_BOOST option bit is not set")
	}
	if err := CheckCeilings(p.Clocks, p.Ceilings, s.fam.Traits()); err != nil {
		return err
	}
	if err := s.raiseFlash(p.Flash); err != nil {
		return err
	}
	if err := s.writeDividers(s.dividers(p, 0), true); err != nil {
		return err
	}
	l.TimPre.Set(b, mmio.B2U(t.Timer == TimerX4))
	code := l.SysCode[t.Sys]
	l.SW.Set(b, code)
	return s.waitFor("SWS="+t.Sys.String(), l.SWS, code)
}

func (s *Sequencer) prescalers(p *Plan) error {
	if err := s.writeDividers(s.dividers(p, 0), false); err != nil {
		return err
	}
	return s.setFlash(p.Flash)
}

func (s *Sequencer) muxes(p *Plan) error {
	for _, sel := range p.Topology.Mux {
		m, ok := findMux(s.fam, sel.Mux)
		if !ok {
			return errcode.New(errcode.UnknownMux, "mux", sel.Mux)
		}
		src, ok := m.source(sel.Source)
		if !ok {
			return errcode.New(errcode.InvalidSource, "mux", sel.Mux)
		}
		m.Field.Set(s.bus, src.Code)
	}
	return nil
}

func (s *Sequencer) ready(p *Plan) error {
	if p.Topology.HSI == HSIOff && p.Topology.Sys != SysHSI {
		s.lay.HSIOn.Set(s.bus, 0)
	}
	return nil
}

type divider struct {
	name    string
	f       mmio.Field
	div     uint32
	code    uint32
	latched bool
	decode  func(uint32) uint32
}

// dividers lists the core, AHB and APB dividers at their targets. A
// non-zero sys raises each one until sys taken down the chain stays
// within the plan's ceilings.
func (s *Sequencer) dividers(p *Plan, sys freq.Hertz) []divider {
	l, t, c := s.lay, p.Topology, p.Ceilings
	f := sys
	var ds []divider
	if s.fam.Traits().CoreDiv {
		d := fitDiv(f, t.CoreDiv.Div(), c.Core, EncodeAHB)
		code, _ := EncodeAHB(d)
		ds = append(ds, divider{"CPRE", l.CorePre, d, code, true, DecodeAHB})
		f = f.Div(d)
	}
	d := fitDiv(f, t.AHBDiv.Div(), c.HCLK, EncodeAHB)
	code, _ := EncodeAHB(d)
	ds = append(ds, divider{"HPRE", l.AHBPre, d, code, true, DecodeAHB})
	f = f.Div(d)
	for i, fld := range l.APBPre {
		if !fld.Present() {
			continue
		}
		d := fitDiv(f, t.APB[i].Div(), c.PCLK, EncodeAPB)
		code, _ := EncodeAPB(d)
		ds = append(ds, divider{"PPRE" + strconv.Itoa(i+1), fld, d, code, false, DecodeAPB})
	}
	return ds
}

// fitDiv returns the smallest encodable divider, no lower than div, that
// brings f to limit or below. The largest encodable one is returned when
// none does.
func fitDiv(f freq.Hertz, div uint32, limit freq.Hertz, enc func(uint32) (uint32, bool)) uint32 {
	if f == 0 {
		return div
	}
	best := div
	for d := div; d <= 512; d *= 2 {
		if _, ok := enc(d); !ok {
			continue
		}
		best = d
		if f.Div(d) <= limit {
			break
		}
	}
	return best
}

// hsiBound is the fastest HSI runs before the switch: at its current
// divider, or at the target one when that is smaller.
func (s *Sequencer) hsiBound(p *Plan) freq.Hertz {
	div := DecodeHSIDiv(s.lay.HSIDiv.Get(s.bus))
	if t := uint32(p.Topology.HSI); t != 0 && t < div {
		div = t
	}
	return HSIFreq.Div(div)
}

// writeDividers moves every divider in ds to its value. With raiseOnly set
// it only touches dividers whose value is larger than the current one, so
// no derived clock can go up.
func (s *Sequencer) writeDividers(ds []divider, raiseOnly bool) error {
	for _, d := range ds {
		cur := d.decode(d.f.Get(s.bus))
		if cur == d.div || (raiseOnly && d.div < cur) {
			continue
		}
		d.f.Set(s.bus, d.code)
		if d.latched {
			if err := s.waitFor(d.name, d.f, d.code); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sequencer) raiseFlash(ft FlashTiming) error {
	if uint32(ft.Latency) <= s.lay.FlashLatency.Get(s.bus) {
		return nil
	}
	return s.setFlash(ft)
}

func (s *Sequencer) setFlash(ft FlashTiming) error {
	l := s.lay
	if l.FlashLatency.Get(s.bus) == uint32(ft.Latency) && l.FlashWrHighFreq.Get(s.bus) == uint32(ft.WrHighFreq) {
		return nil
	}
	logx.Debug("rcc: flash", "latency", ft.Latency, "wrhighfreq", ft.WrHighFreq)
	mmio.Modify(s.bus,
		mmio.Update{F: l.FlashWrHighFreq, V: uint32(ft.WrHighFreq)},
		mmio.Update{F: l.FlashLatency, V: uint32(ft.Latency)},
	)
	return s.waitFor("LATENCY", l.FlashLatency, uint32(ft.Latency))
}

// CheckCeilings verifies a resolved tree against one scale's ceilings.
func CheckCeilings(c Clocks, ceil Ceilings, tr Traits) error {
	check := func(id ClockID, limit freq.Hertz) error {
		if f, ok := c.Get(id); ok && f > limit {
			return errcode.New(errcode.CeilingExceeded, id.String(), f.String()+" > "+limit.String())
		}
		return nil
	}
	if tr.CoreDiv {
		if err := check(CPU, ceil.Core); err != nil {
			return err
		}
	}
	if err := check(HCLK, ceil.HCLK); err != nil {
		return err
	}
	for n := 1; n <= 5; n++ {
		if err := check(APBClock(n), ceil.PCLK); err != nil {
			return err
		}
	}
	return nil
}
