package config

import (
	"sort"
	"strconv"

	"clockcode-go/errcode"
	"clockcode-go/rcc"
	"clockcode-go/x/freq"
)

var (
	hseModes = map[string]rcc.HSEMode{
		"": rcc.HSECrystal, "crystal": rcc.HSECrystal,
		"bypass": rcc.HSEBypass, "bypass_digital": rcc.HSEBypassDigital,
	}
	pllSources = map[string]rcc.PLLSource{
		"hsi": rcc.PLLSrcHSI, "csi": rcc.PLLSrcCSI, "hse": rcc.PLLSrcHSE,
	}
	sysSources = map[string]rcc.SysSource{
		"hsi": rcc.SysHSI, "csi": rcc.SysCSI, "hse": rcc.SysHSE, "pll1_p": rcc.SysPLL1P,
	}
	timers = map[string]rcc.TimerPrescaler{
		"": rcc.TimerX2, "x2": rcc.TimerX2, "x4": rcc.TimerX4,
	}
	scales = map[string]rcc.VoltageScale{
		"scale0": rcc.Scale0, "scale1": rcc.Scale1, "scale2": rcc.Scale2, "scale3": rcc.Scale3,
		"high": rcc.Scale0, "low": rcc.Scale1,
	}
	supplyModes = map[string]rcc.SupplyMode{
		"": rcc.SupplyLDO, "ldo": rcc.SupplyLDO, "default": rcc.SupplyDefault,
		"direct_smps":              rcc.SupplyDirectSMPS,
		"smps_ldo":                 rcc.SupplySMPSLDO,
		"smps_ext_ldo":             rcc.SupplySMPSExternalLDO,
		"smps_ext_ldo_bypass":      rcc.SupplySMPSExternalLDOBypass,
		"smps_disabled_ldo_bypass": rcc.SupplySMPSDisabledLDOBypass,
	}
	smpsLevels = map[string]rcc.SMPSLevel{
		"": rcc.SMPS1V8, "1v8": rcc.SMPS1V8, "2v5": rcc.SMPS2V5,
	}
)

func pick[T any](what, s string, table map[string]T) (T, error) {
	v, ok := table[s]
	if !ok {
		return v, errcode.New(errcode.InvalidConfig, op, what+" "+strconv.Quote(s))
	}
	return v, nil
}

// Topology converts the board to its family and clock tree. Only names are
// checked here; electrical validation is rcc.Validate's job.
func (b *Board) Topology() (rcc.Family, rcc.Topology, error) {
	fam, err := rcc.FamilyByName(b.Family)
	if err != nil {
		return nil, rcc.Topology{}, err
	}
	t := rcc.Topology{
		HSI:          rcc.HSIDiv1,
		CSI:          b.CSI,
		HSI48:        b.HSI48,
		CoreDiv:      rcc.AHBPrescaler(b.CoreDiv),
		AHBDiv:       rcc.AHBPrescaler(b.AHBDiv),
		CPUFreqBoost: b.Boost,
	}
	if b.HSI != nil {
		t.HSI = rcc.HSIDiv(*b.HSI)
	}
	if b.HSE != nil {
		mode, err := pick("hse mode", b.HSE.Mode, hseModes)
		if err != nil {
			return nil, t, err
		}
		t.HSE = &rcc.HSEConfig{Freq: freq.Hertz(b.HSE.Freq), Mode: mode}
	}
	for i, p := range []*PLL{b.PLL1, b.PLL2, b.PLL3} {
		if p == nil {
			continue
		}
		src, err := pick("pll"+strconv.Itoa(i+1)+" source", p.Source, pllSources)
		if err != nil {
			return nil, t, err
		}
		t.PLL[i] = &rcc.PLL{
			Source: src, PreDiv: p.PreDiv, Mul: p.Mul,
			P: rcc.PLLDiv(p.P), Q: rcc.PLLDiv(p.Q), R: rcc.PLLDiv(p.R),
			S: rcc.PLLDiv(p.S), T: rcc.PLLDiv(p.T),
		}
	}
	if t.Sys, err = pick("sys", b.Sys, sysSources); err != nil {
		return nil, t, err
	}
	if len(b.APB) > len(t.APB) {
		return nil, t, errcode.New(errcode.InvalidConfig, op, "at most 5 apb dividers")
	}
	for i, d := range b.APB {
		t.APB[i] = rcc.APBPrescaler(d)
	}
	if t.Timer, err = pick("timer", b.Timer, timers); err != nil {
		return nil, t, err
	}
	if t.VoltageScale, err = pick("scale", b.Scale, scales); err != nil {
		return nil, t, err
	}
	if b.Supply != nil {
		if t.Supply.Mode, err = pick("supply mode", b.Supply.Mode, supplyModes); err != nil {
			return nil, t, err
		}
		if t.Supply.Level, err = pick("smps level", b.Supply.Level, smpsLevels); err != nil {
			return nil, t, err
		}
	}

	muxes := make([]string, 0, len(b.Mux))
	for m := range b.Mux {
		muxes = append(muxes, m)
	}
	sort.Strings(muxes)
	for _, m := range muxes {
		id, ok := rcc.ParseClockID(b.Mux[m])
		if !ok {
			return nil, t, errcode.New(errcode.InvalidConfig, op, "mux "+m+": unknown clock "+strconv.Quote(b.Mux[m]))
		}
		t.Mux = append(t.Mux, rcc.MuxSelect{Mux: m, Source: id})
	}
	return fam, t, nil
}
