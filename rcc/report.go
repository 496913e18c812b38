package rcc

import (
	"clockcode-go/types"
	"clockcode-go/x/freq"
)

func reportFreq(f freq.Hertz) types.Freq { return types.Freq{Hz: uint64(f), Text: f.String()} }

// Report renders a plan for humans and tools.
func Report(p *Plan) types.ClockReport {
	tr := p.Family.Traits()
	r := types.ClockReport{
		Family: tr.Name,
		Scale:  p.Topology.VoltageScale.String(),
		Flash:  types.FlashReport{Latency: p.Flash.Latency, WrHighFreq: p.Flash.WrHighFreq},
		Ceilings: types.CeilingReport{
			HCLK: reportFreq(p.Ceilings.HCLK),
			PCLK: reportFreq(p.Ceilings.PCLK),
		},
	}
	if tr.CoreDiv {
		c := reportFreq(p.Ceilings.Core)
		r.Ceilings.Core = &c
	}
	p.Clocks.Each(func(id ClockID, f freq.Hertz) {
		r.Clocks = append(r.Clocks, types.ClockValue{Name: id.String(), Freq: reportFreq(f)})
	})
	for _, k := range p.Clocks.Kernels() {
		kv := types.KernelValue{Mux: k.Mux}
		if k.OK {
			f := reportFreq(k.Freq)
			kv.Source, kv.Freq = k.Source.String(), &f
		}
		r.Kernels = append(r.Kernels, kv)
	}
	for i, pp := range p.PLL {
		if !pp.Enabled {
			continue
		}
		pl := p.Topology.PLL[i]
		pr := types.PLLReport{
			PLL:      i + 1,
			Source:   pl.Source.String(),
			PreDiv:   pl.PreDiv,
			Mul:      pl.Mul,
			Ref:      reportFreq(pp.Ref),
			Band:     pp.Band.String(),
			VCO:      reportFreq(pp.VCO),
			VCORange: pp.VCOSel.String(),
			Outputs:  map[string]types.Freq{},
		}
		for o, f := range pp.Out {
			if f != 0 {
				pr.Outputs[outNames[o]] = reportFreq(f)
			}
		}
		r.PLLs = append(r.PLLs, pr)
	}
	return r
}
