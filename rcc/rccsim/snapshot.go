package rccsim

import (
	"errors"
	"strconv"

	"clockcode-go/rcc"
	"clockcode-go/x/freq"
)

// Snapshot is the clock state implied by the current register contents.
type Snapshot struct {
	Sys     freq.Hertz
	CPU     freq.Hertz
	HCLK    freq.Hertz
	PCLK    [5]freq.Hertz
	Latency uint32
	Scale   rcc.VoltageScale
}

// Snapshot decodes the running system clock and bus clocks.
func (s *Sim) Snapshot() Snapshot {
	l := s.lay
	tr := s.fam.Traits()
	var sn Snapshot

	switch sws := l.SWS.Get(s.mem); sws {
	case l.SysCode[rcc.SysHSI]:
		sn.Sys = rcc.HSIFreq.Div(rcc.DecodeHSIDiv(l.HSIDiv.Get(s.mem)))
	case l.SysCode[rcc.SysCSI]:
		sn.Sys = rcc.CSIFreq
	case l.SysCode[rcc.SysHSE]:
		sn.Sys = s.HSE
	case l.SysCode[rcc.SysPLL1P]:
		sn.Sys = s.pllP()
	}

	sn.CPU = sn.Sys
	if tr.CoreDiv {
		sn.CPU = sn.Sys.Div(rcc.DecodeAHB(l.CorePre.Get(s.mem)))
	}
	sn.HCLK = sn.CPU.Div(rcc.DecodeAHB(l.AHBPre.Get(s.mem)))
	if !tr.CoreDiv {
		sn.CPU = sn.HCLK
	}
	for i, f := range l.APBPre {
		if f.Present() {
			sn.PCLK[i] = sn.HCLK.Div(rcc.DecodeAPB(f.Get(s.mem)))
		}
	}
	sn.Latency = l.FlashLatency.Get(s.mem)
	sn.Scale = s.scale()
	return sn
}

func (s *Sim) pllP() freq.Hertz {
	l := s.lay
	if l.PLLRdy[0].Get(s.mem) == 0 {
		return 0
	}
	var in freq.Hertz
	switch l.PLLSrc[0].Get(s.mem) {
	case l.PLLSrcCode[rcc.PLLSrcHSI]:
		in = rcc.HSIFreq.Div(rcc.DecodeHSIDiv(l.HSIDiv.Get(s.mem)))
	case l.PLLSrcCode[rcc.PLLSrcCSI]:
		in = rcc.CSIFreq
	case l.PLLSrcCode[rcc.PLLSrcHSE]:
		in = s.HSE
	}
	m := l.PLLM[0].Get(s.mem)
	n := l.PLLN[0].Get(s.mem) + 1
	p := l.PLLOutDiv[0][0].Get(s.mem) + 1
	return in.Div(m).Mul(n).Div(p)
}

func (s *Sim) scale() rcc.VoltageScale {
	l := s.lay
	tr := s.fam.Traits()
	code := l.VOS.Get(s.mem)
	sc := tr.Scales[len(tr.Scales)-1]
	for i := len(tr.Scales) - 1; i >= 0; i-- {
		if l.VOSCode[tr.Scales[i]] == code {
			sc = tr.Scales[i]
			break
		}
	}
	if tr.Overdrive && sc == rcc.Scale1 && l.Overdrive.Get(s.mem) == 1 {
		sc = rcc.Scale0
	}
	return sc
}

// ErrFlashTooSlow reports a bus clock above what the programmed latency covers.
var ErrFlashTooSlow = errors.New("rccsim: flash latency too low for hclk")

// Check verifies the current state against the ceilings and flash table of
// the current voltage scale.
func (s *Sim) Check() error {
	sn := s.Snapshot()
	c, ok := s.fam.Ceilings(sn.Scale, s.lay.CPUFreqBoost.Get(s.mem) == 1)
	if !ok {
		return nil
	}
	if s.fam.Traits().CoreDiv && sn.CPU > c.Core {
		return errors.New("rccsim: cpu " + sn.CPU.String() + " above " + c.Core.String())
	}
	if sn.HCLK > c.HCLK {
		return errors.New("rccsim: hclk " + sn.HCLK.String() + " above " + c.HCLK.String())
	}
	for i, p := range sn.PCLK {
		if p > c.PCLK {
			return errors.New("rccsim: pclk" + strconv.Itoa(i+1) + " " + p.String() + " above " + c.PCLK.String())
		}
	}
	need, err := rcc.SelectFlashTiming(s.fam, sn.HCLK, sn.Scale)
	if err != nil {
		return err
	}
	if sn.Latency < uint32(need.Latency) {
		return ErrFlashTooSlow
	}
	return nil
}
