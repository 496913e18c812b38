package rcc

import (
	"testing"

	"clockcode-go/errcode"
	"clockcode-go/x/freq"
)

func mustValidate(t *testing.T, fam Family, topo Topology) Clocks {
	t.Helper()
	c, err := Validate(fam, topo)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return c
}

func expectCode(t *testing.T, err error, want errcode.Code) {
	t.Helper()
	if got := errcode.Of(err); got != want {
		t.Fatalf("error = %v (%s), want %s", err, got, want)
	}
	if !errcode.IsFatalConfig(err) {
		t.Fatalf("%v should be a fatal configuration error", err)
	}
}

func TestValidateH7At480(t *testing.T) {
	c := mustValidate(t, H7, h7At480())
	want := map[ClockID]freq.Hertz{
		Sys:      mhz(480),
		CPU:      mhz(480),
		HCLK:     mhz(240),
		PCLK1:    mhz(120),
		PCLK2:    mhz(120),
		PCLK3:    mhz(120),
		PCLK4:    mhz(120),
		PCLK1Tim: mhz(240),
		PCLK2Tim: mhz(240),
		HSE:      mhz(25),
		HSI:      mhz(64),
		HSI48:    mhz(48),
		PLL1P:    mhz(480),
		PLL1Q:    mhz(120),
		PerCK:    mhz(64),
	}
	for id, f := range want {
		got, ok := c.Get(id)
		if !ok || got != f {
			t.Fatalf("%s = %v,%v want %v", id, got, ok, f)
		}
	}
	for _, id := range []ClockID{PCLK5, CSI, PLL1R, PLL2P, PLL3Q} {
		if f, ok := c.Get(id); ok {
			t.Fatalf("%s should be absent, got %v", id, f)
		}
	}

	p, err := Resolve(H7, h7At480())
	if err != nil {
		t.Fatal(err)
	}
	if p.PLL[0].Band != Band4to8 || p.PLL[0].VCOSel != VCOWide || p.PLL[0].VCO != mhz(960) {
		t.Fatalf("pll1 plan = %+v", p.PLL[0])
	}
	if p.Flash != (FlashTiming{Latency: 4, WrHighFreq: 2}) {
		t.Fatalf("flash = %+v", p.Flash)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	for _, fam := range Families() {
		topo := DefaultTopology(fam)
		a := mustValidate(t, fam, topo)
		b := mustValidate(t, fam, topo)
		if !a.Equal(b) {
			t.Fatalf("%s: two validations differ", fam.Traits().Name)
		}
	}
	a := mustValidate(t, H7, h7At480())
	if !a.Equal(mustValidate(t, H7, h7At480())) {
		t.Fatal("h7 480 differs between runs")
	}
}

func TestDefaultTopologyFitsLowestPower(t *testing.T) {
	wantScale := map[string]VoltageScale{
		"stm32h7":   Scale2,
		"stm32h72x": Scale2,
		"stm32h7ab": Scale2,
		"stm32h5":   Scale3,
		"stm32h7rs": Scale1,
	}
	for _, fam := range Families() {
		tr := fam.Traits()
		topo := DefaultTopology(fam)
		if topo.VoltageScale != wantScale[tr.Name] {
			t.Fatalf("%s: default scale %s, want %s", tr.Name, topo.VoltageScale, wantScale[tr.Name])
		}
		c := mustValidate(t, fam, topo)
		if c.Must(CPU) != HSIFreq || c.Must(Sys) != HSIFreq {
			t.Fatalf("%s: cpu %v", tr.Name, c.Must(CPU))
		}
		// The HSI core clock fits even the lowest-power scale.
		lowest, _ := fam.Ceilings(tr.Scales[len(tr.Scales)-1], false)
		limit := lowest.HCLK
		if tr.CoreDiv {
			limit = lowest.Core
		}
		if c.Must(CPU) > limit {
			t.Fatalf("%s: HSI core clock above lowest-scale ceiling %v", tr.Name, limit)
		}
		if _, ok := c.Get(HSI48); !ok {
			t.Fatalf("%s: HSI48 should be on by default", tr.Name)
		}
	}
}

func TestVCOWideRangePerFamily(t *testing.T) {
	topo := Topology{
		HSI:          HSIDiv1,
		HSE:          &HSEConfig{Freq: 25 * freq.MHz},
		PLL:          [3]*PLL{{Source: PLLSrcHSE, PreDiv: 5, Mul: 160, Q: 4}},
		Sys:          SysHSI,
		VoltageScale: Scale0,
	}
	p, err := Resolve(H7, topo)
	if err != nil {
		t.Fatal(err)
	}
	if p.PLL[0].Ref != mhz(5) || p.PLL[0].Band != Band4to8 || p.PLL[0].VCO != mhz(800) || p.PLL[0].VCOSel != VCOWide {
		t.Fatalf("h7 pll1 = %+v", p.PLL[0])
	}
	_, err = Validate(H7AB, topo)
	expectCode(t, err, errcode.VCOOutOfRange)
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]struct {
		fam  Family
		edit func(*Topology)
		want errcode.Code
	}{
		"mixed pll sources": {H7, func(t *Topology) {
			t.PLL[1] = &PLL{Source: PLLSrcHSI, PreDiv: 32, Mul: 200, Q: 4}
		}, errcode.PLLSourceMismatch},
		"ref above 16MHz": {H7, func(t *Topology) { t.PLL[0].PreDiv = 1 }, errcode.RefOutOfRange},
		"wide vco in lowest band": {H7, func(t *Topology) {
			t.PLL[0] = &PLL{Source: PLLSrcHSI, PreDiv: 40, Mul: 300, P: 2}
		}, errcode.VCOOutOfRange},
		"odd p divider":            {H7, func(t *Topology) { t.PLL[0].P = 3 }, errcode.PLLDivInvalid},
		"p divider of one":         {H7, func(t *Topology) { t.PLL[0].P = 1 }, errcode.PLLDivInvalid},
		"sys from disabled output": {H7, func(t *Topology) { t.PLL[0].P = 0 }, errcode.SourceDisabled},
		"sys from disabled hse": {H7, func(t *Topology) {
			t.PLL[0] = nil
			t.HSE = nil
			t.Sys = SysHSE
		}, errcode.SourceDisabled},
		"pll from disabled csi": {H7, func(t *Topology) {
			t.PLL[0].Source = PLLSrcCSI
		}, errcode.SourceDisabled},
		"core ceiling at scale1": {H7, func(t *Topology) { t.VoltageScale = Scale1 }, errcode.CeilingExceeded},
		"hclk ceiling":           {H7, func(t *Topology) { t.AHBDiv = 1 }, errcode.CeilingExceeded},
		"pclk ceiling":           {H7, func(t *Topology) { t.APB[3] = 1 }, errcode.CeilingExceeded},
		"bad ahb divider":        {H7, func(t *Topology) { t.AHBDiv = 3 }, errcode.InvalidParams},
		"bad apb divider":        {H7, func(t *Topology) { t.APB[0] = 32 }, errcode.InvalidParams},
		"apb5 on h7":             {H7, func(t *Topology) { t.APB[4] = 2 }, errcode.Unsupported},
		"bad prediv":             {H7, func(t *Topology) { t.PLL[0].PreDiv = 64 }, errcode.InvalidParams},
		"bad mul":                {H7, func(t *Topology) { t.PLL[0].Mul = 3 }, errcode.InvalidParams},
		"s output on h7":         {H7, func(t *Topology) { t.PLL[0].S = 2 }, errcode.Unsupported},
		"digital bypass on h7":   {H7, func(t *Topology) { t.HSE.Mode = HSEBypassDigital }, errcode.Unsupported},
		"hse too fast":           {H7, func(t *Topology) { t.HSE.Freq = 60 * freq.MHz }, errcode.InvalidParams},
		"smps on fixed ldo":      {H7, func(t *Topology) { t.Supply.Mode = SupplyDirectSMPS }, errcode.Unsupported},
		"boost on h7":            {H7, func(t *Topology) { t.CPUFreqBoost = true }, errcode.Unsupported},
		"unknown mux": {H7, func(t *Topology) {
			t.Mux = []MuxSelect{{Mux: "nope", Source: HSI}}
		}, errcode.UnknownMux},
		"mux cannot reach source": {H7, func(t *Topology) {
			t.Mux = []MuxSelect{{Mux: "usart16", Source: HSI48}}
		}, errcode.InvalidSource},
		"mux source not running": {H7, func(t *Topology) {
			t.Mux = []MuxSelect{{Mux: "usb", Source: PLL3Q}}
		}, errcode.MuxSourceUnavailable},
		"scale not on h7rs": {H7RS, func(t *Topology) {
			*t = DefaultTopology(H7RS)
			t.VoltageScale = Scale2
		}, errcode.UnsupportedScale},
		"core divider on h5": {H5, func(t *Topology) {
			*t = h5At250()
			t.CoreDiv = 2
		}, errcode.Unsupported},
	}
	for name, c := range cases {
		topo := h7At480()
		c.edit(&topo)
		_, err := Validate(c.fam, topo)
		if errcode.Of(err) != c.want {
			t.Fatalf("%s: err = %v, want %s", name, err, c.want)
		}
		if !errcode.IsFatalConfig(err) {
			t.Fatalf("%s: not a configuration error", name)
		}
	}
}

func TestPerPLLSourceOnH5(t *testing.T) {
	c := mustValidate(t, H5, h5At250())
	if c.Must(Sys) != mhz(250) || c.Must(HCLK) != mhz(250) || c.Must(PCLK3) != mhz(250) {
		t.Fatalf("sys %v hclk %v pclk3 %v", c.Must(Sys), c.Must(HCLK), c.Must(PCLK3))
	}
	if c.Must(PLL2Q) != mhz(100) {
		t.Fatalf("pll2_q = %v", c.Must(PLL2Q))
	}
	if c.Must(CPU) != c.Must(HCLK) {
		t.Fatal("h5 cpu must equal hclk")
	}
	if _, ok := c.Get(PCLK4); ok {
		t.Fatal("h5 has no APB4")
	}
}

func TestPDividerRules(t *testing.T) {
	c := mustValidate(t, H72x, h72xBoost())
	if c.Must(CPU) != mhz(550) || c.Must(HCLK) != mhz(275) || c.Must(PCLK1) != khz(137_500) {
		t.Fatalf("cpu %v hclk %v pclk1 %v", c.Must(CPU), c.Must(HCLK), c.Must(PCLK1))
	}
	topo := h72xBoost()
	topo.PLL[0].P = 3
	_, err := Validate(H72x, topo)
	expectCode(t, err, errcode.PLLDivInvalid)
}

func TestCPUFreqBoostCeiling(t *testing.T) {
	topo := h72xBoost()
	topo.CPUFreqBoost = false
	_, err := Validate(H72x, topo)
	expectCode(t, err, errcode.CeilingExceeded)
}

func TestSTOutputsOnH7RS(t *testing.T) {
	topo := DefaultTopology(H7RS)
	topo.PLL[1] = &PLL{Source: PLLSrcHSI, PreDiv: 4, Mul: 50, S: 4, T: 8}
	c := mustValidate(t, H7RS, topo)
	if c.Must(PLL2S) != mhz(200) || c.Must(PLL2T) != mhz(100) {
		t.Fatalf("s %v t %v", c.Must(PLL2S), c.Must(PLL2T))
	}
	topo.PLL[1].S = 9
	_, err := Validate(H7RS, topo)
	expectCode(t, err, errcode.PLLDivInvalid)
}

func TestTimerClock(t *testing.T) {
	hclk := mhz(200)
	cases := []struct {
		div    uint32
		policy TimerPrescaler
		want   freq.Hertz
	}{
		{1, TimerX2, mhz(200)},
		{2, TimerX2, mhz(200)},
		{4, TimerX2, mhz(100)},
		{8, TimerX2, mhz(50)},
		{16, TimerX2, mhz(25)},
		{4, TimerX4, mhz(200)},
		{8, TimerX4, mhz(100)},
		{16, TimerX4, mhz(50)},
	}
	for _, c := range cases {
		if got := TimerClock(hclk, c.div, c.policy); got != c.want {
			t.Fatalf("TimerClock(/%d, %d) = %v, want %v", c.div, c.policy, got, c.want)
		}
	}
	topo := h7At480()
	topo.APB[0] = 4
	topo.Timer = TimerX4
	c := mustValidate(t, H7, topo)
	if c.Must(PCLK1) != mhz(60) || c.Must(PCLK1Tim) != mhz(240) {
		t.Fatalf("pclk1 %v tim %v", c.Must(PCLK1), c.Must(PCLK1Tim))
	}
}

func TestRefBandAndVCOSelection(t *testing.T) {
	bands := map[freq.Hertz]Band{
		1_000_000:  Band1to2,
		1_999_999:  Band1to2,
		2_000_000:  Band2to4,
		3_999_999:  Band2to4,
		4_000_000:  Band4to8,
		7_999_999:  Band4to8,
		8_000_000:  Band8to16,
		16_000_000: Band8to16,
	}
	for f, want := range bands {
		got, ok := RefBand(f)
		if !ok || got != want {
			t.Fatalf("RefBand(%d) = %v,%v want %v", f, got, ok, want)
		}
	}
	if _, ok := RefBand(16_000_001); ok {
		t.Fatal("16 MHz + 1 accepted")
	}

	tr := H7.Traits()
	if sel, ok := SelectVCO(tr, Band1to2, mhz(420)); !ok || sel != VCOMedium {
		t.Fatal("420 MHz should be medium")
	}
	if _, ok := SelectVCO(tr, Band1to2, mhz(421)); ok {
		t.Fatal("wide range must be refused in the lowest band")
	}
	if sel, ok := SelectVCO(tr, Band2to4, mhz(421)); !ok || sel != VCOWide {
		t.Fatal("421 MHz should be wide")
	}
	if sel, _ := SelectVCO(tr, Band8to16, mhz(200)); sel != VCOMedium {
		t.Fatal("medium must win when both ranges fit")
	}
	if sel, ok := SelectVCO(H7AB.Traits(), Band2to4, mhz(140)); !ok || sel != VCOWide {
		t.Fatal("h7ab wide range starts at 128 MHz")
	}
}

func TestKernelMuxes(t *testing.T) {
	topo := h7At480()
	topo.PLL[0].R = 4
	topo.Mux = []MuxSelect{
		{Mux: "usb", Source: HSI48},
		{Mux: "spi123", Source: PerCK},
		{Mux: "ckper", Source: HSE},
	}
	c := mustValidate(t, H7, topo)
	for mux, want := range map[string]freq.Hertz{
		"usb":         mhz(48),
		"spi123":      mhz(25),
		"ckper":       mhz(25),
		"usart16":     mhz(120),
		"usart234578": mhz(120),
		"sdmmc":       mhz(120),
	} {
		got, ok := c.Kernel(mux)
		if !ok || got != want {
			t.Fatalf("kernel %s = %v,%v want %v", mux, got, ok, want)
		}
	}
	if c.Must(PerCK) != mhz(25) {
		t.Fatalf("per_ck = %v", c.Must(PerCK))
	}
	// adc resets to pll2_p, which is off.
	if _, ok := c.Kernel("adc"); ok {
		t.Fatal("adc kernel should be absent")
	}
}
