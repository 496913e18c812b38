package rcc

import (
	"testing"

	"clockcode-go/errcode"
	"clockcode-go/x/freq"
)

func TestClockIDNames(t *testing.T) {
	for id := ClockID(0); id < NumClocks; id++ {
		got, ok := ParseClockID(id.String())
		if !ok || got != id {
			t.Fatalf("%s did not round-trip", id)
		}
	}
	if PLLOut(1, 2) != PLL2R || APBClock(4) != PCLK4 {
		t.Fatal("id arithmetic is off")
	}
	if _, ok := ParseClockID("pll4_p"); ok {
		t.Fatal("pll4_p accepted")
	}
}

func TestClocksIsAValue(t *testing.T) {
	c := mustValidate(t, H7, h7At480())
	ks := c.Kernels()
	ks[0].Freq = 1
	if k, _ := c.Kernel(ks[0].Mux); k == 1 {
		t.Fatal("Kernels leaked internal state")
	}
	n := 0
	c.Each(func(ClockID, freq.Hertz) { n++ })
	if n == 0 {
		t.Fatal("Each visited nothing")
	}
}

func TestFamilyByName(t *testing.T) {
	for _, fam := range Families() {
		got, err := FamilyByName(" " + fam.Traits().Name + " ")
		if err != nil || got != fam {
			t.Fatalf("%s: %v", fam.Traits().Name, err)
		}
	}
	if f, err := FamilyByName("STM32H5"); err != nil || f != H5 {
		t.Fatal("lookup should ignore case")
	}
	if _, err := FamilyByName("stm32f4"); errcode.Of(err) != errcode.UnknownFamily {
		t.Fatalf("err = %v", err)
	}
}

func TestEncodings(t *testing.T) {
	for _, d := range []uint32{1, 2, 4, 8, 16, 64, 128, 256, 512} {
		code, ok := EncodeAHB(d)
		if !ok || DecodeAHB(code) != d {
			t.Fatalf("ahb /%d", d)
		}
	}
	if _, ok := EncodeAHB(32); ok {
		t.Fatal("ahb /32 does not exist")
	}
	for _, d := range []uint32{1, 2, 4, 8, 16} {
		code, ok := EncodeAPB(d)
		if !ok || DecodeAPB(code) != d {
			t.Fatalf("apb /%d", d)
		}
	}
	for _, d := range []HSIDiv{HSIDiv1, HSIDiv2, HSIDiv4, HSIDiv8} {
		code, ok := EncodeHSIDiv(d)
		if !ok || DecodeHSIDiv(code) != uint32(d) {
			t.Fatalf("hsi /%d", d)
		}
	}
	if DecodeAHB(3) != 1 || DecodeAPB(2) != 1 {
		t.Fatal("low codes mean undivided")
	}
}

func TestFamilyLayoutsAreComplete(t *testing.T) {
	for _, fam := range Families() {
		tr := fam.Traits()
		l := fam.Layout()
		for _, f := range []struct {
			name string
			ok   bool
		}{
			{"HSIOn", l.HSIOn.Present()},
			{"SW", l.SW.Present()},
			{"SWS", l.SWS.Present()},
			{"AHBPre", l.AHBPre.Present()},
			{"FlashLatency", l.FlashLatency.Present()},
			{"VOS", l.VOS.Present()},
			{"CorePre", l.CorePre.Present() == tr.CoreDiv},
			{"HSEExt", l.HSEExt.Present() == tr.HSEDigitalBypass},
			{"Overdrive", l.Overdrive.Present() == tr.Overdrive},
			{"CPUFreqBoost", l.CPUFreqBoost.Present() == tr.FreqBoost},
		} {
			if !f.ok {
				t.Fatalf("%s: %s", tr.Name, f.name)
			}
		}
		for i := 0; i < 5; i++ {
			if l.APBPre[i].Present() != tr.APB[i] {
				t.Fatalf("%s: APB%d field presence", tr.Name, i+1)
			}
		}
		for i := 0; i < tr.PLLs; i++ {
			if !l.PLLN[i].Present() || !l.PLLM[i].Present() || !l.PLLOn[i].Present() {
				t.Fatalf("%s: pll%d fields", tr.Name, i+1)
			}
			if l.PLLOutDiv[i][3].Present() != tr.PLLOutputsST {
				t.Fatalf("%s: pll%d s divider presence", tr.Name, i+1)
			}
		}
		if m, ok := findMux(fam, "ckper"); !ok || fam.Muxes()[0].Name != "ckper" || !m.Field.Present() {
			t.Fatalf("%s: ckper must be the first mux", tr.Name)
		}
	}
}

func TestPollers(t *testing.T) {
	n := 0
	if err := (SpinPoller{}).Until("x", func() bool { n++; return n == 3 }); err != nil || n != 3 {
		t.Fatalf("spin: %v after %d", err, n)
	}
	err := BoundedPoller{Limit: 4}.Until("PLL1RDY", func() bool { return false })
	if !errcode.IsHardware(err) {
		t.Fatalf("bounded: %v", err)
	}
}
