package rcc

import (
	"testing"

	"clockcode-go/errcode"
	"clockcode-go/x/freq"
)

func TestSelectFlashTiming(t *testing.T) {
	cases := []struct {
		fam  Family
		hclk freq.Hertz
		vs   VoltageScale
		want FlashTiming
	}{
		{H7, mhz(64), Scale2, FlashTiming{1, 1}},
		{H7, mhz(70), Scale0, FlashTiming{0, 0}},
		{H7, mhz(70) + 1, Scale0, FlashTiming{1, 1}},
		{H7, mhz(240), Scale0, FlashTiming{4, 2}},
		{H7, mhz(224), Scale3, FlashTiming{4, 2}},
		{H72x, mhz(275), Scale0, FlashTiming{3, 3}},
		{H7AB, mhz(100), Scale2, FlashTiming{2, 1}},
		{H5, mhz(250), Scale0, FlashTiming{5, 2}},
		{H5, mhz(64), Scale3, FlashTiming{3, 1}},
		{H7RS, mhz(300), Scale0, FlashTiming{7, 3}},
	}
	for _, c := range cases {
		got, err := SelectFlashTiming(c.fam, c.hclk, c.vs)
		if err != nil {
			t.Fatalf("%s %v %s: %v", c.fam.Traits().Name, c.hclk, c.vs, err)
		}
		if got != c.want {
			t.Fatalf("%s %v %s: got %+v want %+v", c.fam.Traits().Name, c.hclk, c.vs, got, c.want)
		}
	}
}

func TestSelectFlashTimingErrors(t *testing.T) {
	_, err := SelectFlashTiming(H7, mhz(225)+1, Scale1)
	if errcode.Of(err) != errcode.FlashTierExceeded {
		t.Fatalf("err = %v", err)
	}
	_, err = SelectFlashTiming(H7RS, mhz(64), Scale3)
	if errcode.Of(err) != errcode.UnsupportedScale {
		t.Fatalf("err = %v", err)
	}
}

func TestFlashLatencyIsMonotonic(t *testing.T) {
	for _, fam := range Families() {
		for _, vs := range fam.Traits().Scales {
			tiers := fam.FlashTiers(vs)
			for i := 1; i < len(tiers); i++ {
				if tiers[i].Max <= tiers[i-1].Max || tiers[i].Latency < tiers[i-1].Latency {
					t.Fatalf("%s %s: tier %d out of order", fam.Traits().Name, vs, i)
				}
			}
			ceil, _ := fam.Ceilings(vs, false)
			if tiers[len(tiers)-1].Max < ceil.HCLK {
				t.Fatalf("%s %s: flash table stops below the hclk ceiling", fam.Traits().Name, vs)
			}
		}
	}
}
