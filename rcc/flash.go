package rcc

import (
	"clockcode-go/errcode"
	"clockcode-go/x/freq"
	"clockcode-go/x/resolve"
)

// FlashTiming is the FLASH_ACR setting for one bus clock.
type FlashTiming struct {
	Latency    uint8
	WrHighFreq uint8
}

// SelectFlashTiming picks the first (lowest) tier of fam's table at vs whose
// upper bound covers hclk.
func SelectFlashTiming(fam Family, hclk freq.Hertz, vs VoltageScale) (FlashTiming, error) {
	tiers := fam.FlashTiers(vs)
	if len(tiers) == 0 {
		return FlashTiming{}, errcode.New(errcode.UnsupportedScale, "flash", vs.String())
	}
	t, ok := resolve.Tier(hclk, tiers, func(t FlashTier) freq.Hertz { return t.Max })
	if !ok {
		return FlashTiming{}, errcode.New(errcode.FlashTierExceeded, "flash",
			hclk.String()+" above "+tiers[len(tiers)-1].Max.String()+" at "+vs.String())
	}
	return FlashTiming{Latency: t.Latency, WrHighFreq: t.WrHighFreq}, nil
}
