package rcc

import (
	"clockcode-go/x/freq"
	"clockcode-go/x/mmio"
)

const (
	rsCDCFGR   = h7RCC + 0x18
	rsBMCFGR   = h7RCC + 0x1C
	rsAPBCFGR  = h7RCC + 0x20
	rsPLL1DIV2 = h7RCC + 0x2C0

	rsPWRSR1  = h7PWR + 0x04
	rsPWRCSR2 = h7PWR + 0x0C
	rsPWRCSR4 = h7PWR + 0x1C
)

// H7RS is STM32H7R3/R7/S3/S7 (RM0477). Two voltage scales: Scale0 is
// HIGH and Scale1 is LOW.
var H7RS Family = newH7RS()

func newH7RS() *family {
	l := h7Layout()
	l.HSEExt = mmio.Bit(h7CR, 20)
	l.CorePre = mmio.Bits(rsCDCFGR, 0, 4)
	l.AHBPre = mmio.Bits(rsBMCFGR, 0, 4)
	l.APBPre = [5]mmio.Field{
		mmio.Bits(rsAPBCFGR, 0, 3),
		mmio.Bits(rsAPBCFGR, 4, 3),
		{},
		mmio.Bits(rsAPBCFGR, 8, 3),
		mmio.Bits(rsAPBCFGR, 12, 3),
	}
	for i := 0; i < 3; i++ {
		n := uint8(i)
		div2 := uint32(rsPLL1DIV2 + 4*i)
		l.PLLOutEn[i][3] = mmio.Bit(h7PLLCFGR, 25+2*n)
		l.PLLOutEn[i][4] = mmio.Bit(h7PLLCFGR, 26+2*n)
		l.PLLOutDiv[i][3] = mmio.Bits(div2, 0, 3)
		l.PLLOutDiv[i][4] = mmio.Bits(div2, 8, 3)
	}

	l.SupplyBypass = mmio.Bit(rsPWRCSR2, 0)
	l.SupplyLDOEn = mmio.Bit(rsPWRCSR2, 1)
	l.SupplySDEn = mmio.Bit(rsPWRCSR2, 2)
	l.SupplySDExtHP = mmio.Bit(rsPWRCSR2, 3)
	l.SupplySDLevel = mmio.Bits(rsPWRCSR2, 4, 2)
	l.SDLevelCode = [2]uint32{SMPS1V8: 1}
	l.ActVOSRdy = mmio.Bit(rsPWRSR1, 1)
	l.VOS = mmio.Bit(rsPWRCSR4, 0)
	l.VOSRdy = mmio.Bit(rsPWRCSR4, 1)
	l.VOSCode = [4]uint32{Scale0: 1, Scale1: 0}

	delete(l.Reset, h7PWRCSR1)
	delete(l.Reset, h7PWRD3CR)
	delete(l.Reset, h7PWRCR3)
	l.Reset[rsPWRSR1] = 0x0000_0002
	l.Reset[rsPWRCSR2] = 0x0000_0006
	l.Reset[rsPWRCSR4] = 0x0000_0002

	return &family{
		traits: Traits{
			Name:             "stm32h7rs",
			Scales:           []VoltageScale{Scale0, Scale1},
			PLLs:             3,
			CoreDiv:          true,
			APB:              [5]bool{true, true, false, true, true},
			SharedPLLSource:  true,
			PDiv:             PDivEvenOrOne,
			WideVCO:          freq.Range{Min: mhz(384), Max: mhz(1672)},
			PLLOutputsST:     true,
			HSEDigitalBypass: true,
			Supply:           SupplyConfigurable,
			HSIDivReset:      HSIDiv1,
		},
		ceil: [4]Ceilings{
			{mhz(600), mhz(300), mhz(150)},
			{mhz(400), mhz(200), mhz(100)},
		},
		flash: [4][]FlashTier{
			{{mhz(40), 0, 0}, {mhz(80), 1, 0}, {mhz(120), 2, 1}, {mhz(160), 3, 1}, {mhz(200), 4, 2}, {mhz(240), 5, 2}, {mhz(280), 6, 3}, {mhz(320), 7, 3}},
			{{mhz(36), 0, 0}, {mhz(72), 1, 0}, {mhz(108), 2, 1}, {mhz(144), 3, 1}, {mhz(180), 4, 2}, {mhz(216), 5, 2}},
		},
		layout: l,
		muxes:  h7Muxes(),
	}
}
