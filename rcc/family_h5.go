package rcc

import (
	"clockcode-go/x/freq"
	"clockcode-go/x/mmio"
)

const (
	h5RCC   = 0x4402_0C00
	h5PWR   = 0x4402_0800
	h5FLASH = 0x4002_2000

	h5CR       = h5RCC + 0x00
	h5CFGR1    = h5RCC + 0x1C
	h5CFGR2    = h5RCC + 0x20
	h5PLL1CFGR = h5RCC + 0x28
	h5PLL1DIVR = h5RCC + 0x34
	h5CCIPR1   = h5RCC + 0xD8
	h5CCIPR3   = h5RCC + 0xE0
	h5CCIPR4   = h5RCC + 0xE4
	h5CCIPR5   = h5RCC + 0xE8

	h5PWRVOSCR = h5PWR + 0x10
	h5PWRVOSSR = h5PWR + 0x14

	h5FlashACR = h5FLASH + 0x00
)

// H5 is STM32H562/563/573 (RM0481). Each PLL has its own source mux and
// there is no CPU domain divider or supply configuration.
var H5 Family = newH5()

func newH5() *family {
	l := &Layout{
		HSIOn:    mmio.Bit(h5CR, 0),
		HSIRdy:   mmio.Bit(h5CR, 1),
		HSIDiv:   mmio.Bits(h5CR, 3, 2),
		CSIOn:    mmio.Bit(h5CR, 8),
		CSIRdy:   mmio.Bit(h5CR, 9),
		HSI48On:  mmio.Bit(h5CR, 12),
		HSI48Rdy: mmio.Bit(h5CR, 13),
		HSEOn:    mmio.Bit(h5CR, 16),
		HSERdy:   mmio.Bit(h5CR, 17),
		HSEByp:   mmio.Bit(h5CR, 18),
		HSEExt:   mmio.Bit(h5CR, 20),

		SW:      mmio.Bits(h5CFGR1, 0, 2),
		SWS:     mmio.Bits(h5CFGR1, 3, 2),
		TimPre:  mmio.Bit(h5CFGR1, 15),
		SysCode: [4]uint32{SysHSI: 0, SysCSI: 1, SysHSE: 2, SysPLL1P: 3},

		AHBPre: mmio.Bits(h5CFGR2, 0, 4),
		APBPre: [5]mmio.Field{
			mmio.Bits(h5CFGR2, 4, 3),
			mmio.Bits(h5CFGR2, 8, 3),
			mmio.Bits(h5CFGR2, 12, 3),
		},

		PLLSrcCode: [3]uint32{PLLSrcHSI: 1, PLLSrcCSI: 2, PLLSrcHSE: 3},

		FlashLatency:    mmio.Bits(h5FlashACR, 0, 4),
		FlashWrHighFreq: mmio.Bits(h5FlashACR, 4, 2),

		ActVOSRdy: mmio.Bit(h5PWRVOSSR, 13),
		VOS:       mmio.Bits(h5PWRVOSCR, 4, 2),
		VOSRdy:    mmio.Bit(h5PWRVOSSR, 3),
		VOSCode:   [4]uint32{Scale0: 3, Scale1: 2, Scale2: 1, Scale3: 0},

		Reset: map[uint32]uint32{
			h5CR:       0x0000_002B,
			h5PWRVOSSR: 0x0000_2008,
			h5FlashACR: 0x0000_0013,
		},
	}
	for i := 0; i < 3; i++ {
		n := uint8(i)
		cfgr := uint32(h5PLL1CFGR + 4*i)
		divr := uint32(h5PLL1DIVR + 8*i)
		l.PLLOn[i] = mmio.Bit(h5CR, 24+2*n)
		l.PLLRdy[i] = mmio.Bit(h5CR, 25+2*n)
		l.PLLSrc[i] = mmio.Bits(cfgr, 0, 2)
		l.PLLRge[i] = mmio.Bits(cfgr, 2, 2)
		l.PLLFracEn[i] = mmio.Bit(cfgr, 4)
		l.PLLVCOSel[i] = mmio.Bit(cfgr, 5)
		l.PLLM[i] = mmio.Bits(cfgr, 8, 6)
		l.PLLOutEn[i] = [5]mmio.Field{mmio.Bit(cfgr, 16), mmio.Bit(cfgr, 17), mmio.Bit(cfgr, 18)}
		l.PLLN[i] = mmio.Bits(divr, 0, 9)
		l.PLLOutDiv[i] = [5]mmio.Field{mmio.Bits(divr, 9, 7), mmio.Bits(divr, 16, 7), mmio.Bits(divr, 24, 7)}
		l.Reset[cfgr] = 0x0000_2000
		l.Reset[divr] = 0x0101_0280
	}

	return &family{
		traits: Traits{
			Name:             "stm32h5",
			Scales:           []VoltageScale{Scale0, Scale1, Scale2, Scale3},
			PLLs:             3,
			APB:              [5]bool{true, true, true, false, false},
			PDiv:             PDivEven,
			WideVCO:          freq.Range{Min: mhz(128), Max: mhz(560)},
			HSEDigitalBypass: true,
			Supply:           SupplyNone,
			HSIDivReset:      HSIDiv2,
		},
		ceil: [4]Ceilings{
			{0, mhz(250), mhz(250)},
			{0, mhz(200), mhz(200)},
			{0, mhz(150), mhz(150)},
			{0, mhz(100), mhz(100)},
		},
		flash: [4][]FlashTier{
			{{mhz(42), 0, 0}, {mhz(84), 1, 0}, {mhz(126), 2, 1}, {mhz(168), 3, 1}, {mhz(210), 4, 2}, {mhz(250), 5, 2}},
			{{mhz(34), 0, 0}, {mhz(68), 1, 0}, {mhz(102), 2, 1}, {mhz(136), 3, 1}, {mhz(170), 4, 2}, {mhz(200), 5, 2}},
			{{mhz(30), 0, 0}, {mhz(60), 1, 0}, {mhz(90), 2, 1}, {mhz(120), 3, 1}, {mhz(150), 4, 2}},
			{{mhz(20), 0, 0}, {mhz(40), 1, 0}, {mhz(60), 2, 1}, {mhz(80), 3, 1}, {mhz(100), 4, 2}},
		},
		layout: l,
		muxes: []Mux{
			{Name: "ckper", Field: mmio.Bits(h5CCIPR5, 30, 2), Sources: []MuxSource{
				{HSI, 0}, {CSI, 1}, {HSE, 2}}},
			{Name: "usart1", Field: mmio.Bits(h5CCIPR1, 0, 3), Sources: []MuxSource{
				{PCLK2, 0}, {PLL2Q, 1}, {PLL3Q, 2}, {HSI, 3}, {CSI, 4}}},
			{Name: "spi1", Field: mmio.Bits(h5CCIPR3, 0, 3), Sources: []MuxSource{
				{PLL1Q, 0}, {PLL2P, 1}, {PLL3P, 2}, {PerCK, 4}}},
			{Name: "usb", Field: mmio.Bits(h5CCIPR4, 4, 2), Sources: []MuxSource{
				{PLL1Q, 1}, {PLL3Q, 2}, {HSI48, 3}}},
			{Name: "i2c1", Field: mmio.Bits(h5CCIPR4, 16, 2), Sources: []MuxSource{
				{PCLK1, 0}, {PLL3R, 1}, {HSI, 2}, {CSI, 3}}},
			{Name: "adcdac", Field: mmio.Bits(h5CCIPR5, 0, 3), Sources: []MuxSource{
				{HCLK, 0}, {Sys, 1}, {PLL2R, 2}, {HSE, 3}, {HSI, 4}, {CSI, 5}}},
			{Name: "fdcan", Field: mmio.Bits(h5CCIPR5, 8, 2), Sources: []MuxSource{
				{HSE, 0}, {PLL1Q, 1}, {PLL2Q, 2}}},
		},
	}
}
