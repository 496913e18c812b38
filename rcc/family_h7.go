package rcc

import (
	"clockcode-go/x/freq"
	"clockcode-go/x/mmio"
)

// RCC, PWR, FLASH and SYSCFG blocks of the STM32H7 line.
const (
	h7RCC    = 0x5802_4400
	h7PWR    = 0x5802_4800
	h7FLASH  = 0x5200_2000
	h7SYSCFG = 0x5800_0400

	h7CR        = h7RCC + 0x00
	h7CFGR      = h7RCC + 0x10
	h7D1CFGR    = h7RCC + 0x18
	h7D2CFGR    = h7RCC + 0x1C
	h7D3CFGR    = h7RCC + 0x20
	h7PLLCKSELR = h7RCC + 0x28
	h7PLLCFGR   = h7RCC + 0x2C
	h7PLL1DIVR  = h7RCC + 0x30
	h7D1CCIPR   = h7RCC + 0x4C
	h7D2CCIP1R  = h7RCC + 0x50
	h7D2CCIP2R  = h7RCC + 0x54
	h7D3CCIPR   = h7RCC + 0x58

	h7PWRCSR1 = h7PWR + 0x04
	h7PWRCR3  = h7PWR + 0x0C
	h7PWRD3CR = h7PWR + 0x18

	h7FlashACR = h7FLASH + 0x00

	h7SyscfgPWRCR = h7SYSCFG + 0x2C
	h7SyscfgUR18  = h7SYSCFG + 0x348
)

// h7Layout is the common H7 register map. The family constructors patch
// the power fields that differ between reference manuals.
func h7Layout() *Layout {
	l := &Layout{
		HSIOn:    mmio.Bit(h7CR, 0),
		HSIRdy:   mmio.Bit(h7CR, 2),
		HSIDiv:   mmio.Bits(h7CR, 3, 2),
		CSIOn:    mmio.Bit(h7CR, 7),
		CSIRdy:   mmio.Bit(h7CR, 8),
		HSI48On:  mmio.Bit(h7CR, 12),
		HSI48Rdy: mmio.Bit(h7CR, 13),
		HSEOn:    mmio.Bit(h7CR, 16),
		HSERdy:   mmio.Bit(h7CR, 17),
		HSEByp:   mmio.Bit(h7CR, 18),

		SW:      mmio.Bits(h7CFGR, 0, 3),
		SWS:     mmio.Bits(h7CFGR, 3, 3),
		TimPre:  mmio.Bit(h7CFGR, 15),
		SysCode: [4]uint32{SysHSI: 0, SysCSI: 1, SysHSE: 2, SysPLL1P: 3},

		CorePre: mmio.Bits(h7D1CFGR, 8, 4),
		AHBPre:  mmio.Bits(h7D1CFGR, 0, 4),
		APBPre: [5]mmio.Field{
			mmio.Bits(h7D2CFGR, 4, 3),
			mmio.Bits(h7D2CFGR, 8, 3),
			mmio.Bits(h7D1CFGR, 4, 3),
			mmio.Bits(h7D3CFGR, 4, 3),
		},

		PLLSrcCode: [3]uint32{PLLSrcHSI: 0, PLLSrcCSI: 1, PLLSrcHSE: 2},

		FlashLatency:    mmio.Bits(h7FlashACR, 0, 4),
		FlashWrHighFreq: mmio.Bits(h7FlashACR, 4, 2),

		SupplyBypass: mmio.Bit(h7PWRCR3, 0),
		SupplyLDOEn:  mmio.Bit(h7PWRCR3, 1),

		ActVOSRdy: mmio.Bit(h7PWRCSR1, 13),
		VOS:       mmio.Bits(h7PWRD3CR, 14, 2),
		VOSRdy:    mmio.Bit(h7PWRD3CR, 13),

		Reset: map[uint32]uint32{
			h7CR:              0x0000_0025,
			h7PLLCKSELR:       0x0202_0200,
			h7PLLCFGR:         0x01FF_0000,
			h7PLL1DIVR:        0x0101_0280,
			h7PLL1DIVR + 0x08: 0x0101_0280,
			h7PLL1DIVR + 0x10: 0x0101_0280,
			h7PWRCSR1:         0x0000_6000,
			h7PWRCR3:          0x0000_0006,
			h7PWRD3CR:         0x0000_6000,
			h7FlashACR:        0x0000_0037,
		},
	}
	for i := 0; i < 3; i++ {
		n := uint8(i)
		divr := uint32(h7PLL1DIVR + 8*i)
		l.PLLOn[i] = mmio.Bit(h7CR, 24+2*n)
		l.PLLRdy[i] = mmio.Bit(h7CR, 25+2*n)
		l.PLLSrc[i] = mmio.Bits(h7PLLCKSELR, 0, 2)
		l.PLLM[i] = mmio.Bits(h7PLLCKSELR, 4+8*n, 6)
		l.PLLFracEn[i] = mmio.Bit(h7PLLCFGR, 4*n)
		l.PLLVCOSel[i] = mmio.Bit(h7PLLCFGR, 4*n+1)
		l.PLLRge[i] = mmio.Bits(h7PLLCFGR, 4*n+2, 2)
		l.PLLOutEn[i] = [5]mmio.Field{
			mmio.Bit(h7PLLCFGR, 16+3*n),
			mmio.Bit(h7PLLCFGR, 17+3*n),
			mmio.Bit(h7PLLCFGR, 18+3*n),
		}
		l.PLLN[i] = mmio.Bits(divr, 0, 9)
		l.PLLOutDiv[i] = [5]mmio.Field{
			mmio.Bits(divr, 9, 7),
			mmio.Bits(divr, 16, 7),
			mmio.Bits(divr, 24, 7),
		}
	}
	return l
}

func h7Muxes() []Mux {
	return []Mux{
		{Name: "ckper", Field: mmio.Bits(h7D1CCIPR, 28, 2), Sources: []MuxSource{
			{HSI, 0}, {CSI, 1}, {HSE, 2}}},
		{Name: "sdmmc", Field: mmio.Bit(h7D1CCIPR, 16), Sources: []MuxSource{
			{PLL1Q, 0}, {PLL2R, 1}}},
		{Name: "spi123", Field: mmio.Bits(h7D2CCIP1R, 12, 3), Sources: []MuxSource{
			{PLL1Q, 0}, {PLL2P, 1}, {PLL3P, 2}, {PerCK, 4}}},
		{Name: "fdcan", Field: mmio.Bits(h7D2CCIP1R, 28, 2), Sources: []MuxSource{
			{HSE, 0}, {PLL1Q, 1}, {PLL2Q, 2}}},
		{Name: "usart234578", Field: mmio.Bits(h7D2CCIP2R, 0, 3), Sources: []MuxSource{
			{PCLK1, 0}, {PLL2Q, 1}, {PLL3Q, 2}, {HSI, 3}, {CSI, 4}}},
		{Name: "usart16", Field: mmio.Bits(h7D2CCIP2R, 3, 3), Sources: []MuxSource{
			{PCLK2, 0}, {PLL2Q, 1}, {PLL3Q, 2}, {HSI, 3}, {CSI, 4}}},
		{Name: "i2c123", Field: mmio.Bits(h7D2CCIP2R, 12, 2), Sources: []MuxSource{
			{PCLK1, 0}, {PLL3R, 1}, {HSI, 2}, {CSI, 3}}},
		{Name: "usb", Field: mmio.Bits(h7D2CCIP2R, 20, 2), Sources: []MuxSource{
			{PLL1Q, 1}, {PLL3Q, 2}, {HSI48, 3}}},
		{Name: "adc", Field: mmio.Bits(h7D3CCIPR, 16, 2), Sources: []MuxSource{
			{PLL2P, 0}, {PLL3R, 1}, {PerCK, 2}}},
	}
}

var h7Traits = Traits{
	Scales:          []VoltageScale{Scale0, Scale1, Scale2, Scale3},
	PLLs:            3,
	CoreDiv:         true,
	APB:             [5]bool{true, true, true, true, false},
	SharedPLLSource: true,
	HSIDivReset:     HSIDiv1,
}

// H7 is STM32H742/743/750/753 (RM0433) and the dual-core H745/747/755/757
// (RM0399).
var H7 Family = newH7()

func newH7() *family {
	t := h7Traits
	t.Name = "stm32h7"
	t.PDiv = PDivEven
	t.WideVCO = freq.Range{Min: mhz(192), Max: mhz(960)}
	t.Supply = SupplyFixedLDO
	t.Overdrive = true

	l := h7Layout()
	l.SupplySCUEn = mmio.Bit(h7PWRCR3, 2)
	// Scale0 is Scale1 plus the SYSCFG overdrive bit.
	l.VOSCode = [4]uint32{Scale0: 3, Scale1: 3, Scale2: 2, Scale3: 1}
	l.Overdrive = mmio.Bit(h7SyscfgPWRCR, 0)

	return &family{
		traits: t,
		ceil: [4]Ceilings{
			{mhz(480), mhz(240), mhz(120)},
			{mhz(400), mhz(200), mhz(100)},
			{mhz(300), mhz(150), mhz(75)},
			{mhz(200), mhz(100), mhz(50)},
		},
		flash: [4][]FlashTier{
			{{mhz(70), 0, 0}, {mhz(140), 1, 1}, {mhz(185), 2, 1}, {mhz(210), 2, 2}, {mhz(225), 3, 2}, {mhz(240), 4, 2}},
			{{mhz(70), 0, 0}, {mhz(140), 1, 1}, {mhz(185), 2, 1}, {mhz(210), 2, 2}, {mhz(225), 3, 2}},
			{{mhz(55), 0, 0}, {mhz(110), 1, 1}, {mhz(165), 2, 1}, {mhz(224), 3, 2}},
			{{mhz(45), 0, 0}, {mhz(90), 1, 1}, {mhz(135), 2, 1}, {mhz(180), 3, 2}, {mhz(224), 4, 2}},
		},
		layout: l,
		muxes:  h7Muxes(),
	}
}

// configurableSupply adds the SMPS fields of RM0399/RM0455/RM0468.
func configurableSupply(l *Layout) {
	l.SupplySDEn = mmio.Bit(h7PWRCR3, 2)
	l.SupplySDExtHP = mmio.Bit(h7PWRCR3, 3)
	l.SupplySDLevel = mmio.Bits(h7PWRCR3, 4, 2)
	l.SDLevelCode = [2]uint32{SMPS1V8: 1, SMPS2V5: 2}
}

// H72x is STM32H723/725/730/733/735 (RM0468).
var H72x Family = newH72x()

func newH72x() *family {
	t := h7Traits
	t.Name = "stm32h72x"
	t.PDiv = PDivEvenOrOne
	t.WideVCO = freq.Range{Min: mhz(192), Max: mhz(836)}
	t.Supply = SupplyConfigurable
	t.SMPS2V5 = true
	t.FreqBoost = true

	l := h7Layout()
	configurableSupply(l)
	l.VOSCode = [4]uint32{Scale0: 0, Scale1: 3, Scale2: 2, Scale3: 1}
	l.CPUFreqBoost = mmio.Bit(h7SyscfgUR18, 0)

	return &family{
		traits: t,
		ceil: [4]Ceilings{
			{mhz(520), mhz(275), khz(137_500)},
			{mhz(400), mhz(200), mhz(100)},
			{mhz(300), mhz(150), mhz(75)},
			{mhz(170), mhz(85), khz(42_500)},
		},
		boostCore: mhz(550),
		flash: [4][]FlashTier{
			{{mhz(70), 0, 0}, {mhz(140), 1, 1}, {mhz(210), 2, 2}, {mhz(275), 3, 3}},
			{{mhz(67), 0, 0}, {mhz(133), 1, 1}, {mhz(200), 2, 2}},
			{{mhz(50), 0, 0}, {mhz(100), 1, 1}, {mhz(150), 2, 2}},
			{{mhz(35), 0, 0}, {mhz(70), 1, 1}, {mhz(85), 2, 2}},
		},
		layout: l,
		muxes:  h7Muxes(),
	}
}

// H7AB is STM32H7A3/7B3/7B0 (RM0455).
var H7AB Family = newH7AB()

func newH7AB() *family {
	t := h7Traits
	t.Name = "stm32h7ab"
	t.PDiv = PDivEven
	t.WideVCO = freq.Range{Min: mhz(128), Max: mhz(560)}
	t.Supply = SupplyConfigurable
	t.SMPS2V5 = true

	l := h7Layout()
	configurableSupply(l)
	l.VOSCode = [4]uint32{Scale0: 3, Scale1: 2, Scale2: 1, Scale3: 0}
	l.Reset[h7PWRD3CR] = 0x0000_2000

	return &family{
		traits: t,
		ceil: [4]Ceilings{
			{mhz(280), mhz(280), mhz(140)},
			{mhz(225), mhz(225), khz(112_500)},
			{mhz(160), mhz(160), mhz(80)},
			{mhz(88), mhz(88), mhz(44)},
		},
		flash: [4][]FlashTier{
			{{mhz(42), 0, 0}, {mhz(84), 1, 0}, {mhz(126), 2, 1}, {mhz(168), 3, 1}, {mhz(210), 4, 2}, {mhz(252), 5, 2}, {mhz(280), 6, 3}},
			{{mhz(38), 0, 0}, {mhz(76), 1, 0}, {mhz(114), 2, 1}, {mhz(152), 3, 1}, {mhz(190), 4, 2}, {mhz(225), 5, 2}},
			{{mhz(34), 0, 0}, {mhz(68), 1, 0}, {mhz(102), 2, 1}, {mhz(136), 3, 1}, {mhz(160), 4, 2}},
			{{mhz(22), 0, 0}, {mhz(44), 1, 0}, {mhz(66), 2, 1}, {mhz(88), 3, 1}},
		},
		layout: l,
		muxes:  h7Muxes(),
	}
}
