package rcc

import "clockcode-go/x/freq"

// h7At480 runs an H743 at 480 MHz from a 25 MHz crystal.
func h7At480() Topology {
	return Topology{
		HSI:   HSIDiv1,
		HSE:   &HSEConfig{Freq: 25 * freq.MHz, Mode: HSECrystal},
		HSI48: true,
		PLL: [3]*PLL{
			{Source: PLLSrcHSE, PreDiv: 5, Mul: 192, P: 2, Q: 8},
		},
		Sys:          SysPLL1P,
		CoreDiv:      1,
		AHBDiv:       2,
		APB:          [5]APBPrescaler{2, 2, 2, 2},
		Timer:        TimerX2,
		VoltageScale: Scale0,
	}
}

// h5At250 runs an H563 at 250 MHz with PLL2 on its own HSI source.
func h5At250() Topology {
	return Topology{
		HSI: HSIDiv1,
		HSE: &HSEConfig{Freq: 25 * freq.MHz, Mode: HSEBypassDigital},
		PLL: [3]*PLL{
			{Source: PLLSrcHSE, PreDiv: 5, Mul: 100, P: 2, Q: 10},
			{Source: PLLSrcHSI, PreDiv: 8, Mul: 50, Q: 4},
		},
		Sys:          SysPLL1P,
		VoltageScale: Scale0,
	}
}

// h72xBoost runs an H723 core at 550 MHz.
func h72xBoost() Topology {
	return Topology{
		HSI:          HSIDiv1,
		HSE:          &HSEConfig{Freq: 25 * freq.MHz},
		PLL:          [3]*PLL{{Source: PLLSrcHSE, PreDiv: 5, Mul: 110, P: 1}},
		Sys:          SysPLL1P,
		AHBDiv:       2,
		APB:          [5]APBPrescaler{2, 2, 2, 2},
		VoltageScale: Scale0,
		CPUFreqBoost: true,
	}
}
