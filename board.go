package main

import (
	"clockcode-go/rcc"
	"clockcode-go/x/freq"
)

// boardTopology is the tree for the Nucleo board of each family. Families
// without one run from HSI at their default scale.
func boardTopology(fam rcc.Family) rcc.Topology {
	switch fam {
	case rcc.H7:
		// NUCLEO-H743ZI: 8 MHz from the ST-LINK MCO.
		return rcc.Topology{
			HSI:   rcc.HSIDiv1,
			HSE:   &rcc.HSEConfig{Freq: 8 * freq.MHz, Mode: rcc.HSEBypass},
			HSI48: true,
			PLL: [3]*rcc.PLL{
				{Source: rcc.PLLSrcHSE, PreDiv: 1, Mul: 120, P: 2, Q: 20, R: 2},
			},
			Sys:          rcc.SysPLL1P,
			CoreDiv:      1,
			AHBDiv:       2,
			APB:          [5]rcc.APBPrescaler{2, 2, 2, 2},
			Timer:        rcc.TimerX2,
			VoltageScale: rcc.Scale0,
			Mux:          []rcc.MuxSelect{{Mux: "usb", Source: rcc.HSI48}},
		}
	case rcc.H5:
		// NUCLEO-H563ZI
		return rcc.Topology{
			HSI:   rcc.HSIDiv1,
			HSE:   &rcc.HSEConfig{Freq: 8 * freq.MHz, Mode: rcc.HSEBypassDigital},
			HSI48: true,
			PLL: [3]*rcc.PLL{
				{Source: rcc.PLLSrcHSE, PreDiv: 2, Mul: 125, P: 2, Q: 10},
			},
			Sys:          rcc.SysPLL1P,
			VoltageScale: rcc.Scale0,
			Mux:          []rcc.MuxSelect{{Mux: "usb", Source: rcc.HSI48}},
		}
	case rcc.H7RS:
		// NUCLEO-H7S3L8
		return rcc.Topology{
			HSI:   rcc.HSIDiv1,
			HSE:   &rcc.HSEConfig{Freq: 24 * freq.MHz, Mode: rcc.HSECrystal},
			HSI48: true,
			PLL: [3]*rcc.PLL{
				{Source: rcc.PLLSrcHSE, PreDiv: 3, Mul: 150, P: 2, Q: 25},
			},
			Sys:          rcc.SysPLL1P,
			CoreDiv:      1,
			AHBDiv:       2,
			APB:          [5]rcc.APBPrescaler{2, 2, 1, 2, 2},
			VoltageScale: rcc.Scale0,
			Supply:       rcc.Supply{Mode: rcc.SupplyDirectSMPS},
		}
	}
	return rcc.DefaultTopology(fam)
}
