//go:build !tinygo

package main

import (
	"clockcode-go/rcc"
	"clockcode-go/rcc/rccsim"
	"clockcode-go/x/mmio"
)

// Host builds run the firmware against the register simulator.
func newBus(fam rcc.Family, topo rcc.Topology) mmio.Bus {
	s := rccsim.New(fam)
	if topo.HSE != nil {
		s.HSE = topo.HSE.Freq
	}
	return s
}
