package rcc

import "clockcode-go/x/mmio"

// Layout is where a family keeps each clock, power and flash control
// field. Fields a family lacks are left zero (absent).
type Layout struct {
	HSIOn, HSIRdy, HSIDiv mmio.Field
	CSIOn, CSIRdy         mmio.Field
	HSI48On, HSI48Rdy     mmio.Field
	HSEOn, HSERdy         mmio.Field
	HSEByp, HSEExt        mmio.Field

	PLLOn, PLLRdy [3]mmio.Field

	SW, SWS, TimPre mmio.Field
	SysCode         [4]uint32 // indexed by SysSource

	CorePre, AHBPre mmio.Field
	APBPre          [5]mmio.Field

	PLLSrc     [3]mmio.Field // the same field three times on shared-source families
	PLLSrcCode [3]uint32     // indexed by PLLSource
	PLLM       [3]mmio.Field
	PLLFracEn  [3]mmio.Field
	PLLVCOSel  [3]mmio.Field
	PLLRge     [3]mmio.Field
	PLLOutEn   [3][5]mmio.Field // P..T enables
	PLLN       [3]mmio.Field
	PLLOutDiv  [3][5]mmio.Field // P..T dividers

	FlashLatency, FlashWrHighFreq mmio.Field

	SupplyBypass, SupplyLDOEn, SupplySCUEn   mmio.Field
	SupplySDEn, SupplySDExtHP, SupplySDLevel mmio.Field
	SDLevelCode                              [2]uint32 // indexed by SMPSLevel

	ActVOSRdy mmio.Field
	VOS       mmio.Field
	VOSRdy    mmio.Field
	VOSCode   [4]uint32 // indexed by VoltageScale
	Overdrive mmio.Field

	// CPUFreqBoost is the read-only option bit that unlocks the boosted
	// Scale0 core ceiling.
	CPUFreqBoost mmio.Field

	// Reset holds power-on register values for simulation.
	Reset map[uint32]uint32
}

// ReadyPairs lists every (enable, ready) pair: oscillators, then PLLs.
func (l *Layout) ReadyPairs() [][2]mmio.Field {
	ps := [][2]mmio.Field{
		{l.HSIOn, l.HSIRdy},
		{l.CSIOn, l.CSIRdy},
		{l.HSI48On, l.HSI48Rdy},
		{l.HSEOn, l.HSERdy},
	}
	for i := range l.PLLOn {
		ps = append(ps, [2]mmio.Field{l.PLLOn[i], l.PLLRdy[i]})
	}
	return ps
}
