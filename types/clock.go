package types

// ---- Clock tree reports ----

// Freq is one frequency, machine and human readable.
type Freq struct {
	Hz   uint64 `json:"hz" yaml:"hz"`
	Text string `json:"text" yaml:"text"`
}

type ClockValue struct {
	Name string `json:"name" yaml:"name"`
	Freq `yaml:",inline"`
}

type KernelValue struct {
	Mux    string `json:"mux" yaml:"mux"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Freq   *Freq  `json:"freq,omitempty" yaml:"freq,omitempty"` // nil when the source is off
}

type PLLReport struct {
	PLL      int             `json:"pll" yaml:"pll"` // 1-based
	Source   string          `json:"source" yaml:"source"`
	PreDiv   uint8           `json:"prediv" yaml:"prediv"`
	Mul      uint16          `json:"mul" yaml:"mul"`
	Ref      Freq            `json:"ref" yaml:"ref"`
	Band     string          `json:"band" yaml:"band"`
	VCO      Freq            `json:"vco" yaml:"vco"`
	VCORange string          `json:"vco_range" yaml:"vco_range"`
	Outputs  map[string]Freq `json:"outputs" yaml:"outputs"`
}

type FlashReport struct {
	Latency    uint8 `json:"latency" yaml:"latency"`
	WrHighFreq uint8 `json:"wrhighfreq" yaml:"wrhighfreq"`
}

type CeilingReport struct {
	Core *Freq `json:"core,omitempty" yaml:"core,omitempty"`
	HCLK Freq  `json:"hclk" yaml:"hclk"`
	PCLK Freq  `json:"pclk" yaml:"pclk"`
}

// ClockReport is a fully resolved tree.
type ClockReport struct {
	Family   string        `json:"family" yaml:"family"`
	Scale    string        `json:"scale" yaml:"scale"`
	Clocks   []ClockValue  `json:"clocks" yaml:"clocks"`
	Kernels  []KernelValue `json:"kernels,omitempty" yaml:"kernels,omitempty"`
	PLLs     []PLLReport   `json:"plls,omitempty" yaml:"plls,omitempty"`
	Flash    FlashReport   `json:"flash" yaml:"flash"`
	Ceilings CeilingReport `json:"ceilings" yaml:"ceilings"`
}

// ---- Bring-up trace ----

type RegisterWrite struct {
	Addr uint32 `json:"addr" yaml:"addr"`
	Old  uint32 `json:"old" yaml:"old"`
	New  uint32 `json:"new" yaml:"new"`
}

type BringupReport struct {
	States []string        `json:"states" yaml:"states"`
	Writes []RegisterWrite `json:"writes" yaml:"writes"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
	Clocks *ClockReport    `json:"clocks,omitempty" yaml:"clocks,omitempty"`
}

// ---- Timer dead time ----

type DeadTimeReport struct {
	Target   uint32 `json:"target_ticks" yaml:"target_ticks"`
	Divider  uint32 `json:"ckd_divider" yaml:"ckd_divider"`
	DTG      uint8  `json:"dtg" yaml:"dtg"`
	Achieved uint32 `json:"achieved_ticks" yaml:"achieved_ticks"`
	Nanos    uint64 `json:"achieved_ns,omitempty" yaml:"achieved_ns,omitempty"`
}

// ---- PLL search ----

type PLLSearchReport struct {
	Family   string `json:"family" yaml:"family"`
	PLL      int    `json:"pll" yaml:"pll"`
	Source   string `json:"source" yaml:"source"`
	In       Freq   `json:"in" yaml:"in"`
	PreDiv   uint8  `json:"prediv" yaml:"prediv"`
	Mul      uint16 `json:"mul" yaml:"mul"`
	VCO      Freq   `json:"vco" yaml:"vco"`
	Output   string `json:"output" yaml:"output"`
	Div      uint8  `json:"div" yaml:"div"`
	Target   Freq   `json:"target" yaml:"target"`
	Achieved Freq   `json:"achieved" yaml:"achieved"`
}
