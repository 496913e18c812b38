package mmio

// Map is a plain memory-backed Bus. Unwritten registers read as zero
// unless seeded with Reset.
type Map struct {
	regs map[uint32]uint32
}

func NewMap() *Map { return &Map{regs: make(map[uint32]uint32)} }

func (m *Map) Load(addr uint32) uint32 { return m.regs[addr] }

func (m *Map) Store(addr, v uint32) { m.regs[addr] = v }

// Reset seeds registers with their power-on values.
func (m *Map) Reset(vals map[uint32]uint32) {
	for a, v := range vals {
		m.regs[a] = v
	}
}
