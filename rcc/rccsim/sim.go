// Package rccsim simulates the RCC, PWR and FLASH registers of a family
// closely enough to run a bring-up on the host: ready bits follow their
// enables, SWS follows SW and voltage scaling is always ready. Fields can be
// stuck to inject faults.
package rccsim

import (
	"clockcode-go/rcc"
	"clockcode-go/x/conv"
	"clockcode-go/x/freq"
	"clockcode-go/x/mmio"
)

// Write is one register store as seen by the bus.
type Write struct {
	Addr uint32
	Old  uint32
	New  uint32
}

func (w Write) String() string {
	b := make([]byte, 0, 36)
	b = conv.Hex32(b, w.Addr)
	b = append(b, ": "...)
	b = conv.Hex32(b, w.Old)
	b = append(b, " -> "...)
	return string(conv.Hex32(b, w.New))
}

type stuck struct {
	f mmio.Field
	v uint32
}

// Sim is an mmio.Bus.
type Sim struct {
	fam rcc.Family
	lay *rcc.Layout
	mem *mmio.Map

	// HSE is the frequency present on the HSE pins.
	HSE freq.Hertz
	// OnStore runs after every store has settled.
	OnStore func(Write)

	writes []Write
	stuck  []stuck
}

// New returns a simulator in the power-on state of fam.
func New(fam rcc.Family) *Sim {
	s := &Sim{fam: fam, lay: fam.Layout(), mem: mmio.NewMap()}
	s.mem.Reset(s.lay.Reset)
	s.settle()
	return s
}

func (s *Sim) Load(addr uint32) uint32 { return s.mem.Load(addr) }

func (s *Sim) Store(addr, v uint32) {
	old := s.mem.Load(addr)
	s.mem.Store(addr, v)
	s.settle()
	w := Write{Addr: addr, Old: old, New: s.mem.Load(addr)}
	s.writes = append(s.writes, w)
	if s.OnStore != nil {
		s.OnStore(w)
	}
}

// Stick forces f to v from now on, whatever is written.
func (s *Sim) Stick(f mmio.Field, v uint32) {
	s.stuck = append(s.stuck, stuck{f, v})
	s.settle()
}

// Get reads a field without recording anything.
func (s *Sim) Get(f mmio.Field) uint32 { return f.Get(s.mem) }

// Writes returns every store so far.
func (s *Sim) Writes() []Write { return s.writes }

// FieldWrites returns the stores that changed f, oldest first.
func (s *Sim) FieldWrites(f mmio.Field) []Write {
	var out []Write
	for _, w := range s.writes {
		if w.Addr == f.Reg && f.Extract(w.Old) != f.Extract(w.New) {
			out = append(out, w)
		}
	}
	return out
}

// Index returns the position in Writes of the first store that set f to v,
// or -1.
func (s *Sim) Index(f mmio.Field, v uint32) int {
	for i, w := range s.writes {
		if w.Addr == f.Reg && f.Extract(w.New) == v && f.Extract(w.Old) != v {
			return i
		}
	}
	return -1
}

func (s *Sim) settle() {
	l := s.lay
	for _, p := range l.ReadyPairs() {
		p[1].Set(s.mem, p[0].Get(s.mem))
	}
	l.SWS.Set(s.mem, l.SW.Get(s.mem))
	l.VOSRdy.Set(s.mem, 1)
	l.ActVOSRdy.Set(s.mem, 1)
	for _, st := range s.stuck {
		st.f.Set(s.mem, st.v)
	}
}
