// Package mmio is a small 32-bit register access layer. The clock core only
// talks to hardware through Bus, so host builds can run it against a map.
package mmio

// Bus loads and stores aligned 32-bit registers.
type Bus interface {
	Load(addr uint32) uint32
	Store(addr uint32, v uint32)
}

// Field is a contiguous bit field in one register. A zero Width marks a
// field the silicon does not have; reads return 0 and writes are dropped.
type Field struct {
	Reg   uint32
	Shift uint8
	Width uint8
}

// Bit is a one-bit field.
func Bit(reg uint32, shift uint8) Field { return Field{Reg: reg, Shift: shift, Width: 1} }

// Bits is a multi-bit field.
func Bits(reg uint32, shift, width uint8) Field { return Field{Reg: reg, Shift: shift, Width: width} }

// Present reports whether the field exists.
func (f Field) Present() bool { return f.Width != 0 }

// Mask is the in-place mask of the field.
func (f Field) Mask() uint32 {
	if f.Width == 0 {
		return 0
	}
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return ((uint32(1) << f.Width) - 1) << f.Shift
}

// Extract pulls the field value out of a raw register word.
func (f Field) Extract(word uint32) uint32 { return (word & f.Mask()) >> f.Shift }

// Insert places v into word, truncating to the field width.
func (f Field) Insert(word, v uint32) uint32 {
	m := f.Mask()
	return (word &^ m) | ((v << f.Shift) & m)
}

// Get reads the field.
func (f Field) Get(b Bus) uint32 {
	if !f.Present() {
		return 0
	}
	return f.Extract(b.Load(f.Reg))
}

// IsSet reports a non-zero field.
func (f Field) IsSet(b Bus) bool { return f.Get(b) != 0 }

// Set read-modify-writes the field.
func (f Field) Set(b Bus, v uint32) {
	if !f.Present() {
		return
	}
	b.Store(f.Reg, f.Insert(b.Load(f.Reg), v))
}

// SetBool writes 1 or 0.
func (f Field) SetBool(b Bus, on bool) {
	if on {
		f.Set(b, 1)
		return
	}
	f.Set(b, 0)
}

// Update pairs a field with the value to write.
type Update struct {
	F Field
	V uint32
}

// Modify applies updates with one read-modify-write per distinct register,
// in order of first appearance. Updates for absent fields are skipped.
func Modify(b Bus, ups ...Update) {
	for i, u := range ups {
		if !u.F.Present() || seenBefore(ups[:i], u.F.Reg) {
			continue
		}
		reg := u.F.Reg
		w := b.Load(reg)
		for _, v := range ups[i:] {
			if v.F.Present() && v.F.Reg == reg {
				w = v.F.Insert(w, v.V)
			}
		}
		b.Store(reg, w)
	}
}

func seenBefore(ups []Update, reg uint32) bool {
	for _, u := range ups {
		if u.F.Present() && u.F.Reg == reg {
			return true
		}
	}
	return false
}

// B2U converts a bool to a field value.
func B2U(on bool) uint32 {
	if on {
		return 1
	}
	return 0
}
