package blockasync

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/tester"
)

var (
	_ drivers.I2C = (*tester.I2CBus)(nil)
	_ drivers.SPI = (*loopSPI)(nil)
	_ NorFlash    = (*memFlash)(nil)
)

func TestI2CPassThrough(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(0x38)
	a := NewI2C(bus)
	ctx := context.Background()

	if err := a.Write(ctx, 0x38, []byte{0x10, 0xAA, 0xBB}); err != nil {
		t.Fatal(err)
	}
	if dev.Registers[0x10] != 0xAA || dev.Registers[0x11] != 0xBB {
		t.Fatalf("registers = %#x %#x", dev.Registers[0x10], dev.Registers[0x11])
	}

	r := make([]byte, 2)
	if err := a.WriteRead(ctx, 0x38, []byte{0x10}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{0xAA, 0xBB}) {
		t.Fatalf("read % x", r)
	}

	boom := errors.New("nack")
	dev.Err = boom
	if err := a.WriteRead(ctx, 0x38, []byte{0x10}, r); err != boom {
		t.Fatalf("err = %v, want it forwarded unchanged", err)
	}
	if a.Inner() != bus {
		t.Fatal("Inner")
	}
}

func TestI2CIgnoresCancelledContext(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(0x10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewI2C(bus).Write(ctx, 0x10, []byte{0, 1}); err != nil {
		t.Fatal(err)
	}
	if dev.Registers[0] != 1 {
		t.Fatal("write not performed")
	}
}

// loopSPI echoes the previous byte sent.
type loopSPI struct {
	last byte
	tx   []byte
	err  error
}

func (s *loopSPI) Tx(w, r []byte) error {
	if s.err != nil {
		return s.err
	}
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, _ := s.Transfer(out)
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

func (s *loopSPI) Transfer(b byte) (byte, error) {
	if s.err != nil {
		return 0, s.err
	}
	in := s.last
	s.last = b
	s.tx = append(s.tx, b)
	return in, nil
}

func TestSPIPassThrough(t *testing.T) {
	bus := &loopSPI{}
	a := NewSPI(bus)
	ctx := context.Background()

	if err := a.Write(ctx, []byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 3)
	if err := a.Transfer(ctx, r, []byte{7, 8, 9}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{2, 7, 8}) {
		t.Fatalf("transfer read % x", r)
	}
	buf := []byte{4, 5}
	if err := a.TransferInPlace(ctx, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{9, 4}) {
		t.Fatalf("in place % x", buf)
	}
	if err := a.Read(ctx, r[:1]); err != nil || r[0] != 5 {
		t.Fatalf("read %v % x", err, r[:1])
	}
	if err := a.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bus.tx, []byte{1, 2, 7, 8, 9, 4, 5, 0}) {
		t.Fatalf("sent % x", bus.tx)
	}

	boom := errors.New("spi")
	bus.err = boom
	if err := a.TransferInPlace(ctx, buf); err != boom {
		t.Fatalf("err = %v", err)
	}
}

type memFlash struct {
	mem []byte
	err error
}

var errRange = errors.New("out of range")

func (f *memFlash) ReadSize() uint32  { return 1 }
func (f *memFlash) WriteSize() uint32 { return 4 }
func (f *memFlash) EraseSize() uint32 { return 16 }
func (f *memFlash) Capacity() uint32  { return uint32(len(f.mem)) }

func (f *memFlash) Read(off uint32, buf []byte) error {
	if f.err != nil {
		return f.err
	}
	if int(off)+len(buf) > len(f.mem) {
		return errRange
	}
	copy(buf, f.mem[off:])
	return nil
}

func (f *memFlash) Write(off uint32, buf []byte) error {
	if int(off)+len(buf) > len(f.mem) {
		return errRange
	}
	for i, b := range buf {
		f.mem[int(off)+i] &= b
	}
	return nil
}

func (f *memFlash) Erase(from, to uint32) error {
	if to > uint32(len(f.mem)) || from > to {
		return errRange
	}
	for i := from; i < to; i++ {
		f.mem[i] = 0xFF
	}
	return nil
}

func TestFlashPassThrough(t *testing.T) {
	dev := &memFlash{mem: make([]byte, 64)}
	a := NewFlash(dev)
	ctx := context.Background()

	if a.Capacity() != 64 || a.EraseSize() != 16 || a.WriteSize() != 4 || a.ReadSize() != 1 {
		t.Fatal("geometry not forwarded")
	}
	if err := a.Erase(ctx, 0, 16); err != nil {
		t.Fatal(err)
	}
	if err := a.Write(ctx, 4, []byte{0x12, 0x34, 0x56, 0x78}); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 6)
	if err := a.Read(ctx, 3, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xFF, 0x12, 0x34, 0x56, 0x78, 0xFF}) {
		t.Fatalf("read % x", got)
	}
	if err := a.Write(ctx, 62, []byte{0, 0, 0, 0}); err != errRange {
		t.Fatalf("err = %v", err)
	}
	if err := a.Erase(ctx, 0, 128); err != errRange {
		t.Fatalf("err = %v", err)
	}
	if a.Inner() != dev {
		t.Fatal("Inner")
	}
}
