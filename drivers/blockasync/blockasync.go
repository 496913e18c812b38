// Package blockasync lets code written against context-taking bus and
// storage interfaces run on blocking tinygo drivers.
//
// Each call performs the blocking operation immediately and returns its
// error unchanged. The context is accepted for signature compatibility and
// never waited on.
package blockasync

import (
	"context"

	"tinygo.org/x/drivers"
)

// I2C adapts a blocking drivers.I2C.
type I2C struct {
	bus drivers.I2C
}

func NewI2C(bus drivers.I2C) *I2C { return &I2C{bus: bus} }

// Inner returns the wrapped bus.
func (a *I2C) Inner() drivers.I2C { return a.bus }

func (a *I2C) Read(_ context.Context, addr uint16, r []byte) error {
	return a.bus.Tx(addr, nil, r)
}

func (a *I2C) Write(_ context.Context, addr uint16, w []byte) error {
	return a.bus.Tx(addr, w, nil)
}

// WriteRead writes w then reads r under one transaction (repeated start).
func (a *I2C) WriteRead(_ context.Context, addr uint16, w, r []byte) error {
	return a.bus.Tx(addr, w, r)
}

// SPI adapts a blocking drivers.SPI.
type SPI struct {
	bus drivers.SPI
}

func NewSPI(bus drivers.SPI) *SPI { return &SPI{bus: bus} }

func (a *SPI) Inner() drivers.SPI { return a.bus }

func (a *SPI) Read(_ context.Context, r []byte) error { return a.bus.Tx(nil, r) }

func (a *SPI) Write(_ context.Context, w []byte) error { return a.bus.Tx(w, nil) }

// Transfer clocks out w while clocking in r. Buffers must be equal length.
func (a *SPI) Transfer(_ context.Context, r, w []byte) error { return a.bus.Tx(w, r) }

// TransferInPlace replaces buf with the bytes clocked in while sending it.
func (a *SPI) TransferInPlace(_ context.Context, buf []byte) error {
	for i, b := range buf {
		in, err := a.bus.Transfer(b)
		if err != nil {
			return err
		}
		buf[i] = in
	}
	return nil
}

// Flush is a no-op: blocking transfers are complete when they return.
func (a *SPI) Flush(context.Context) error { return nil }

// NorFlash is a blocking NOR flash device.
type NorFlash interface {
	ReadSize() uint32
	WriteSize() uint32
	EraseSize() uint32
	Capacity() uint32
	Read(offset uint32, buf []byte) error
	Write(offset uint32, buf []byte) error
	Erase(from, to uint32) error
}

// Flash adapts a blocking NorFlash.
type Flash struct {
	dev NorFlash
}

func NewFlash(dev NorFlash) *Flash { return &Flash{dev: dev} }

func (a *Flash) Inner() NorFlash { return a.dev }

func (a *Flash) ReadSize() uint32  { return a.dev.ReadSize() }
func (a *Flash) WriteSize() uint32 { return a.dev.WriteSize() }
func (a *Flash) EraseSize() uint32 { return a.dev.EraseSize() }
func (a *Flash) Capacity() uint32  { return a.dev.Capacity() }

func (a *Flash) Read(_ context.Context, offset uint32, buf []byte) error {
	return a.dev.Read(offset, buf)
}

func (a *Flash) Write(_ context.Context, offset uint32, buf []byte) error {
	return a.dev.Write(offset, buf)
}

func (a *Flash) Erase(_ context.Context, from, to uint32) error {
	return a.dev.Erase(from, to)
}
