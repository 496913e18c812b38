//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Volatile is the on-chip Bus: every access is a volatile load or store at
// the absolute peripheral address.
type Volatile struct{}

func (Volatile) Load(addr uint32) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (Volatile) Store(addr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), v)
}
