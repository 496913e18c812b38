//go:build tinygo

package critical

import "runtime/interrupt"

// With runs fn with interrupts masked.
func With(fn func()) {
	st := interrupt.Disable()
	defer interrupt.Restore(st)
	fn()
}
