//go:build !tinygo

// Package critical runs short register sequences that interrupt handlers
// must not observe half-written.
package critical

import "sync"

var mu sync.Mutex

// With runs fn with other critical sections excluded.
func With(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
