package mathx

import "golang.org/x/exp/constraints"

// Min for convenience.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// AbsDiff returns |a - b| without underflow for unsigned types.
func AbsDiff[T constraints.Integer | constraints.Float](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}
