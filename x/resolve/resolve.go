// Package resolve picks discrete hardware encodings for a target quantity.
//
// Candidate order is a preference order: earlier candidates win ties, so
// callers list smaller dividers and lower-power settings first.
package resolve

import (
	"golang.org/x/exp/constraints"

	"clockcode-go/errcode"
	"clockcode-go/x/mathx"
)

// Nearest returns the candidate whose achieved value is closest to target,
// together with its absolute error. The first candidate wins ties and a zero
// error returns immediately. An empty candidate list is a programming error
// and yields errcode.EmptyCandidates.
func Nearest[E any, T constraints.Unsigned](target T, cands []E, achieve func(E) T) (E, T, error) {
	var best E
	if len(cands) == 0 {
		return best, 0, errcode.EmptyCandidates
	}
	var bestErr T
	for i, c := range cands {
		e := mathx.AbsDiff(achieve(c), target)
		if i == 0 || e < bestErr {
			best, bestErr = c, e
			if e == 0 {
				break
			}
		}
	}
	return best, bestErr, nil
}

// Tier returns the first entry whose upper bound is >= v. Tiers must be
// ordered by ascending bound. ok is false when v is above every tier.
func Tier[E any, T constraints.Ordered](v T, tiers []E, bound func(E) T) (E, bool) {
	for _, t := range tiers {
		if v <= bound(t) {
			return t, true
		}
	}
	var zero E
	return zero, false
}
