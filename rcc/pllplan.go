package rcc

import (
	"strconv"

	"clockcode-go/errcode"
	"clockcode-go/x/freq"
	"clockcode-go/x/resolve"
)

// PLLOutput selects one of the P..T taps.
type PLLOutput uint8

const (
	OutP PLLOutput = iota
	OutQ
	OutR
	OutS
	OutT
)

// ParsePLLOutput accepts "p".."t".
func ParsePLLOutput(s string) (PLLOutput, bool) {
	for i, n := range outNames {
		if n == s {
			return PLLOutput(i), true
		}
	}
	return 0, false
}

func (o PLLOutput) String() string {
	if int(o) < len(outNames) {
		return outNames[o]
	}
	return "invalid"
}

type pllCand struct {
	m   uint8
	n   uint16
	d   PLLDiv
	out freq.Hertz
}

// PlanPLL searches pre-divider, multiplier and output divider for the
// setting of PLL slot pll whose output is nearest target. Medium-VCO
// settings are preferred, then smaller pre-dividers, then smaller
// multipliers. Only electrically valid settings are considered; the
// reference is kept at or above 1 MHz.
func PlanPLL(fam Family, pll int, src PLLSource, in, target freq.Hertz, out PLLOutput) (PLL, freq.Hertz, error) {
	tr := fam.Traits()
	op := "plan " + pllOp(pll)
	if pll < 0 || pll >= tr.PLLs {
		return PLL{}, 0, fail(errcode.InvalidParams, op, "no such PLL")
	}
	if out > OutT || (out >= OutS && !tr.PLLOutputsST) {
		return PLL{}, 0, fail(errcode.Unsupported, op, "output "+out.String())
	}
	if target == 0 || in == 0 {
		return PLL{}, 0, fail(errcode.InvalidParams, op, "zero frequency")
	}
	maxDiv := uint32(128)
	if out >= OutS {
		maxDiv = 8
	}

	var medium, wide []pllCand
	for m := uint32(1); m <= 63; m++ {
		ref := in.Div(m)
		if ref < freq.MHz {
			break
		}
		band, ok := RefBand(ref)
		if !ok {
			continue
		}
		for n := uint32(4); n <= 512; n++ {
			vco := ref.Mul(n)
			sel, ok := SelectVCO(tr, band, vco)
			if !ok {
				continue
			}
			d, ok := bestDiv(vco, target, maxDiv, pll == 0 && out == OutP, tr.PDiv)
			if !ok {
				continue
			}
			c := pllCand{m: uint8(m), n: uint16(n), d: PLLDiv(d), out: vco.Div(d)}
			if sel == VCOMedium {
				medium = append(medium, c)
			} else {
				wide = append(wide, c)
			}
		}
	}

	best, _, err := resolve.Nearest(target, append(medium, wide...), func(c pllCand) freq.Hertz { return c.out })
	if err != nil {
		return PLL{}, 0, fail(errcode.EmptyCandidates, op, "no valid setting for "+target.String())
	}
	p := PLL{Source: src, PreDiv: best.m, Mul: best.n}
	switch out {
	case OutP:
		p.P = best.d
	case OutQ:
		p.Q = best.d
	case OutR:
		p.R = best.d
	case OutS:
		p.S = best.d
	case OutT:
		p.T = best.d
	}
	return p, best.out, nil
}

// bestDiv returns the allowed divider in 1..limit whose output is nearest
// target. Only the two dividers around vco/target can win, or the top of
// the range when target is below vco/limit.
func bestDiv(vco, target freq.Hertz, limit uint32, pRule bool, rule PDivRule) (uint32, bool) {
	q := uint32(min(vco/target, freq.Hertz(limit)))
	var cands []uint32
	for _, d := range []uint32{q - 1, q, q + 1, q + 2} {
		if d < 1 || d > limit {
			continue
		}
		if pRule && !pDivAllowed(rule, PLLDiv(d)) {
			continue
		}
		cands = append(cands, d)
	}
	d, _, err := resolve.Nearest(target, cands, func(d uint32) freq.Hertz { return vco.Div(d) })
	return d, err == nil
}

// String renders a PLL setting as "src/M*N p=.. q=..".
func (p PLL) String() string {
	s := p.Source.String() + "/" + strconv.Itoa(int(p.PreDiv)) + "*" + strconv.Itoa(int(p.Mul))
	for i, d := range p.Outputs() {
		if d != 0 {
			s += " " + outNames[i] + "=" + strconv.Itoa(int(d))
		}
	}
	return s
}
