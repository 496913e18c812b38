package advtim

import "clockcode-go/x/resolve"

// CKD is the dead-time clock divider in TIMx_CR1.
type CKD uint8

const (
	CKDDiv1 CKD = 0
	CKDDiv2 CKD = 1
	CKDDiv4 CKD = 2
)

// Div returns the divider value, 1, 2 or 4.
func (c CKD) Div() uint32 { return 1 << c }

// DeadTime is one dead-time setting: a clock divider and a BDTR.DTG code.
type DeadTime struct {
	CKD CKD
	DTG uint8
}

// Ticks is the dead time in timer kernel clock ticks.
func (d DeadTime) Ticks() uint32 { return DTGTicks(d.DTG) * d.CKD.Div() }

// MaxTicks is the longest representable dead time.
const MaxTicks = 1008 * 4

// DTGTicks decodes a DTG code into dead-time clock ticks:
//
//	0xxxxxxx  code
//	10xxxxxx  (64+x)*2
//	110xxxxx  (32+x)*8
//	111xxxxx  (32+x)*16
func DTGTicks(code uint8) uint32 {
	c := uint32(code)
	switch {
	case c < 0x80:
		return c
	case c < 0xC0:
		return (64 + c&0x3F) * 2
	case c < 0xE0:
		return (32 + c&0x1F) * 8
	default:
		return (32 + c&0x1F) * 16
	}
}

var (
	codes    [256]uint8
	dividers = [...]CKD{CKDDiv1, CKDDiv2, CKDDiv4}
)

func init() {
	for i := range codes {
		codes[i] = uint8(i)
	}
}

// ComputeDeadTime returns the setting nearest to ticks. Smaller dividers win
// ties; targets beyond MaxTicks saturate at the longest setting.
func ComputeDeadTime(ticks uint16) DeadTime {
	target := uint32(ticks)
	var best [len(dividers)]DeadTime
	for i, ckd := range dividers {
		div := ckd.Div()
		code, _, _ := resolve.Nearest(target, codes[:], func(c uint8) uint32 { return DTGTicks(c) * div })
		best[i] = DeadTime{CKD: ckd, DTG: code}
	}
	d, _, _ := resolve.Nearest(target, best[:], DeadTime.Ticks)
	return d
}
