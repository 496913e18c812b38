package rcc

// Register encodings shared by every supported family.

var ahbCodes = [...]struct {
	div  uint32
	code uint32
}{{1, 0}, {2, 8}, {4, 9}, {8, 10}, {16, 11}, {64, 12}, {128, 13}, {256, 14}, {512, 15}}

// EncodeAHB returns the HPRE/CPRE bits for div.
func EncodeAHB(div uint32) (uint32, bool) {
	for _, c := range ahbCodes {
		if c.div == div {
			return c.code, true
		}
	}
	return 0, false
}

// DecodeAHB is the inverse of EncodeAHB. Codes 0..7 all mean /1.
func DecodeAHB(code uint32) uint32 {
	if code < 8 {
		return 1
	}
	for _, c := range ahbCodes {
		if c.code == code {
			return c.div
		}
	}
	return 1
}

// EncodeAPB returns the PPRE bits for div.
func EncodeAPB(div uint32) (uint32, bool) {
	switch div {
	case 1:
		return 0, true
	case 2:
		return 4, true
	case 4:
		return 5, true
	case 8:
		return 6, true
	case 16:
		return 7, true
	}
	return 0, false
}

// DecodeAPB is the inverse of EncodeAPB. Codes 0..3 all mean /1.
func DecodeAPB(code uint32) uint32 {
	if code < 4 {
		return 1
	}
	return 2 << (code - 4)
}

func EncodeHSIDiv(d HSIDiv) (uint32, bool) {
	switch d {
	case HSIDiv1:
		return 0, true
	case HSIDiv2:
		return 1, true
	case HSIDiv4:
		return 2, true
	case HSIDiv8:
		return 3, true
	}
	return 0, false
}

func DecodeHSIDiv(code uint32) uint32 { return 1 << (code & 3) }

// PLL divider fields hold value-1.
func encodeMinusOne(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	return v - 1
}

// Band is the PLL input reference range (PLLxRGE).
type Band uint8

const (
	Band1to2 Band = iota
	Band2to4
	Band4to8
	Band8to16
)

func (b Band) String() string {
	switch b {
	case Band1to2:
		return "1-2MHz"
	case Band2to4:
		return "2-4MHz"
	case Band4to8:
		return "4-8MHz"
	case Band8to16:
		return "8-16MHz"
	}
	return "invalid"
}

// VCOSel is the PLLxVCOSEL encoding.
type VCOSel uint8

const (
	VCOWide   VCOSel = 0
	VCOMedium VCOSel = 1
)

func (v VCOSel) String() string {
	if v == VCOMedium {
		return "medium"
	}
	return "wide"
}
