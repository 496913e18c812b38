// Package conv formats register values without fmt.
package conv

const hexd = "0123456789abcdef"

// Hex32 appends v to dst as "0x" and eight lowercase, zero-padded digits.
func Hex32(dst []byte, v uint32) []byte {
	dst = append(dst, '0', 'x')
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexd[(v>>uint(shift))&0xF])
	}
	return dst
}
