package core

import "empirikit/protocol"

// itoa converts an integer to a string without using fmt package
func itoa(n int) string {
	return protocol.Itoa(n)
}

// padInt formats n right-aligned in width columns, filled with pad.
// padInt(7, 4, '0') is "0007", padInt(7, 2, ' ') is " 7".
func padInt(n, width int, pad byte) string {
	var tmp [12]byte
	digits := protocol.AppendInt(tmp[:0], n)
	if len(digits) >= width {
		return string(digits)
	}

	buf := make([]byte, width)
	fill := width - len(digits)
	for i := 0; i < fill; i++ {
		buf[i] = pad
	}
	copy(buf[fill:], digits)

	// Zero padding goes after the sign
	if pad == '0' && n < 0 {
		buf[0] = '-'
		buf[fill] = '0'
	}
	return string(buf)
}
