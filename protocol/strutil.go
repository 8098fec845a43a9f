package protocol

const hexDigits = "0123456789ABCDEF"

// AppendInt appends the decimal form of n to dst without pulling in fmt
func AppendInt(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}

	u := uint64(n)
	if n < 0 {
		dst = append(dst, '-')
		u = uint64(-int64(n))
	}

	var buf [20]byte
	pos := len(buf)
	for u > 0 {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
	}
	return append(dst, buf[pos:]...)
}

// Itoa returns the decimal form of n
func Itoa(n int) string {
	var buf [21]byte
	return string(AppendInt(buf[:0], n))
}

// AppendHex appends the uppercase hex form of data
func AppendHex(dst []byte, data []byte) []byte {
	for _, b := range data {
		dst = append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return dst
}

// AppendQuoted appends s as a JSON string literal. Only quote, backslash and
// control characters are escaped.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			dst = append(dst, '\\', c)
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0x0F])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
