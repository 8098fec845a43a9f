package link

// SplitObjects is a bufio.SplitFunc yielding one top-level JSON object per
// token. The device writes objects back to back, sometimes separated by a
// newline and split across arbitrary packet boundaries. Bytes outside an
// object are skipped.
func SplitObjects(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := -1
	for i, c := range data {
		if c == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return len(data), nil, nil
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, data[start : i+1], nil
			}
		}
	}

	// Incomplete object: drop leading junk and wait for more
	return start, nil, nil
}
