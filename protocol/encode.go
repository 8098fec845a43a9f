package protocol

// AppendCommand appends the frame for code and arg, such as {"SETRTE":50}.
// ArgNone is sent as 1. ok is false when code is not CodeLength bytes or a
// string argument holds a quote or a terminator, since the device could not
// frame it.
func AppendCommand(dst []byte, code string, arg Argument) (out []byte, ok bool) {
	if len(code) != CodeLength {
		return dst, false
	}

	dst = append(dst, '{', '"')
	dst = append(dst, code...)
	dst = append(dst, '"', ':')

	switch arg.Kind {
	case ArgNone:
		dst = append(dst, '1')
	case ArgInt:
		dst = AppendInt(dst, arg.Int)
	case ArgTriple:
		dst = append(dst, '[')
		for i, v := range arg.Triple {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendInt(dst, v)
		}
		dst = append(dst, ']')
	case ArgString:
		for i := 0; i < len(arg.Str); i++ {
			if arg.Str[i] == '"' || arg.Str[i] == FrameTerminator {
				return dst, false
			}
		}
		dst = append(dst, '"')
		dst = append(dst, arg.Str...)
		dst = append(dst, '"')
	default:
		return dst, false
	}

	return append(dst, FrameTerminator), true
}

// GuessArgKind picks the decoding for a raw argument from its shape: quoted
// text is a string, a comma marks a triple, anything else an integer
func GuessArgKind(raw []byte) ArgKind {
	pos := skipSpace(raw, 0)
	if pos >= len(raw) {
		return ArgNone
	}
	if raw[pos] == '"' || raw[pos] == '\'' {
		return ArgString
	}
	for _, c := range raw {
		if c == ',' {
			return ArgTriple
		}
	}
	return ArgInt
}
