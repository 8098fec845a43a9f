package protocol

// ArgKind identifies the argument encoding a command expects
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgInt
	ArgTriple
	ArgString
)

// Argument is the single value carried by a command frame
type Argument struct {
	Kind   ArgKind
	Int    int
	Triple [3]int
	Str    string
}

// ParsedCommand is a command frame split into its code and argument
type ParsedCommand struct {
	Name string
	Arg  Argument
}

// SplitFrame extracts the command code and the raw argument bytes from a
// frame. The argument excludes the trailing terminator. Frames too short to
// hold a code return an empty name.
func SplitFrame(frame []byte) (name string, raw []byte) {
	end := len(frame)
	if end > 0 && frame[end-1] == FrameTerminator {
		end--
	}
	if end < CodeOffset+CodeLength {
		return "", nil
	}
	name = string(frame[CodeOffset : CodeOffset+CodeLength])
	if end > ValueOffset {
		raw = frame[ValueOffset:end]
	}
	return name, raw
}

// ParseCommand splits a frame and decodes its argument as kind. ok is false
// when the argument could not be decoded; Name is still set in that case.
func ParseCommand(frame []byte, kind ArgKind) (cmd ParsedCommand, ok bool) {
	name, raw := SplitFrame(frame)
	cmd.Name = name
	cmd.Arg, ok = ParseArgument(kind, raw)
	return cmd, ok
}

// ParseArgument decodes raw argument bytes as the given kind
func ParseArgument(kind ArgKind, raw []byte) (Argument, bool) {
	arg := Argument{Kind: kind}
	switch kind {
	case ArgNone:
		return arg, true
	case ArgInt:
		v, _, ok := scanInt(raw, 0)
		arg.Int = v
		return arg, ok
	case ArgTriple:
		t, ok := scanTriple(raw)
		arg.Triple = t
		return arg, ok
	case ArgString:
		s, ok := scanString(raw)
		arg.Str = s
		return arg, ok
	}
	return arg, false
}

// scanInt reads an optionally signed decimal integer starting at pos,
// skipping leading whitespace. Trailing bytes are ignored.
func scanInt(s []byte, pos int) (int, int, bool) {
	pos = skipSpace(s, pos)
	if pos >= len(s) {
		return 0, pos, false
	}

	negative := false
	if s[pos] == '-' {
		negative = true
		pos++
	} else if s[pos] == '+' {
		pos++
	}

	start := pos
	value := int64(0)
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		value = value*10 + int64(s[pos]-'0')
		if value > 1<<31 {
			return 0, pos, false
		}
		pos++
	}
	if pos == start {
		return 0, pos, false
	}

	if negative {
		value = -value
	}
	if value > 1<<31-1 {
		return 0, pos, false
	}
	return int(value), pos, true
}

// scanTriple accepts both "[r,g,b]" and "r,g,b"
func scanTriple(s []byte) ([3]int, bool) {
	var t [3]int
	pos := skipSpace(s, 0)
	if pos < len(s) && s[pos] == '[' {
		pos++
	}
	for i := range t {
		if i > 0 {
			pos = skipSpace(s, pos)
			if pos >= len(s) || s[pos] != ',' {
				return t, false
			}
			pos++
		}
		v, next, ok := scanInt(s, pos)
		if !ok {
			return t, false
		}
		t[i] = v
		pos = next
	}
	return t, true
}

// scanString accepts a single- or double-quoted string. An unterminated
// quote takes the rest of the argument; an unquoted argument is taken as-is.
func scanString(s []byte) (string, bool) {
	pos := skipSpace(s, 0)
	if pos >= len(s) {
		return "", false
	}
	quote := s[pos]
	if quote != '"' && quote != '\'' {
		return string(s[pos:]), true
	}
	pos++
	for end := pos; end < len(s); end++ {
		if s[end] == quote {
			return string(s[pos:end]), true
		}
	}
	return string(s[pos:]), true
}

func skipSpace(s []byte, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\r' || s[pos] == '\n') {
		pos++
	}
	return pos
}
