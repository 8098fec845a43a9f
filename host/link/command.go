package link

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"empirikit/protocol"
)

// ErrBadCommand is returned for frames the device could not parse
var ErrBadCommand = errors.New("link: command cannot be framed")

// EncodeCommand builds one command frame such as {"SETRTE":50}.
//
// arg may be nil (sent as 1), an int, a [3]int or a string. The device ends
// a frame at the first '}' and reads strings up to the next quote, so
// strings containing either are rejected.
func EncodeCommand(code string, arg any) ([]byte, error) {
	if len(code) != protocol.CodeLength {
		return nil, fmt.Errorf("%w: code %q must be %d characters", ErrBadCommand, code, protocol.CodeLength)
	}

	var a protocol.Argument
	switch v := arg.(type) {
	case nil:
		a.Kind = protocol.ArgNone
	case int:
		a = protocol.Argument{Kind: protocol.ArgInt, Int: v}
	case [3]int:
		a = protocol.Argument{Kind: protocol.ArgTriple, Triple: v}
	case string:
		a = protocol.Argument{Kind: protocol.ArgString, Str: v}
	default:
		return nil, fmt.Errorf("%w: unsupported argument type %T", ErrBadCommand, arg)
	}

	frame, ok := protocol.AppendCommand(nil, code, a)
	if !ok {
		return nil, fmt.Errorf("%w: string argument %q contains a quote or brace", ErrBadCommand, a.Str)
	}
	return frame, nil
}

// ParseArg turns a command-line argument into an EncodeCommand value:
// "" is nil, "1,2,3" is a triple, a decimal is an int, anything else a string
func ParseArg(s string) any {
	if s == "" {
		return nil
	}
	if parts := strings.Split(s, ","); len(parts) == 3 {
		var t [3]int
		ok := true
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				ok = false
				break
			}
			t[i] = n
		}
		if ok {
			return t
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
