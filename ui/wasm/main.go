//go:build js && wasm
// +build js,wasm

package main

import (
	"syscall/js"

	"empirikit/protocol"
)

// Framing buffer shared by pushBytes calls, sized like the device's
var receive *protocol.ReceiveBuffer

func main() {
	receive = protocol.NewReceiveBuffer(protocol.DefaultReceiveCapacity)

	// Export functions to JavaScript
	js.Global().Set("empirikitWasm", js.ValueOf(map[string]interface{}{
		"encodeCommand": js.FuncOf(encodeCommandWrapper),
		"parseFrame":    js.FuncOf(parseFrameWrapper),
		"pushBytes":     js.FuncOf(pushBytesWrapper),
		"resetBuffer":   js.FuncOf(resetBufferWrapper),
		"version":       protocol.Version,
	}))

	// Keep the program running
	select {}
}

// encodeCommandWrapper builds a command frame
// Args: code (string), value (undefined | number | [r,g,b] | string)
// Returns: {frame: string, error: string}
func encodeCommandWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeFrameResult("", "missing code argument")
	}

	var arg protocol.Argument
	if len(args) > 1 {
		v := args[1]
		switch v.Type() {
		case js.TypeUndefined, js.TypeNull:
			arg.Kind = protocol.ArgNone
		case js.TypeNumber:
			arg = protocol.Argument{Kind: protocol.ArgInt, Int: v.Int()}
		case js.TypeString:
			arg = protocol.Argument{Kind: protocol.ArgString, Str: v.String()}
		case js.TypeObject:
			if v.Length() != 3 {
				return makeFrameResult("", "array value must have 3 elements")
			}
			arg.Kind = protocol.ArgTriple
			for i := range arg.Triple {
				arg.Triple[i] = v.Index(i).Int()
			}
		default:
			return makeFrameResult("", "unsupported value type")
		}
	}

	frame, ok := protocol.AppendCommand(nil, args[0].String(), arg)
	if !ok {
		return makeFrameResult("", "command cannot be framed")
	}
	return makeFrameResult(string(frame), "")
}

// parseFrameWrapper decodes a frame the way the device would
// Args: frame (string)
// Returns: {code, kind, value, ok}
func parseFrameWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeParseResult("", protocol.Argument{}, false)
	}

	frame := []byte(args[0].String())
	_, raw := protocol.SplitFrame(frame)
	cmd, ok := protocol.ParseCommand(frame, protocol.GuessArgKind(raw))
	return makeParseResult(cmd.Name, cmd.Arg, ok && cmd.Name != "")
}

// pushBytesWrapper appends text to the framing buffer and drains every
// complete frame, as the device does once per tick
// Args: text (string)
// Returns: {frames: [string], pending: number, overflow: bool}
func pushBytesWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makePushResult(nil, false)
	}

	overflow := !receive.Push([]byte(args[0].String()))

	var frames []interface{}
	for {
		frame, ok := receive.TryExtractFrame()
		if !ok {
			break
		}
		frames = append(frames, string(frame))
	}
	return makePushResult(frames, overflow)
}

// resetBufferWrapper discards any partial frame
func resetBufferWrapper(this js.Value, args []js.Value) interface{} {
	receive.Reset()
	return js.Undefined()
}

// Helpers to create result objects
func makeFrameResult(frame string, errMsg string) js.Value {
	result := make(map[string]interface{})
	result["frame"] = frame
	if errMsg != "" {
		result["error"] = errMsg
	}
	return js.ValueOf(result)
}

var kindNames = [...]string{
	protocol.ArgNone:   "none",
	protocol.ArgInt:    "int",
	protocol.ArgTriple: "triple",
	protocol.ArgString: "string",
}

func makeParseResult(code string, arg protocol.Argument, ok bool) js.Value {
	result := make(map[string]interface{})
	result["code"] = code
	result["ok"] = ok
	if int(arg.Kind) < len(kindNames) {
		result["kind"] = kindNames[arg.Kind]
	}

	switch arg.Kind {
	case protocol.ArgInt:
		result["value"] = arg.Int
	case protocol.ArgTriple:
		result["value"] = []interface{}{arg.Triple[0], arg.Triple[1], arg.Triple[2]}
	case protocol.ArgString:
		result["value"] = arg.Str
	}
	return js.ValueOf(result)
}

func makePushResult(frames []interface{}, overflow bool) js.Value {
	result := make(map[string]interface{})
	if frames == nil {
		frames = []interface{}{}
	}
	result["frames"] = frames
	result["pending"] = receive.Available()
	result["overflow"] = overflow
	return js.ValueOf(result)
}
