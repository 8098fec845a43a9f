package core

import "empirikit/protocol"

// registerCommands registers the device command set.
// Registration order is the order of the help listing.
func (e *Engine) registerCommands() {
	r := e.registry

	r.Register(protocol.CodeGetInfo, "Get hardware and firmware information, ({'GETINF':1})",
		protocol.ArgNone, e.handleGetInfo)

	if d := e.hw.Indicator.Descriptor(); d.Code != "" {
		r.Register(d.Code, d.Help, d.Arg, e.handleDisplay)
	}

	r.Register(protocol.CodeNotify, "Send state change notifications ({'NOTIFY':x}, x = 0(off) or 1(on))",
		protocol.ArgInt, e.handleNotify)
	r.Register(protocol.CodeSetRate, "Set sampling rate ({'SETRTE':x}, 1 <= x <= 100)",
		protocol.ArgInt, e.handleSetRate)
	r.Register(protocol.CodeStreamTouch, "Stream touch values ({'STRTCH':x}, x = 0(off) or 1(on))",
		protocol.ArgInt, e.handleStreamTouch)
	r.Register(protocol.CodeStreamAccel, "Stream accelerometer values ({'STRACC':x}, x = 0(off) or 1(on))",
		protocol.ArgInt, e.handleStreamAccel)
	r.Register(protocol.CodeLogAccel, "Start logging accelerometer data ({'LOGACC':1})",
		protocol.ArgNone, e.handleLogAccel)
	r.Register(protocol.CodeGetLog, "Get logged accelerometer data, ({'GETLOG':1})",
		protocol.ArgNone, e.handleGetLog)
	r.Register(protocol.CodeSetIdle, "Stop streaming and restore the default sampling rate ({'SETIDL':1})",
		protocol.ArgNone, e.handleSetIdle)
}

// handleGetInfo writes the HardwareInfo response
func (e *Engine) handleGetInfo(protocol.Argument) Effect {
	e.emit(e.out.HardwareInfo(e.hw.hardwareInfo()))
	return EffectResponse
}

func (e *Engine) handleDisplay(arg protocol.Argument) Effect {
	e.hw.Indicator.Apply(arg)
	return EffectDisplay
}

func (e *Engine) handleNotify(arg protocol.Argument) Effect {
	e.state.NotificationsEnabled = arg.Int != 0
	return EffectState
}

// handleSetRate ignores rates outside the configured bounds
func (e *Engine) handleSetRate(arg protocol.Argument) Effect {
	if !e.state.SetStreamRate(arg.Int) {
		DebugPrintln("[ENGINE] rate out of range: " + itoa(arg.Int))
		return EffectNone
	}
	return EffectState
}

func (e *Engine) handleStreamTouch(arg protocol.Argument) Effect {
	e.state.TouchStreaming = arg.Int != 0
	return EffectState
}

func (e *Engine) handleStreamAccel(arg protocol.Argument) Effect {
	e.state.AccelStreaming = arg.Int != 0
	return EffectState
}

func (e *Engine) handleLogAccel(protocol.Argument) Effect {
	e.state.Mode = ModeLogAccelRequested
	return EffectState
}

func (e *Engine) handleGetLog(protocol.Argument) Effect {
	e.state.Mode = ModeLogPlaybackRequested
	return EffectState
}

// handleSetIdle stops streaming, restores the default rate and returns to
// Idle. Notifications are left as they are.
func (e *Engine) handleSetIdle(protocol.Argument) Effect {
	e.state.Reset()
	return EffectState
}
