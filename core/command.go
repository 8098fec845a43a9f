package core

import (
	"errors"
	"sync"

	"empirikit/protocol"
)

var (
	// ErrUnknownCommand is returned for a frame whose code is not registered
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformedArgument is returned when a frame's argument cannot be decoded
	ErrMalformedArgument = errors.New("malformed argument")
)

// CommandError carries the code of the frame that failed
type CommandError struct {
	Code string
	Err  error
}

func (e *CommandError) Error() string {
	return e.Err.Error() + ": " + e.Code
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Effect reports what a dispatched command did
type Effect uint8

const (
	EffectNone     Effect = iota // Nothing changed
	EffectState                  // DeviceState or mode changed
	EffectDisplay                // Forwarded to the indicator
	EffectResponse               // A response was written immediately
	EffectHelp                   // Unknown code, help listing written
)

// CommandHandler applies a decoded argument. It must not block.
type CommandHandler func(arg protocol.Argument) Effect

// Command is one registered command code
type Command struct {
	ID          int
	Code        string
	Description string
	Arg         protocol.ArgKind
	Handler     CommandHandler
}

// Help header and trailer around the per-command lines
const (
	HelpHeader  = "CMD => Description"
	HelpTrailer = "Visit www.empirikit.com for more information."
)

// CommandRegistry holds the commands a device understands, in registration
// order. The order is the order of the help listing.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands []*Command
	byCode   map[string]int
	help     []string
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		byCode: make(map[string]int),
	}
}

// Register adds a command. Registering a code twice keeps the first
// registration and returns its ID.
func (r *CommandRegistry) Register(code, description string, arg protocol.ArgKind, handler CommandHandler) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.byCode[code]; exists {
		return id
	}

	id := len(r.commands)
	r.commands = append(r.commands, &Command{
		ID:          id,
		Code:        code,
		Description: description,
		Arg:         arg,
		Handler:     handler,
	})
	r.byCode[code] = id

	r.rebuildHelp()
	return id
}

// Lookup finds a command by code
func (r *CommandRegistry) Lookup(code string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// HelpLines returns the help listing: header, one line per command, trailer
func (r *CommandRegistry) HelpLines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.help
}

// Dispatch decodes frame and calls its handler.
// An unregistered code returns ErrUnknownCommand. An argument that cannot be
// decoded returns ErrMalformedArgument and the handler is not called.
func (r *CommandRegistry) Dispatch(frame []byte) (Effect, error) {
	code, raw := protocol.SplitFrame(frame)
	cmd, ok := r.Lookup(code)
	if !ok {
		return EffectNone, &CommandError{Code: code, Err: ErrUnknownCommand}
	}

	arg, ok := protocol.ParseArgument(cmd.Arg, raw)
	if !ok {
		return EffectNone, &CommandError{Code: code, Err: ErrMalformedArgument}
	}

	return cmd.Handler(arg), nil
}

// rebuildHelp rebuilds the help listing
// Must be called with lock held
func (r *CommandRegistry) rebuildHelp() {
	help := make([]string, 0, len(r.commands)+2)
	help = append(help, HelpHeader)
	for _, cmd := range r.commands {
		help = append(help, cmd.Code+" => "+cmd.Description)
	}
	r.help = append(help, HelpTrailer)
}
