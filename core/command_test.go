package core

import (
	"errors"
	"testing"

	"empirikit/protocol"
)

func TestCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()

	// Register a command
	var called bool
	handler := func(arg protocol.Argument) Effect {
		called = true
		return EffectState
	}

	id := registry.Register("TESTCM", "Test command", protocol.ArgNone, handler)

	if id != 0 {
		t.Errorf("Expected first command to have ID 0, got %d", id)
	}

	// Verify command can be retrieved
	cmd, ok := registry.Lookup("TESTCM")
	if !ok {
		t.Fatal("Failed to retrieve registered command")
	}

	if cmd.Description != "Test command" {
		t.Errorf("Expected description 'Test command', got '%s'", cmd.Description)
	}

	// Test dispatch
	effect, err := registry.Dispatch([]byte(`{"TESTCM":1}`))
	if err != nil {
		t.Errorf("Dispatch failed: %v", err)
	}
	if effect != EffectState {
		t.Errorf("Expected handler effect, got %d", effect)
	}

	if !called {
		t.Error("Command handler was not called")
	}

	// Test unknown command
	_, err = registry.Dispatch([]byte(`{"NOSUCH":1}`))
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != "NOSUCH" {
		t.Errorf("Expected CommandError for NOSUCH, got %v", err)
	}
}

func TestCommandRegistryMultiple(t *testing.T) {
	registry := NewCommandRegistry()
	nop := func(protocol.Argument) Effect { return EffectNone }

	id1 := registry.Register("CMDAAA", "first", protocol.ArgInt, nop)
	id2 := registry.Register("CMDBBB", "second", protocol.ArgInt, nop)
	id3 := registry.Register("CMDCCC", "third", protocol.ArgInt, nop)

	if id1 != 0 || id2 != 1 || id3 != 2 {
		t.Errorf("Command IDs not sequential: %d, %d, %d", id1, id2, id3)
	}

	// Duplicate registration keeps the first
	if dup := registry.Register("CMDBBB", "again", protocol.ArgNone, nop); dup != id2 {
		t.Errorf("Expected duplicate to return ID %d, got %d", id2, dup)
	}
	if registry.Count() != 3 {
		t.Errorf("Expected 3 commands, got %d", registry.Count())
	}
	if cmd, _ := registry.Lookup("CMDBBB"); cmd.Description != "second" {
		t.Errorf("Duplicate registration replaced the original: %q", cmd.Description)
	}
}

func TestCommandRegistryHelp(t *testing.T) {
	registry := NewCommandRegistry()
	nop := func(protocol.Argument) Effect { return EffectNone }

	registry.Register("GETINF", "Get info", protocol.ArgNone, nop)
	registry.Register("SETRTE", "Set rate", protocol.ArgInt, nop)

	help := registry.HelpLines()
	want := []string{HelpHeader, "GETINF => Get info", "SETRTE => Set rate", HelpTrailer}

	if len(help) != len(want) {
		t.Fatalf("Expected %d help lines, got %d: %v", len(want), len(help), help)
	}
	for i := range want {
		if help[i] != want[i] {
			t.Errorf("Help line %d: expected %q, got %q", i, want[i], help[i])
		}
	}
}

func TestCommandWithArguments(t *testing.T) {
	registry := NewCommandRegistry()

	var received [3]int
	handler := func(arg protocol.Argument) Effect {
		received = arg.Triple
		return EffectDisplay
	}

	registry.Register("SETRGB", "Set color", protocol.ArgTriple, handler)

	if _, err := registry.Dispatch([]byte(`{"SETRGB":[12,34,56]}`)); err != nil {
		t.Errorf("Dispatch failed: %v", err)
	}
	if received != [3]int{12, 34, 56} {
		t.Errorf("Expected [12 34 56], got %v", received)
	}

	received = [3]int{}
	_, err := registry.Dispatch([]byte(`{"SETRGB":red}`))
	if !errors.Is(err, ErrMalformedArgument) {
		t.Errorf("Expected ErrMalformedArgument, got %v", err)
	}
	if received != [3]int{} {
		t.Error("Handler must not run for a malformed argument")
	}
}
