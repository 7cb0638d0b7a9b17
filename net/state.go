package net

import "fmt"

// State is one of the Java Edition protocol states, each with its own
// packet-id namespace, per spec.md section 4.6 "Protocol states".
type State int

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StateConfiguration
	StateGame
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StateConfiguration:
		return "configuration"
	case StateGame:
		return "game"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transitions enumerates every state change this client's packet handlers
// are allowed to make, so an unexpected state-changing packet (or a handler
// bug) is caught immediately rather than silently misrouting the next
// frame's decode, per spec.md section 4.6 "packet interruption: a
// state-changing packet aborts decoding of the rest of that state's packet
// set".
var transitions = map[State]map[State]bool{
	StateHandshake: {StateStatus: true, StateLogin: true},
	StateLogin:     {StateConfiguration: true},
	// Configuration <-> Game via FinishConfiguration / StartConfiguration.
	StateConfiguration: {StateGame: true},
	StateGame:          {StateConfiguration: true},
}

// Machine tracks the current protocol state and validates transitions.
type Machine struct {
	current State
}

// NewMachine creates a Machine starting in StateHandshake.
func NewMachine() *Machine { return &Machine{current: StateHandshake} }

// Current returns the active state.
func (m *Machine) Current() State { return m.current }

// Transition moves the machine to next, returning an error if that edge is
// not one of the protocol's legal transitions.
func (m *Machine) Transition(next State) error {
	if next == m.current {
		return nil
	}
	if allowed, ok := transitions[m.current]; !ok || !allowed[next] {
		return fmt.Errorf("net: illegal protocol transition %s -> %s", m.current, next)
	}
	m.current = next
	return nil
}

// Disconnect resets the machine to StateHandshake. Nothing in this module
// calls it.
func (m *Machine) Disconnect() { m.current = StateHandshake }
