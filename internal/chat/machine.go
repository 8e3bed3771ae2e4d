package chat

import "fmt"

// State is a read loop state.
type State int

const (
	StateConnected State = iota
	StateAwaitingLine
	StateDispatching
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAwaitingLine:
		return "awaiting_line"
	case StateDispatching:
		return "dispatching"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action tells the read loop what to do with the line it just fed in.
type Action int

const (
	// ActionSkip ignores the line.
	ActionSkip Action = iota
	// ActionPong answers a keep-alive.
	ActionPong
	// ActionDispatch hands the chat frame to the dispatcher.
	ActionDispatch
	// ActionReconnect abandons the connection.
	ActionReconnect
)

// StopReason explains why a Machine reached StateStopped.
type StopReason int

const (
	StopNone StopReason = iota
	// StopDisconnected means the transport went away; the caller reconnects.
	StopDisconnected
	// StopRequested means a handler asked the bot to shut down.
	StopRequested
)

// Machine tracks the read loop for one connection. AwaitingLine is the only
// state in which the loop blocks.
//
// Invariant: once Stopped, no input changes the state.
type Machine struct {
	state  State
	reason StopReason
}

// NewMachine returns a machine in StateConnected.
func NewMachine() *Machine {
	return &Machine{state: StateConnected}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Reason returns why the machine stopped, or StopNone.
func (m *Machine) Reason() StopReason { return m.reason }

// Begin moves a fresh connection to AwaitingLine.
func (m *Machine) Begin() {
	if m.state == StateConnected {
		m.state = StateAwaitingLine
	}
}

// Feed applies one unwrapped frame received while awaiting a line.
//
// Postcondition: Disconnect frames stop the machine with StopDisconnected;
// chat frames move it to Dispatching; anything else keeps it awaiting.
func (m *Machine) Feed(f Frame) Action {
	if m.state != StateAwaitingLine {
		return ActionSkip
	}
	switch f.Kind {
	case FrameDisconnect:
		m.stop(StopDisconnected)
		return ActionReconnect
	case FramePing:
		return ActionPong
	case FramePrivmsg:
		m.state = StateDispatching
		return ActionDispatch
	default:
		return ActionSkip
	}
}

// Dispatched completes a dispatch. stop reports whether the handler asked
// the bot to shut down.
func (m *Machine) Dispatched(stop bool) {
	if m.state != StateDispatching {
		return
	}
	if stop {
		m.stop(StopRequested)
		return
	}
	m.state = StateAwaitingLine
}

// Cancel stops the machine on external request.
func (m *Machine) Cancel() {
	if m.state != StateStopped {
		m.stop(StopRequested)
	}
}

func (m *Machine) stop(r StopReason) {
	m.state = StateStopped
	m.reason = r
}
