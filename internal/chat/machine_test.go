package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/totorewa/folderbot/internal/chat"
)

func TestMachine_Lifecycle(t *testing.T) {
	m := chat.NewMachine()
	assert.Equal(t, chat.StateConnected, m.State())

	assert.Equal(t, chat.ActionSkip, m.Feed(chat.Frame{Kind: chat.FramePrivmsg}), "not awaiting before Begin")

	m.Begin()
	assert.Equal(t, chat.StateAwaitingLine, m.State())

	assert.Equal(t, chat.ActionPong, m.Feed(chat.Frame{Kind: chat.FramePing}))
	assert.Equal(t, chat.StateAwaitingLine, m.State())

	assert.Equal(t, chat.ActionSkip, m.Feed(chat.Frame{Kind: chat.FrameOther}))
	assert.Equal(t, chat.StateAwaitingLine, m.State())

	assert.Equal(t, chat.ActionDispatch, m.Feed(chat.Frame{Kind: chat.FramePrivmsg, User: "a", Message: "!hi"}))
	assert.Equal(t, chat.StateDispatching, m.State())

	m.Dispatched(false)
	assert.Equal(t, chat.StateAwaitingLine, m.State())
	assert.Equal(t, chat.StopNone, m.Reason())
}

func TestMachine_Disconnect(t *testing.T) {
	m := chat.NewMachine()
	m.Begin()
	assert.Equal(t, chat.ActionReconnect, m.Feed(chat.Frame{Kind: chat.FrameDisconnect}))
	assert.Equal(t, chat.StateStopped, m.State())
	assert.Equal(t, chat.StopDisconnected, m.Reason())
}

func TestMachine_StopRequested(t *testing.T) {
	m := chat.NewMachine()
	m.Begin()
	m.Feed(chat.Frame{Kind: chat.FramePrivmsg})
	m.Dispatched(true)
	assert.Equal(t, chat.StateStopped, m.State())
	assert.Equal(t, chat.StopRequested, m.Reason())
}

func TestMachine_Cancel(t *testing.T) {
	m := chat.NewMachine()
	m.Begin()
	m.Cancel()
	assert.Equal(t, chat.StateStopped, m.State())
	assert.Equal(t, chat.StopRequested, m.Reason())
}

// Property: once stopped, no sequence of inputs leaves StateStopped or
// changes the reason.
func TestPropertyMachineStopIsTerminal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := chat.NewMachine()
		m.Begin()
		var reason chat.StopReason
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				m.Feed(chat.Frame{Kind: chat.FrameKind(rapid.IntRange(0, 3).Draw(t, "kind"))})
			case 1:
				m.Dispatched(rapid.Bool().Draw(t, "stop"))
			case 2:
				m.Begin()
			case 3:
				if rapid.IntRange(0, 9).Draw(t, "cancel") == 0 {
					m.Cancel()
				}
			}
			if reason != chat.StopNone {
				if m.State() != chat.StateStopped || m.Reason() != reason {
					t.Fatalf("left stopped state: %v %v", m.State(), m.Reason())
				}
			}
			if m.State() == chat.StateStopped {
				reason = m.Reason()
			}
		}
	})
}
