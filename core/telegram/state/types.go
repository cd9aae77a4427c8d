// Package state tracks per-user conversation steps, used for prompt flows
// where the next plain-text message answers a question the bot asked.
package state

import tele "gopkg.in/telebot.v4"

// State identifies a conversation step.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Manager tracks conversation state per user and dispatches messages to
// the handler registered for the user's current state.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	HasState(userID int64) bool
	ClearState(userID int64)

	// InProgress reports whether a text message should be routed to the
	// state handler instead of the normal text path.
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

var stateHandlers = map[State]tele.HandlerFunc{}

// RegisterHandler associates a state with the handler that consumes the
// user's next message while in that state.
func RegisterHandler(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	stateHandlers[st] = h
}
