package discord

// State tracks the bot's asynchronous login lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateLoggingIn
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoggingIn:
		return "logging_in"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
