package chat

// ConnState is the supervisor's connection lifecycle state. There is
// exactly one per supervisor and only its own goroutines move it.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateAuthenticating
	StateOnline
	StateRetrying
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateOnline:
		return "online"
	case StateRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}
