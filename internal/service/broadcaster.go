package service

// Broadcaster pushes live events to clients watching an attempt. The
// websocket hub implements this; services stay transport-agnostic.
type Broadcaster interface {
	BroadcastToAttempt(attemptID string, msgType string, payload interface{})
}

// noopBroadcaster is used when no hub is wired, e.g. in tests.
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToAttempt(attemptID string, msgType string, payload interface{}) {}

// NewNoopBroadcaster returns a broadcaster that drops everything.
func NewNoopBroadcaster() Broadcaster {
	return noopBroadcaster{}
}
