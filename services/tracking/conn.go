package tracking

// Conn is a participant connection as seen by the registry and the relay.
// Send must not block; it reports false when the message was dropped.
type Conn interface {
	ID() string
	Send(event string, data interface{}) bool
}
