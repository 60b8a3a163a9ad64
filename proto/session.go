package proto

import "context"

// A Session is a connection between a client and the session layer. A
// session belongs to at most one room at a time; a session with no room
// is idle.
type Session interface {
	// ID returns the globally unique identifier for the Session.
	ID() string

	// Identity returns the handshake Identity bound to the Session.
	Identity() Identity

	// Send enqueues a packet for delivery to the Session's client. The
	// handoff is non-blocking; a session whose outbound queue is full
	// is forced closed rather than allowed to stall the caller.
	Send(ctx context.Context, ptype PacketType, payload interface{}) error

	// Close terminates the Session and disconnects the client.
	Close()
}
