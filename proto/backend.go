package proto

import "context"

// A Backend is the room directory: it allocates, finds, and reclaims
// rooms. Implementations must be safe for concurrent use by many
// connection workers.
type Backend interface {
	// CreateRoom allocates a fresh room id, stores the room record, and
	// returns the live room. The caller's own membership is unchanged.
	CreateRoom(ctx context.Context, name string, private bool, owner UserID) (Room, error)

	// GetRoom looks up a room by id, returning ErrRoomNotFound if no
	// such room exists.
	GetRoom(ctx context.Context, id string) (Room, error)

	// RemoveRoomIfEmpty reclaims the room's record once its member set
	// is empty. Side effect only; a no-op for absent or occupied rooms.
	RemoveRoomIfEmpty(ctx context.Context, id string)

	// Version returns the version of the server hosting this directory.
	Version() string

	Close()
}
