package proto

import (
	"context"
)

// A Listing is a sortable list of the IdentityViews present in a Room.
type Listing []IdentityView

func (l Listing) Len() int           { return len(l) }
func (l Listing) Less(i, j int) bool { return l[i].ID < l[j].ID }
func (l Listing) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }

// A RoomView is the wire representation of a room, as delivered to a
// joining connection.
type RoomView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Users     Listing `json:"users"`
	IsPrivate bool    `json:"isPrivate"`
	CreatedBy UserID  `json:"createdBy"`
}

// A Room groups connected participants and relays their traffic. Users
// connect to a Room via Session and interact.
//
// Membership and presence for a room are updated together under the
// room's own lock; operations on distinct rooms never contend.
type Room interface {
	// ID returns the room's unique identifier.
	ID() string

	// View captures the room's current wire representation, including
	// its member listing.
	View(ctx context.Context) (*RoomView, error)

	// Join inserts a Session into the Room's presence, assigns the
	// participant a color, and announces the arrival to other members.
	// The returned view is the snapshot the joiner should observe,
	// consistent with all joins and parts that completed before it.
	Join(ctx context.Context, session Session) (*RoomView, error)

	// Part removes a Session from the Room's presence and announces the
	// departure. It reports whether the room is now empty.
	Part(ctx context.Context, session Session) (empty bool, err error)

	// RelayDrawing broadcasts a drawing event from a Session to every
	// other member, stamping originator and timestamp if unset.
	RelayDrawing(ctx context.Context, session Session, event *DrawingEvent) error

	// RelayCursor records a cursor position for a Session's participant
	// and broadcasts it to every other member. Last write wins, in
	// arrival order.
	RelayCursor(ctx context.Context, session Session, x, y float64) error

	// Listing returns the current list of participants in the Room.
	Listing(ctx context.Context) (Listing, error)

	// Resync broadcasts a full member listing to every member, used
	// after bulk membership changes.
	Resync(ctx context.Context) error
}
