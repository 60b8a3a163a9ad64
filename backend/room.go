package backend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gitkarasune/Sketch-MQ/proto"
)

var Clock = func() time.Time { return time.Now() }

// member pairs a live session with the presence record for its
// participant. Both are created together on join and destroyed together
// on part, so membership and presence cannot drift apart.
type member struct {
	session  proto.Session
	presence *proto.Presence
}

type memRoom struct {
	sync.Mutex

	id      string
	name    string
	private bool
	owner   proto.UserID

	members map[proto.UserID]*member
}

func newMemRoom(id, name string, private bool, owner proto.UserID) *memRoom {
	return &memRoom{
		id:      id,
		name:    name,
		private: private,
		owner:   owner,
		members: map[proto.UserID]*member{},
	}
}

func (r *memRoom) ID() string { return r.id }

func (r *memRoom) View(ctx context.Context) (*proto.RoomView, error) {
	r.Lock()
	defer r.Unlock()
	return r.view(), nil
}

// view must be called with the room lock held.
func (r *memRoom) view() *proto.RoomView {
	return &proto.RoomView{
		ID:        r.id,
		Name:      r.name,
		Users:     r.listing(),
		IsPrivate: r.private,
		CreatedBy: r.owner,
	}
}

// listing must be called with the room lock held.
func (r *memRoom) listing() proto.Listing {
	listing := make(proto.Listing, 0, len(r.members))
	for _, m := range r.members {
		listing = append(listing, m.presence.IdentityView)
	}
	sort.Sort(listing)
	return listing
}

func (r *memRoom) Listing(ctx context.Context) (proto.Listing, error) {
	r.Lock()
	defer r.Unlock()
	return r.listing(), nil
}

func (r *memRoom) isEmpty() bool {
	r.Lock()
	defer r.Unlock()
	return len(r.members) == 0
}

func (r *memRoom) Join(ctx context.Context, session proto.Session) (*proto.RoomView, error) {
	r.Lock()
	defer r.Unlock()

	ident := session.Identity()
	id := ident.ID()

	// At most one session per participant per room: a later join for
	// the same user replaces the earlier session, which is closed.
	if prior, ok := r.members[id]; ok && prior.session != session {
		prior.session.Close()
	}

	view := ident.View()
	view.Color = proto.AssignColor()
	view.IsDrawing = false
	view.Cursor = nil

	r.members[id] = &member{
		session: session,
		presence: &proto.Presence{
			IdentityView:   *view,
			LastInteracted: Clock(),
		},
	}

	r.broadcast(ctx, session, proto.UserJoinedEventType,
		(*proto.UserJoinedEvent)(&r.members[id].presence.IdentityView))

	return r.view(), nil
}

func (r *memRoom) Part(ctx context.Context, session proto.Session) (bool, error) {
	r.Lock()
	defer r.Unlock()

	id := session.Identity().ID()
	m, ok := r.members[id]
	if !ok {
		return len(r.members) == 0, proto.ErrNotInRoom
	}

	// A stale part from a replaced session must not evict the
	// participant's live slot.
	if m.session != session {
		return false, nil
	}

	delete(r.members, id)
	r.broadcast(ctx, session, proto.UserLeftEventType, &proto.UserLeftEvent{UserID: id})
	return len(r.members) == 0, nil
}

func (r *memRoom) RelayDrawing(ctx context.Context, session proto.Session, event *proto.DrawingEvent) error {
	if !event.Kind.Valid() {
		return proto.ErrInvalidEvent
	}

	r.Lock()
	defer r.Unlock()

	m, ok := r.members[session.Identity().ID()]
	if !ok || m.session != session {
		return proto.ErrNotInRoom
	}

	if event.UserID == "" {
		event.UserID = session.Identity().ID()
	}
	if event.Timestamp == 0 {
		event.Timestamp = Clock().UnixNano() / int64(time.Millisecond)
	}

	m.presence.IsDrawing = event.Kind != proto.ClearKind
	m.presence.Touch(Clock())

	r.broadcast(ctx, session, proto.DrawingEventType,
		&proto.DrawingBroadcastEvent{RoomID: r.id, Event: *event})
	return nil
}

func (r *memRoom) RelayCursor(ctx context.Context, session proto.Session, x, y float64) error {
	r.Lock()
	defer r.Unlock()

	id := session.Identity().ID()
	m, ok := r.members[id]
	if !ok || m.session != session {
		return proto.ErrNotInRoom
	}

	// Last write wins, in arrival order at the registry.
	m.presence.Cursor = &proto.Cursor{X: x, Y: y}
	m.presence.Touch(Clock())

	r.broadcast(ctx, session, proto.CursorMoveEventType,
		&proto.CursorMoveEvent{UserID: id, X: x, Y: y})
	return nil
}

func (r *memRoom) Resync(ctx context.Context) error {
	r.Lock()
	defer r.Unlock()

	r.broadcast(ctx, nil, proto.UsersUpdatedEventType,
		&proto.UsersUpdatedEvent{Users: r.listing()})
	return nil
}

// broadcast enqueues payload to every member except excl. It must be
// called with the room lock held; the handoff to each recipient is
// non-blocking, so a stalled recipient cannot stall the relay.
func (r *memRoom) broadcast(ctx context.Context, excl proto.Session, ptype proto.PacketType, payload interface{}) {
	for _, m := range r.members {
		if m.session == excl {
			continue
		}
		if err := m.session.Send(ctx, ptype, payload); err != nil {
			Logger(ctx).Printf("broadcast %s to %s: %s", ptype, m.session.ID(), err)
			continue
		}
		broadcastCount.WithLabelValues(string(ptype)).Inc()
	}
}
