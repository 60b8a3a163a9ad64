package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gitkarasune/Sketch-MQ/proto"
	"github.com/gitkarasune/Sketch-MQ/proto/snowflake"
)

// MemBackend is the in-memory room directory. The directory mutex
// covers only the room table itself; all per-room state is guarded by
// each room's own lock, so operations on distinct rooms never contend.
type MemBackend struct {
	sync.Mutex
	rooms   map[string]*memRoom
	policy  PolicyConfig
	version string
}

func NewMemBackend(version string, policy PolicyConfig) *MemBackend {
	return &MemBackend{
		rooms:   map[string]*memRoom{},
		policy:  policy,
		version: version,
	}
}

func (b *MemBackend) Version() string { return b.version }

func (b *MemBackend) Close() {}

func (b *MemBackend) CreateRoom(ctx context.Context, name string, private bool, owner proto.UserID) (
	proto.Room, error) {

	name, err := proto.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	b.Lock()
	defer b.Unlock()

	if b.policy.UniqueRoomNames {
		for _, room := range b.rooms {
			if room.name == name {
				return nil, proto.ErrRoomNameInUse
			}
		}
	}

	id, err := snowflake.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", proto.ErrCreationFailed, err)
	}

	room := newMemRoom(id.String(), name, private, owner)
	b.rooms[room.id] = room
	roomCount.Set(float64(len(b.rooms)))
	return room, nil
}

func (b *MemBackend) GetRoom(ctx context.Context, id string) (proto.Room, error) {
	b.Lock()
	defer b.Unlock()

	room, ok := b.rooms[id]
	if !ok {
		return nil, proto.ErrRoomNotFound
	}
	return room, nil
}

// RemoveRoomIfEmpty reclaims a room whose member set has emptied. With
// a grace period configured, reclaim is deferred and re-checked, so a
// participant who reconnects in time finds the room still addressable.
func (b *MemBackend) RemoveRoomIfEmpty(ctx context.Context, id string) {
	if b.policy.RoomGrace > 0 {
		time.AfterFunc(time.Duration(b.policy.RoomGrace), func() { b.reclaim(ctx, id) })
		return
	}
	b.reclaim(ctx, id)
}

func (b *MemBackend) reclaim(ctx context.Context, id string) {
	b.Lock()
	defer b.Unlock()

	room, ok := b.rooms[id]
	if !ok || !room.isEmpty() {
		return
	}
	delete(b.rooms, id)
	roomCount.Set(float64(len(b.rooms)))
	Logger(ctx).Printf("room %s reclaimed", id)
}
