package backend

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gitkarasune/Sketch-MQ/proto"
)

func TestMemBackendDirectory(t *testing.T) {
	ctx := context.Background()

	Convey("Create and look up", t, func() {
		b := NewMemBackend("test", PolicyConfig{})

		room, err := b.CreateRoom(ctx, "Team Sync", false, "owner")
		So(err, ShouldBeNil)
		So(room.ID(), ShouldNotBeEmpty)

		found, err := b.GetRoom(ctx, room.ID())
		So(err, ShouldBeNil)
		So(found.ID(), ShouldEqual, room.ID())

		view, err := found.View(ctx)
		So(err, ShouldBeNil)
		So(view.Name, ShouldEqual, "Team Sync")
		So(view.CreatedBy, ShouldEqual, proto.UserID("owner"))
		So(view.IsPrivate, ShouldBeFalse)

		_, err = b.GetRoom(ctx, "no-such-room")
		So(err, ShouldEqual, proto.ErrRoomNotFound)
	})

	Convey("Ids are unique, names may collide by default", t, func() {
		b := NewMemBackend("test", PolicyConfig{})

		first, err := b.CreateRoom(ctx, "X", true, "owner")
		So(err, ShouldBeNil)
		second, err := b.CreateRoom(ctx, "X", true, "owner")
		So(err, ShouldBeNil)
		So(first.ID(), ShouldNotEqual, second.ID())
	})

	Convey("Unique-name policy rejects collisions", t, func() {
		b := NewMemBackend("test", PolicyConfig{UniqueRoomNames: true})

		_, err := b.CreateRoom(ctx, "X", false, "owner")
		So(err, ShouldBeNil)
		_, err = b.CreateRoom(ctx, "X", false, "other")
		So(err, ShouldEqual, proto.ErrRoomNameInUse)
	})

	Convey("Invalid room names are rejected", t, func() {
		b := NewMemBackend("test", PolicyConfig{})
		_, err := b.CreateRoom(ctx, "   ", false, "owner")
		So(err, ShouldEqual, proto.ErrInvalidName)
	})

	Convey("Emptied rooms are reclaimed", t, func() {
		b := NewMemBackend("test", PolicyConfig{})

		room, err := b.CreateRoom(ctx, "ephemeral", false, "owner")
		So(err, ShouldBeNil)

		user := newTestSession("s-1", "u1")
		_, err = room.Join(ctx, user)
		So(err, ShouldBeNil)

		// occupied rooms survive a reclaim attempt
		b.RemoveRoomIfEmpty(ctx, room.ID())
		_, err = b.GetRoom(ctx, room.ID())
		So(err, ShouldBeNil)

		empty, err := room.Part(ctx, user)
		So(err, ShouldBeNil)
		So(empty, ShouldBeTrue)

		b.RemoveRoomIfEmpty(ctx, room.ID())
		_, err = b.GetRoom(ctx, room.ID())
		So(err, ShouldEqual, proto.ErrRoomNotFound)
	})

	Convey("Grace period defers reclaim", t, func() {
		b := NewMemBackend("test", PolicyConfig{RoomGrace: Duration(20 * time.Millisecond)})

		room, err := b.CreateRoom(ctx, "sticky", false, "owner")
		So(err, ShouldBeNil)

		user := newTestSession("s-1", "u1")
		_, err = room.Join(ctx, user)
		So(err, ShouldBeNil)
		_, err = room.Part(ctx, user)
		So(err, ShouldBeNil)

		b.RemoveRoomIfEmpty(ctx, room.ID())

		Convey("the room remains addressable within the grace window", func() {
			_, err := b.GetRoom(ctx, room.ID())
			So(err, ShouldBeNil)
		})

		Convey("a rejoin during grace cancels the reclaim", func() {
			_, err := room.Join(ctx, user)
			So(err, ShouldBeNil)

			time.Sleep(60 * time.Millisecond)
			_, err = b.GetRoom(ctx, room.ID())
			So(err, ShouldBeNil)
		})

		Convey("an unclaimed room is swept after the window", func() {
			time.Sleep(60 * time.Millisecond)
			_, err := b.GetRoom(ctx, room.ID())
			So(err, ShouldEqual, proto.ErrRoomNotFound)
		})
	})
}
