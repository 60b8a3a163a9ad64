package backend

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gitkarasune/Sketch-MQ/proto"
)

func TestSendBackpressure(t *testing.T) {
	Convey("A full outbound queue fails and closes the session", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		s := &session{
			ctx:      ctx,
			cancel:   cancel,
			id:       "s-test",
			identity: newMemIdentity("u1", "u1", ""),
			outgoing: make(chan *proto.Packet, 2),
		}

		event := &proto.UserLeftEvent{UserID: "u2"}
		So(s.Send(ctx, proto.UserLeftEventType, event), ShouldBeNil)
		So(s.Send(ctx, proto.UserLeftEventType, event), ShouldBeNil)

		// queue is full; the handoff must not block
		err := s.Send(ctx, proto.UserLeftEventType, event)
		So(err, ShouldNotBeNil)
		So(s.ctx.Err(), ShouldNotBeNil)

		Convey("and a broadcast to the failed session carries on", func() {
			room := newMemRoom("r1", "test", false, "u1")
			healthy := newTestSession("s-h", "u3")
			_, err := room.Join(context.Background(), healthy)
			So(err, ShouldBeNil)

			room.Lock()
			room.members["u1"] = &member{
				session:  s,
				presence: &proto.Presence{IdentityView: proto.IdentityView{ID: "u1"}},
			}
			room.Unlock()

			So(room.RelayCursor(context.Background(), healthy, 5, 6), ShouldBeNil)
		})
	})
}

func TestSendTypeMismatch(t *testing.T) {
	Convey("Send refuses payloads that encode under another type", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := &session{
			ctx:      ctx,
			cancel:   cancel,
			outgoing: make(chan *proto.Packet, 1),
		}

		err := s.Send(ctx, proto.UserJoinedEventType, &proto.UserLeftEvent{UserID: "u2"})
		So(err, ShouldNotBeNil)
	})
}

func TestFailureReply(t *testing.T) {
	Convey("Each command type gets its own failure shape", t, func() {
		reply := failureReply(proto.CreateRoomType, proto.ErrCreationFailed)
		So(reply.(*proto.CreateRoomReply).Error, ShouldEqual, proto.ErrCreationFailed.Error())
		So(reply.(*proto.CreateRoomReply).Success, ShouldBeFalse)

		reply = failureReply(proto.JoinRoomType, proto.ErrRoomNotFound)
		So(reply.(*proto.JoinRoomReply).Error, ShouldEqual, proto.ErrRoomNotFound.Error())

		reply = failureReply(proto.LeaveRoomType, proto.ErrNotInRoom)
		So(reply.(*proto.LeaveRoomReply).Error, ShouldEqual, proto.ErrNotInRoom.Error())

		reply = failureReply(proto.CursorMoveType, proto.ErrNotInRoom)
		So(reply.(*proto.CursorMoveReply).Error, ShouldEqual, proto.ErrNotInRoom.Error())

		reply = failureReply(proto.PacketType("mystery"), proto.ErrInvalidEvent)
		So(reply.(*proto.ErrorReply).Error, ShouldEqual, proto.ErrInvalidEvent.Error())
	})
}
