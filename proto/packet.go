package proto

import (
	"encoding/json"
	"fmt"
)

type PacketType string

func (t PacketType) Reply() PacketType { return t + "-reply" }

var (
	// Client commands. Each receives a correlated "-reply" packet.
	CreateRoomType = PacketType("create-room")
	JoinRoomType   = PacketType("join-room")
	LeaveRoomType  = PacketType("leave-room")
	DrawingType    = PacketType("drawing-event")
	CursorMoveType = PacketType("cursor-move")

	CreateRoomReplyType = CreateRoomType.Reply()
	JoinRoomReplyType   = JoinRoomType.Reply()
	LeaveRoomReplyType  = LeaveRoomType.Reply()
	DrawingReplyType    = DrawingType.Reply()
	CursorMoveReplyType = CursorMoveType.Reply()

	// Server events. Names are fixed by the client protocol.
	RoomJoinedEventType   = PacketType("room-joined")
	RoomLeftEventType     = PacketType("room-left")
	UserJoinedEventType   = PacketType("user-joined")
	UserLeftEventType     = PacketType("user-left")
	DrawingEventType      = PacketType("drawing-event")
	CursorMoveEventType   = PacketType("cursor-move")
	UsersUpdatedEventType = PacketType("users-updated")
)

type ErrorReply struct {
	Error string `json:"error"`
}

type CreateRoomCommand struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
	CreatedBy UserID `json:"createdBy"`
}

type CreateRoomReply struct {
	Success bool   `json:"success"`
	RoomID  string `json:"roomId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JoinRoomCommand carries a client-supplied user view for protocol
// compatibility. The server derives the participant from the handshake
// identity and assigns the color itself; the submitted view is ignored.
type JoinRoomCommand struct {
	RoomID string        `json:"roomId"`
	User   *IdentityView `json:"user,omitempty"`
}

type JoinRoomReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type LeaveRoomCommand struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomReply JoinRoomReply

// DrawingCommand is both the inbound command and the broadcast event;
// the wire shape is identical in both directions.
type DrawingCommand struct {
	RoomID string       `json:"roomId"`
	Event  DrawingEvent `json:"event"`
}

type DrawingReply JoinRoomReply

// CursorMoveCommand shares its wire shape with the broadcast event:
// roomId is set inbound, userId outbound.
type CursorMoveCommand struct {
	RoomID string  `json:"roomId,omitempty"`
	UserID UserID  `json:"userId,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type CursorMoveReply JoinRoomReply

type RoomJoinedEvent RoomView

type RoomLeftEvent struct {
	RoomID string `json:"roomId"`
}

type UserJoinedEvent IdentityView

type UserLeftEvent struct {
	UserID UserID `json:"userId"`
}

type DrawingBroadcastEvent DrawingCommand

type CursorMoveEvent CursorMoveCommand

type UsersUpdatedEvent struct {
	Users Listing `json:"users"`
}

// A Packet is the envelope for every message on the wire. ID correlates
// a command with its reply and is absent on server-initiated events.
type Packet struct {
	ID   string          `json:"id,omitempty"`
	Type PacketType      `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (cmd *Packet) Payload() (interface{}, error) {
	var payload interface{}

	switch cmd.Type {
	case CreateRoomType:
		payload = &CreateRoomCommand{}
	case CreateRoomReplyType:
		payload = &CreateRoomReply{}
	case JoinRoomType:
		payload = &JoinRoomCommand{}
	case JoinRoomReplyType:
		payload = &JoinRoomReply{}
	case LeaveRoomType:
		payload = &LeaveRoomCommand{}
	case LeaveRoomReplyType:
		payload = &LeaveRoomReply{}
	case DrawingType:
		// Same wire name inbound and outbound; both decode to the
		// command shape.
		payload = &DrawingCommand{}
	case DrawingReplyType:
		payload = &DrawingReply{}
	case CursorMoveType:
		// Same wire name inbound and outbound; both decode to the
		// command shape.
		payload = &CursorMoveCommand{}
	case CursorMoveReplyType:
		payload = &CursorMoveReply{}
	case RoomJoinedEventType:
		payload = &RoomJoinedEvent{}
	case RoomLeftEventType:
		payload = &RoomLeftEvent{}
	case UserJoinedEventType:
		payload = &UserJoinedEvent{}
	case UserLeftEventType:
		payload = &UserLeftEvent{}
	case UsersUpdatedEventType:
		payload = &UsersUpdatedEvent{}
	default:
		return nil, fmt.Errorf("invalid packet type: %s", cmd.Type)
	}

	if err := json.Unmarshal(cmd.Data, payload); err != nil {
		return nil, err
	}

	return payload, nil
}

func (cmd *Packet) Encode() ([]byte, error) { return json.Marshal(cmd) }

// MakeResponse builds the reply packet for a command, carrying the
// command's correlation id.
func MakeResponse(refID string, msgType PacketType, payload interface{}) (*Packet, error) {
	packet := &Packet{
		ID:   refID,
		Type: msgType.Reply(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	packet.Data = data
	return packet, nil
}

// MakeEvent builds a server-initiated packet from an event payload.
func MakeEvent(payload interface{}) (*Packet, error) {
	packet := &Packet{}
	switch payload.(type) {
	case *RoomJoinedEvent:
		packet.Type = RoomJoinedEventType
	case *RoomLeftEvent:
		packet.Type = RoomLeftEventType
	case *UserJoinedEvent:
		packet.Type = UserJoinedEventType
	case *UserLeftEvent:
		packet.Type = UserLeftEventType
	case *DrawingBroadcastEvent:
		packet.Type = DrawingEventType
	case *CursorMoveEvent:
		packet.Type = CursorMoveEventType
	case *UsersUpdatedEvent:
		packet.Type = UsersUpdatedEventType
	default:
		return nil, fmt.Errorf("don't know how to make event from %T", payload)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	packet.Data = data
	return packet, nil
}

func ParseRequest(data []byte) (*Packet, error) {
	cmd := &Packet{}
	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}
