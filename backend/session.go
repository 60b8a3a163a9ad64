package backend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gitkarasune/Sketch-MQ/proto"
)

var ErrUnresponsive = fmt.Errorf("connection unresponsive")

// A session owns one websocket connection: a reader goroutine feeding
// incoming, and the serve loop, which is the only writer to the socket.
// All room operations for the connection happen on the serve loop, so
// the per-connection state machine (idle/in-room) needs no locking.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   *websocket.Conn

	id       string
	identity *memIdentity
	backend  proto.Backend
	cfg      SessionConfig

	incoming chan *proto.Packet
	outgoing chan *proto.Packet

	// nil while idle; owned by the serve loop.
	room proto.Room

	outstandingPings uint32
	failed           uint32
}

func newSession(ctx context.Context, conn *websocket.Conn, b proto.Backend,
	identity *memIdentity, cfg SessionConfig) *session {

	id := uuid.NewString()
	loggingCtx := LoggingContext(ctx, fmt.Sprintf("[%s %s] ", id[:8], identity.ID()))
	cancellableCtx, cancel := context.WithCancel(loggingCtx)

	s := &session{
		ctx:      cancellableCtx,
		cancel:   cancel,
		conn:     conn,
		id:       id,
		identity: identity,
		backend:  b,
		cfg:      cfg,

		incoming: make(chan *proto.Packet),
		outgoing: make(chan *proto.Packet, 100),
	}

	conn.SetPongHandler(s.handlePong)
	return s
}

func (s *session) ID() string               { return s.id }
func (s *session) Identity() proto.Identity { return s.identity }

func (s *session) Close() { s.cancel() }

// Send enqueues a packet for the client. The handoff never blocks: a
// session whose queue has filled is marked failed and closed, so one
// stalled recipient cannot hold up a room broadcast.
func (s *session) Send(ctx context.Context, ptype proto.PacketType, payload interface{}) error {
	packet, err := proto.MakeEvent(payload)
	if err != nil {
		return err
	}
	if packet.Type != ptype {
		return fmt.Errorf("payload %T does not encode as %s", payload, ptype)
	}

	select {
	case s.outgoing <- packet:
		return nil
	default:
		droppedCount.Inc()
		if atomic.CompareAndSwapUint32(&s.failed, 0, 1) {
			Logger(s.ctx).Printf("outbound queue full, closing session")
			s.Close()
		}
		return fmt.Errorf("outbound queue full")
	}
}

func (s *session) handlePong(string) error {
	atomic.StoreUint32(&s.outstandingPings, 0)
	return nil
}

func (s *session) serve() error {
	go s.readMessages()

	logger := Logger(s.ctx)
	logger.Printf("client connected")
	sessionCount.Inc()

	defer func() {
		sessionCount.Dec()
		s.leave(false)
		logger.Printf("session finished")
	}()

	keepalive := time.NewTicker(time.Duration(s.cfg.KeepAlive))
	defer keepalive.Stop()

	for {
		select {

		case <-s.ctx.Done():
			// connection forced to close
			return s.ctx.Err()

		case <-keepalive.C:
			if pings := atomic.AddUint32(&s.outstandingPings, 1); int(pings) > s.cfg.MaxKeepAliveMisses {
				logger.Printf("connection timed out")
				return ErrUnresponsive
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}

		case cmd := <-s.incoming:
			packetCount.WithLabelValues(string(cmd.Type)).Inc()

			reply, err := s.handleCommand(cmd)
			if err != nil {
				logger.Printf("error: %s: %s", cmd.Type, err)
				errorCount.WithLabelValues(string(cmd.Type)).Inc()
				reply = failureReply(cmd.Type, err)
			}
			if reply == nil {
				continue
			}

			resp, err := proto.MakeResponse(cmd.ID, cmd.Type, reply)
			if err != nil {
				logger.Printf("error: response: %s", err)
				return err
			}

			if err := s.writePacket(resp); err != nil {
				logger.Printf("error: write reply: %s", err)
				return err
			}

		case packet := <-s.outgoing:
			if err := s.writePacket(packet); err != nil {
				logger.Printf("error: write event: %s", err)
				return err
			}
		}
	}
}

func (s *session) writePacket(packet *proto.Packet) error {
	data, err := packet.Encode()
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) readMessages() {
	logger := Logger(s.ctx)
	defer s.Close()

	for s.ctx.Err() == nil {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Printf("client disconnected")
				return
			}
			if s.ctx.Err() == nil {
				logger.Printf("error: read message: %s", err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			cmd, err := proto.ParseRequest(data)
			if err != nil {
				logger.Printf("error: parse request: %s", err)
				return
			}
			select {
			case s.incoming <- cmd:
			case <-s.ctx.Done():
				return
			}
		default:
			logger.Printf("error: unsupported message type: %v", messageType)
			return
		}
	}
}

func (s *session) handleCommand(cmd *proto.Packet) (interface{}, error) {
	payload, err := cmd.Payload()
	if err != nil {
		return nil, fmt.Errorf("payload: %s", err)
	}

	switch msg := payload.(type) {
	case *proto.CreateRoomCommand:
		room, err := s.backend.CreateRoom(s.ctx, msg.Name, msg.IsPrivate, s.identity.ID())
		if err != nil {
			return nil, err
		}
		return &proto.CreateRoomReply{Success: true, RoomID: room.ID()}, nil

	case *proto.JoinRoomCommand:
		if err := s.joinRoom(msg.RoomID); err != nil {
			return nil, err
		}
		return &proto.JoinRoomReply{Success: true}, nil

	case *proto.LeaveRoomCommand:
		if s.room == nil || s.room.ID() != msg.RoomID {
			return nil, proto.ErrNotInRoom
		}
		if err := s.leave(true); err != nil {
			return nil, err
		}
		return &proto.LeaveRoomReply{Success: true}, nil

	case *proto.DrawingCommand:
		if s.room == nil {
			return nil, proto.ErrNotInRoom
		}
		if msg.RoomID != "" && msg.RoomID != s.room.ID() {
			return nil, proto.ErrNotInRoom
		}
		if err := s.room.RelayDrawing(s.ctx, s, &msg.Event); err != nil {
			return nil, err
		}
		return &proto.DrawingReply{Success: true}, nil

	case *proto.CursorMoveCommand:
		if s.room == nil {
			return nil, proto.ErrNotInRoom
		}
		if msg.RoomID != "" && msg.RoomID != s.room.ID() {
			return nil, proto.ErrNotInRoom
		}
		if err := s.room.RelayCursor(s.ctx, s, msg.X, msg.Y); err != nil {
			return nil, err
		}
		// Cursor traffic is high-frequency and tolerates loss; no ack.
		return nil, nil

	default:
		return nil, fmt.Errorf("command type %T not implemented", payload)
	}
}

// joinRoom moves the session into the target room. A session already in
// another room leaves it first; both rooms see consistent membership at
// every step.
func (s *session) joinRoom(roomID string) error {
	target, err := s.backend.GetRoom(s.ctx, roomID)
	if err != nil {
		return err
	}

	moved := false
	if s.room != nil {
		if s.room.ID() == roomID {
			// Re-join of the current room refreshes presence below.
			s.room = nil
		} else {
			if err := s.leave(true); err != nil {
				return err
			}
			moved = true
		}
	}

	view, err := target.Join(s.ctx, s)
	if err != nil {
		return err
	}
	s.room = target

	if moved {
		target.Resync(s.ctx)
	}

	packet, err := proto.MakeEvent((*proto.RoomJoinedEvent)(view))
	if err != nil {
		return err
	}
	select {
	case s.outgoing <- packet:
	default:
		return fmt.Errorf("outbound queue full")
	}
	return nil
}

// leave runs the full departure path: part the room, resync or notify
// the remaining members, trigger reclaim of an emptied room. notify
// controls whether the client itself is told (false on disconnect,
// when the connection is already gone).
func (s *session) leave(notify bool) error {
	room := s.room
	if room == nil {
		return nil
	}
	s.room = nil

	empty, err := room.Part(s.ctx, s)
	if err != nil && err != proto.ErrNotInRoom {
		return err
	}
	if !empty {
		room.Resync(s.ctx)
	}
	s.backend.RemoveRoomIfEmpty(s.ctx, room.ID())

	if notify {
		packet, err := proto.MakeEvent(&proto.RoomLeftEvent{RoomID: room.ID()})
		if err != nil {
			return err
		}
		select {
		case s.outgoing <- packet:
		default:
		}
	}
	return nil
}

func failureReply(ptype proto.PacketType, err error) interface{} {
	switch ptype {
	case proto.CreateRoomType:
		return &proto.CreateRoomReply{Error: err.Error()}
	case proto.JoinRoomType:
		return &proto.JoinRoomReply{Error: err.Error()}
	case proto.LeaveRoomType:
		return &proto.LeaveRoomReply{Error: err.Error()}
	case proto.DrawingType:
		return &proto.DrawingReply{Error: err.Error()}
	case proto.CursorMoveType:
		return &proto.CursorMoveReply{Error: err.Error()}
	default:
		return &proto.ErrorReply{Error: err.Error()}
	}
}
