// Package psql wires an optional PostgreSQL store behind the room
// directory. The store is notified of room lifecycle and join/part
// activity; relay correctness never depends on it, and store errors
// degrade to logged warnings.
package psql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/lib/pq"
	"gopkg.in/gorp.v1"

	"github.com/gitkarasune/Sketch-MQ/backend"
	"github.com/gitkarasune/Sketch-MQ/proto"
)

var logger = backend.Logger

var schema = []struct {
	Name       string
	Table      interface{}
	PrimaryKey []string
}{
	{"room", Room{}, []string{"id"}},
	{"session_log", SessionLog{}, []string{"session_id", "room_id"}},
}

type Room struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	FoundedBy string      `db:"founded_by"`
	Private   bool        `db:"private"`
	Created   time.Time   `db:"created"`
	Reclaimed pq.NullTime `db:"reclaimed"`
}

type SessionLog struct {
	SessionID string      `db:"session_id"`
	RoomID    string      `db:"room_id"`
	UserID    string      `db:"user_id"`
	Joined    time.Time   `db:"joined"`
	Parted    pq.NullTime `db:"parted"`
}

// Backend decorates an in-memory room directory with durable records.
type Backend struct {
	*sql.DB
	DbMap *gorp.DbMap

	inner proto.Backend
	tag   *log.Logger
}

func NewBackend(dsn string, inner proto.Backend) (*Backend, error) {
	logTag := dsn
	if parsed, err := url.Parse(dsn); err == nil && parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "xxxxxx")
		logTag = parsed.String()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	dbMap := &gorp.DbMap{Db: db, Dialect: gorp.PostgresDialect{}}
	for _, item := range schema {
		dbMap.AddTableWithName(item.Table, item.Name).SetKeys(false, item.PrimaryKey...)
	}
	if err := dbMap.CreateTablesIfNotExists(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	b := &Backend{
		DB:    db,
		DbMap: dbMap,
		inner: inner,
		tag:   log.New(os.Stdout, fmt.Sprintf("[psql %s] ", logTag), log.LstdFlags),
	}
	return b, nil
}

func (b *Backend) Version() string { return b.inner.Version() }

func (b *Backend) Close() {
	b.inner.Close()
	if err := b.DB.Close(); err != nil {
		b.tag.Printf("close: %s", err)
	}
}

func (b *Backend) CreateRoom(ctx context.Context, name string, private bool, owner proto.UserID) (
	proto.Room, error) {

	room, err := b.inner.CreateRoom(ctx, name, private, owner)
	if err != nil {
		return nil, err
	}

	record := &Room{
		ID:        room.ID(),
		Name:      name,
		FoundedBy: owner.String(),
		Private:   private,
		Created:   time.Now(),
	}
	if err := b.DbMap.Insert(record); err != nil {
		logger(ctx).Printf("room %s not recorded: %s", room.ID(), err)
	}

	return b.bind(room), nil
}

func (b *Backend) GetRoom(ctx context.Context, id string) (proto.Room, error) {
	room, err := b.inner.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.bind(room), nil
}

func (b *Backend) RemoveRoomIfEmpty(ctx context.Context, id string) {
	b.inner.RemoveRoomIfEmpty(ctx, id)

	// Only mark the record once the live directory has let go of the
	// room. With a grace period configured this lags the sweep; the
	// store is advisory and tolerates that.
	if _, err := b.inner.GetRoom(ctx, id); err != proto.ErrRoomNotFound {
		return
	}
	_, err := b.DbMap.Exec(
		"UPDATE room SET reclaimed = $1 WHERE id = $2 AND reclaimed IS NULL",
		time.Now(), id)
	if err != nil {
		logger(ctx).Printf("room %s reclaim not recorded: %s", id, err)
	}
}

func (b *Backend) bind(room proto.Room) proto.Room {
	return &roomBinding{Room: room, b: b}
}

// roomBinding passes every operation through to the live room while
// recording join/part activity in the session log.
type roomBinding struct {
	proto.Room
	b *Backend
}

func (rb *roomBinding) Join(ctx context.Context, session proto.Session) (*proto.RoomView, error) {
	view, err := rb.Room.Join(ctx, session)
	if err != nil {
		return nil, err
	}

	entry := &SessionLog{
		SessionID: session.ID(),
		RoomID:    rb.Room.ID(),
		UserID:    session.Identity().ID().String(),
		Joined:    time.Now(),
	}
	if err := rb.b.DbMap.Insert(entry); err != nil {
		logger(ctx).Printf("join of %s not recorded: %s", session.ID(), err)
	}

	return view, nil
}

func (rb *roomBinding) Part(ctx context.Context, session proto.Session) (bool, error) {
	empty, err := rb.Room.Part(ctx, session)
	if err != nil {
		return empty, err
	}

	_, dbErr := rb.b.DbMap.Exec(
		"UPDATE session_log SET parted = $1 WHERE session_id = $2 AND room_id = $3 AND parted IS NULL",
		time.Now(), session.ID(), rb.Room.ID())
	if dbErr != nil {
		logger(ctx).Printf("part of %s not recorded: %s", session.ID(), dbErr)
	}

	return empty, nil
}

var _ proto.Backend = (*Backend)(nil)
