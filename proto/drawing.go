package proto

import "encoding/json"

// DrawingKind distinguishes the operations a client can apply to the
// shared surface. The payload under each kind is opaque to the relay.
type DrawingKind string

const (
	StrokeKind DrawingKind = "stroke"
	EraseKind  DrawingKind = "erase"
	ClearKind  DrawingKind = "clear"
)

func (k DrawingKind) Valid() bool {
	switch k {
	case StrokeKind, EraseKind, ClearKind:
		return true
	}
	return false
}

// A DrawingEvent is relayed verbatim to the other members of a room.
// UserID and Timestamp are stamped by the relay when the client leaves
// them unset. The relay never stores events and never echoes one back
// to its originator.
type DrawingEvent struct {
	Kind      DrawingKind     `json:"type"`
	Data      json.RawMessage `json:"data"`
	UserID    UserID          `json:"userId"`
	Timestamp int64           `json:"timestamp"`
}
