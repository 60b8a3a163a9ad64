package proto

import "fmt"

var (
	ErrAuthRequired   = fmt.Errorf("authentication required")
	ErrRoomNotFound   = fmt.Errorf("room not found")
	ErrCreationFailed = fmt.Errorf("room creation failed")
	ErrNotInRoom      = fmt.Errorf("not in a room")
	ErrAlreadyInRoom  = fmt.Errorf("already in a room")
	ErrRoomNameInUse  = fmt.Errorf("room name in use")
	ErrInvalidName    = fmt.Errorf("invalid name")
	ErrInvalidEvent   = fmt.Errorf("invalid drawing event")
)
