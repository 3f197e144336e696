package apperror

import "errors"

var (
	ErrBadHandshake    = errors.New("malformed handshake")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotFound    = errors.New("room not found")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrCellOutOfBounds = errors.New("cell is out of bounds")
	ErrSpectatorSync   = errors.New("could not sync spectator")
)
