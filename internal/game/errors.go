package game

import "errors"

var (
	ErrSessionExists = errors.New("session already exists")
	ErrRoomNotFound  = errors.New("room not found")
)
