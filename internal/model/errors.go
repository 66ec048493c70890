package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrGameStarted  = errors.New("game has already started")
	ErrInvalidQuota = errors.New("quota counts must be non-negative integers")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotLeader      = errors.New("player is not the room leader")
	ErrNotInRoom      = errors.New("player is not in this room")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Visitor errors
	ErrVisitorNotFound = errors.New("visitor not found")
)
