package model

import "time"

// Identity is an opaque per-browser token that identifies a player
// across requests. One player record exists per identity.
type Identity string

// Player represents a participant bound to at most one room
type Player struct {
	Identity    Identity
	DisplayName string

	// Role is the dealt game role. Defaults to aldeano until a game starts.
	Role Role

	// Alive is persisted but no state transition in scope flips it.
	Alive bool

	// IsLeader marks the player who created the room. The leader narrates
	// and is excluded from the deal.
	IsLeader bool

	// Room is the owning room's code, empty when unassigned.
	Room RoomCode

	// Seq is the storage-assigned insertion sequence, used to order rosters
	// by join order. Zero until first saved.
	Seq int64

	CreatedAt time.Time
}

// NewPlayer creates a player with the default role and liveness
func NewPlayer(identity Identity, displayName string, room RoomCode, isLeader bool, now time.Time) *Player {
	return &Player{
		Identity:    identity,
		DisplayName: displayName,
		Role:        RoleAldeano,
		Alive:       true,
		IsLeader:    isLeader,
		Room:        room,
		CreatedAt:   now,
	}
}
