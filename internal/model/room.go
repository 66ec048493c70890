package model

import "time"

// RoomCode is the short identifier players use to join a room.
// It doubles as the realtime channel key.
type RoomCode string

// Room represents a single game session
type Room struct {
	Code RoomCode

	// Started freezes configuration and blocks re-dealing once true.
	// There is no transition back to false.
	Started bool

	// Quota is the configured role bag for this room. Empty means the
	// default preset applies.
	Quota RoleQuota

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveQuota returns the room's quota, falling back to the default
// preset when none has been configured
func (r *Room) EffectiveQuota() RoleQuota {
	if len(r.Quota) == 0 {
		return DefaultRoleQuota()
	}
	return r.Quota
}
