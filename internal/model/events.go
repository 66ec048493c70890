package model

// EventType identifies a realtime channel message
type EventType string

const (
	// Client -> server signals
	EventPlayerJoined EventType = "playerJoined"
	EventGameStarted  EventType = "gameStarted"
	EventQuotaUpdated EventType = "quotaUpdated"

	// Server -> subscriber messages
	EventRosterUpdated EventType = "rosterUpdated"
)

// ClientEvent is the envelope a subscriber sends over the channel
type ClientEvent struct {
	Type EventType `json:"type"`
}

// RosterEntry is one player in a broadcast roster
type RosterEntry struct {
	Name     string `json:"name"`
	IsLeader bool   `json:"isLeader"`
	Role     Role   `json:"role"`
}

// RosterUpdatedEvent carries the full roster of a room
type RosterUpdatedEvent struct {
	Type    EventType     `json:"type"`
	Players []RosterEntry `json:"players"`
}

// GameStartedEvent signals that the room's game has started
type GameStartedEvent struct {
	Type     EventType `json:"type"`
	RoomCode RoomCode  `json:"roomCode"`
}

// QuotaUpdatedEvent carries the room's current role quota
type QuotaUpdatedEvent struct {
	Type  EventType `json:"type"`
	Quota RoleQuota `json:"quota"`
}

// NewRosterUpdated builds a roster event from a player list
func NewRosterUpdated(players []*Player) RosterUpdatedEvent {
	entries := make([]RosterEntry, len(players))
	for i, p := range players {
		entries[i] = RosterEntry{
			Name:     p.DisplayName,
			IsLeader: p.IsLeader,
			Role:     p.Role,
		}
	}
	return RosterUpdatedEvent{Type: EventRosterUpdated, Players: entries}
}
