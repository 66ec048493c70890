package response

import (
	"time"

	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/auth"
)

// Identity is the response for identity issuance
type Identity struct {
	Identity string `json:"identity"`
}

// Player represents a room member in API responses
type Player struct {
	Name     string `json:"name"`
	IsLeader bool   `json:"isLeader"`
	Role     string `json:"role"`
	Alive    bool   `json:"alive"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		Name:     p.DisplayName,
		IsLeader: p.IsLeader,
		Role:     string(p.Role),
		Alive:    p.Alive,
	}
}

// Room represents a room in API responses
type Room struct {
	Code          string         `json:"code"`
	Started       bool           `json:"started"`
	Configuracion map[string]int `json:"configuracion"`
}

// RoomFromModel converts a model.Room to a response Room.
// The quota is always the effective one, so clients never see an
// unconfigured room as empty.
func RoomFromModel(r *model.Room) Room {
	quota := r.EffectiveQuota()
	config := make(map[string]int, len(quota))
	for role, count := range quota {
		config[string(role)] = count
	}
	return Room{
		Code:          string(r.Code),
		Started:       r.Started,
		Configuracion: config,
	}
}

// Roster is the response for listing a room's members
type Roster struct {
	Players []Player `json:"players"`
}

// RosterFromModel converts a player list to a Roster
func RosterFromModel(players []*model.Player) Roster {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return Roster{Players: out}
}

// Account represents an account in API responses
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// AccountFromModel converts a model.Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:          string(a.ID),
		Email:       a.Email,
		DisplayName: a.DisplayName,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// Visit is the response for recording or fetching a visitor
type Visit struct {
	Fingerprint string    `json:"fingerprint"`
	NewVisitor  bool      `json:"new_visitor"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
}

// VisitFromModel converts a model.Visitor
func VisitFromModel(v *model.Visitor, isNew bool) Visit {
	return Visit{
		Fingerprint: v.Fingerprint,
		NewVisitor:  isNew,
		FirstSeen:   v.FirstSeen,
		LastSeen:    v.LastSeen,
	}
}
