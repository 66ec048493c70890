package model

import "time"

// AccountID uniquely identifies a registered account
type AccountID string

// Account holds a registered user's credentials.
// Stored separately from Player: accounts are site-wide, players are
// per-browsing-session.
type Account struct {
	ID           AccountID
	Email        string // login email (immutable)
	DisplayName  string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
