package request

import "github.com/santihernandis/lobos-go/internal/model"

// CreateIdentityRequest is the request body for issuing an identity token
type CreateIdentityRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	DisplayName string `json:"display_name"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	DisplayName string `json:"display_name"`
}

// UpdateQuotaRequest is the request body for replacing a room's role quota
type UpdateQuotaRequest struct {
	Configuracion model.RoleQuota `json:"configuracion"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VisitRequest is the request body for recording a visit
type VisitRequest struct {
	Fingerprint string `json:"fingerprint"`
	UserAgent   string `json:"user_agent,omitempty"`
}
