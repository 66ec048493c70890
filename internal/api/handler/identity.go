package handler

import (
	"net/http"

	"github.com/santihernandis/lobos-go/internal/api/response"
	"github.com/santihernandis/lobos-go/internal/dependencies/random"
)

const (
	identityLength   = 32
	identityAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// IdentityHandler issues anonymous identity tokens
type IdentityHandler struct {
	random random.Random
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(rnd random.Random) *IdentityHandler {
	return &IdentityHandler{random: rnd}
}

// Create handles POST /api/v1/identity. Tokens are opaque and carry no
// claims; the server trusts whoever presents one.
func (h *IdentityHandler) Create(w http.ResponseWriter, r *http.Request) {
	token := h.random.String(identityLength, identityAlphabet)
	response.JSON(w, http.StatusCreated, response.Identity{Identity: token})
}
