package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/santihernandis/lobos-go/internal/api/middleware"
	"github.com/santihernandis/lobos-go/internal/api/request"
	"github.com/santihernandis/lobos-go/internal/api/response"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/room"
	"github.com/santihernandis/lobos-go/internal/services/session"
	"github.com/santihernandis/lobos-go/internal/ws"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	controller *session.Controller
	gateway    *ws.Gateway
}

// NewRoomHandler creates a new room handler. The gateway may be nil in
// tests that don't exercise realtime fan-out.
func NewRoomHandler(controller *session.Controller, gateway *ws.Gateway) *RoomHandler {
	return &RoomHandler{
		controller: controller,
		gateway:    gateway,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body; the creator keeps a blank display name
		req = request.CreateRoomRequest{}
	}

	rm, err := h.controller.CreateRoom(r.Context(), identity, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(rm))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := room.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	rm, err := h.controller.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	code := room.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	rm, err := h.controller.JoinRoom(r.Context(), identity, req.DisplayName, code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.gateway != nil {
		h.gateway.BroadcastRoster(r.Context(), rm.Code)
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Roster handles GET /api/v1/rooms/{code}/players
func (h *RoomHandler) Roster(w http.ResponseWriter, r *http.Request) {
	code := room.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	players, err := h.controller.Roster(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RosterFromModel(players))
}

// Start handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	code := room.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	if err := h.controller.StartGame(r.Context(), code, identity); err != nil {
		WriteError(w, err)
		return
	}

	if h.gateway != nil {
		h.gateway.BroadcastGameStarted(code)
		h.gateway.BroadcastRoster(r.Context(), code)
	}

	rm, err := h.controller.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// UpdateQuota handles PUT /api/v1/rooms/{code}/quota
func (h *RoomHandler) UpdateQuota(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	code := room.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	var req request.UpdateQuotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	rm, err := h.controller.UpdateQuota(r.Context(), code, identity, req.Configuracion)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.gateway != nil {
		h.gateway.BroadcastQuota(r.Context(), code)
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Delete handles DELETE /api/v1/rooms/{code}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	code := room.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	if err := h.controller.DeleteRoom(r.Context(), code, identity); err != nil {
		WriteError(w, err)
		return
	}

	if h.gateway != nil {
		h.gateway.CloseRoom(code)
	}

	response.NoContent(w)
}
