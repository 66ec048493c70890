package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/santihernandis/lobos-go/internal/api/request"
	"github.com/santihernandis/lobos-go/internal/api/response"
	"github.com/santihernandis/lobos-go/internal/services/tracker"
)

// VisitorHandler handles visitor fingerprint tracking
type VisitorHandler struct {
	tracker *tracker.Service
}

// NewVisitorHandler creates a new visitor handler
func NewVisitorHandler(tracker *tracker.Service) *VisitorHandler {
	return &VisitorHandler{tracker: tracker}
}

// RecordVisit handles POST /api/v1/visits
func (h *VisitorHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req request.VisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if strings.TrimSpace(req.Fingerprint) == "" {
		WriteError(w, NewInvalidRequestError("fingerprint is required"))
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = r.UserAgent()
	}

	visitor, isNew, err := h.tracker.RecordVisit(r.Context(), req.Fingerprint, clientIP(r), userAgent)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.VisitFromModel(visitor, isNew))
}

// GetVisitor handles GET /api/v1/visits/{fingerprint}
func (h *VisitorHandler) GetVisitor(w http.ResponseWriter, r *http.Request) {
	fingerprint := strings.TrimSpace(mux.Vars(r)["fingerprint"])

	visitor, err := h.tracker.GetVisitor(r.Context(), fingerprint)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VisitFromModel(visitor, false))
}

// clientIP resolves the originating address, preferring proxy headers
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
