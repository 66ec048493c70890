package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/santihernandis/lobos-go/internal/api/handler"
	"github.com/santihernandis/lobos-go/internal/api/middleware"
	"github.com/santihernandis/lobos-go/internal/dependencies/random"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/auth"
	"github.com/santihernandis/lobos-go/internal/services/room"
	"github.com/santihernandis/lobos-go/internal/services/session"
	"github.com/santihernandis/lobos-go/internal/services/tracker"
	"github.com/santihernandis/lobos-go/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Random            random.Random
	AuthService       *auth.Service
	SessionController *session.Controller
	TrackerService    *tracker.Service
	Gateway           *ws.Gateway
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	identityHandler := handler.NewIdentityHandler(cfg.Random)
	roomHandler := handler.NewRoomHandler(cfg.SessionController, cfg.Gateway)
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	visitorHandler := handler.NewVisitorHandler(cfg.TrackerService)

	// Create middleware
	identityMiddleware := middleware.Identity()
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identity issuance
	api.HandleFunc("/identity", identityHandler.Create).Methods(http.MethodPost)

	// Room routes; reads are open, writes require an identity token
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Handle("", identityMiddleware(http.HandlerFunc(roomHandler.Create))).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/players", roomHandler.Roster).Methods(http.MethodGet)
	rooms.Handle("/{code}/join", identityMiddleware(http.HandlerFunc(roomHandler.Join))).Methods(http.MethodPost)
	rooms.Handle("/{code}/start", identityMiddleware(http.HandlerFunc(roomHandler.Start))).Methods(http.MethodPost)
	rooms.Handle("/{code}/quota", identityMiddleware(http.HandlerFunc(roomHandler.UpdateQuota))).Methods(http.MethodPut)
	rooms.Handle("/{code}", identityMiddleware(http.HandlerFunc(roomHandler.Delete))).Methods(http.MethodDelete)

	// Realtime room channel
	if cfg.Gateway != nil {
		rooms.HandleFunc("/{code}/ws", func(w http.ResponseWriter, req *http.Request) {
			code := room.NormalizeCode(roomCodeVar(req))
			cfg.Gateway.ServeWS(w, req, code, middleware.ExtractIdentity(req))
		}).Methods(http.MethodGet)
	}

	// Account routes
	accounts := api.PathPrefix("/accounts").Subrouter()
	accounts.HandleFunc("/register", accountHandler.Register).Methods(http.MethodPost)
	accounts.HandleFunc("/login", accountHandler.Login).Methods(http.MethodPost)
	accounts.Handle("/me", authMiddleware(http.HandlerFunc(accountHandler.Me))).Methods(http.MethodGet)
	accounts.Handle("/logout", authMiddleware(http.HandlerFunc(accountHandler.Logout))).Methods(http.MethodPost)

	// Visitor tracking
	api.HandleFunc("/visits", visitorHandler.RecordVisit).Methods(http.MethodPost)
	api.HandleFunc("/visits/{fingerprint}", visitorHandler.GetVisitor).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func roomCodeVar(r *http.Request) model.RoomCode {
	return model.RoomCode(mux.Vars(r)["code"])
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
