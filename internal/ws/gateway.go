package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/player"
	"github.com/santihernandis/lobos-go/internal/services/room"
)

// Gateway fans realtime room events out to websocket subscribers. It
// reads rooms and players but never mutates them; the HTTP API remains
// the single write path.
type Gateway struct {
	hubs     *HubManager
	rooms    *room.Service
	players  *player.Service
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewGateway creates a Gateway backed by the given services.
func NewGateway(hubs *HubManager, rooms *room.Service, players *player.Service, logger *slog.Logger) *Gateway {
	return &Gateway{
		hubs:    hubs,
		rooms:   rooms,
		players: players,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeWS upgrades an HTTP request to a websocket subscription on a
// room channel. The room does not need to exist yet: subscribers may
// attach before the first player joins.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request, code model.RoomCode, identity model.Identity) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	hub := g.hubs.GetOrCreateHub(code)
	client := NewClient(hub, conn, identity, func(event model.ClientEvent) {
		g.Dispatch(context.Background(), code, event)
	}, g.logger.With(slog.String("room", string(code))))
	client.Start()

	// New subscribers see the current roster straight away. The push
	// goes to the whole room so everyone converges on the same view.
	g.BroadcastRoster(context.Background(), code)
}

// Dispatch reacts to a client-sent event by re-broadcasting the
// corresponding room state. Unknown event types are ignored.
func (g *Gateway) Dispatch(ctx context.Context, code model.RoomCode, event model.ClientEvent) {
	switch event.Type {
	case model.EventPlayerJoined:
		g.BroadcastRoster(ctx, code)
	case model.EventGameStarted:
		g.BroadcastGameStarted(code)
	case model.EventQuotaUpdated:
		g.BroadcastQuota(ctx, code)
	default:
		g.logger.Debug("ignoring unknown event type",
			slog.String("room", string(code)),
			slog.String("type", string(event.Type)))
	}
}

// BroadcastRoster pushes the room's current roster to every subscriber.
// A missing room broadcasts an empty roster rather than an error.
func (g *Gateway) BroadcastRoster(ctx context.Context, code model.RoomCode) {
	players, err := g.players.ListByRoom(ctx, code)
	if err != nil {
		g.logger.Error("listing roster for broadcast",
			slog.String("room", string(code)),
			slog.String("error", err.Error()))
		return
	}
	g.send(code, model.NewRosterUpdated(players))
}

// BroadcastGameStarted announces the start of the room's game.
func (g *Gateway) BroadcastGameStarted(code model.RoomCode) {
	g.send(code, model.GameStartedEvent{
		Type:     model.EventGameStarted,
		RoomCode: code,
	})
}

// BroadcastQuota pushes the room's effective role quota. If the room
// has vanished the broadcast carries an empty quota.
func (g *Gateway) BroadcastQuota(ctx context.Context, code model.RoomCode) {
	quota := model.RoleQuota{}
	rm, err := g.rooms.GetByCode(ctx, code)
	if err == nil {
		quota = rm.EffectiveQuota()
	} else if !errors.Is(err, model.ErrRoomNotFound) {
		g.logger.Error("loading room for quota broadcast",
			slog.String("room", string(code)),
			slog.String("error", err.Error()))
		return
	}
	g.send(code, model.QuotaUpdatedEvent{
		Type:  model.EventQuotaUpdated,
		Quota: quota,
	})
}

// CloseRoom tears down the room's hub and disconnects its subscribers.
// Called when the room itself is deleted.
func (g *Gateway) CloseRoom(code model.RoomCode) {
	g.hubs.RemoveHub(code)
}

func (g *Gateway) send(code model.RoomCode, payload any) {
	hub := g.hubs.GetHub(code)
	if hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("marshaling broadcast payload", slog.String("error", err.Error()))
		return
	}
	hub.Broadcast(data)
}
