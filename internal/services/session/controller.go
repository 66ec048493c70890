package session

import (
	"context"
	"log/slog"

	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/dealer"
	"github.com/santihernandis/lobos-go/internal/services/player"
	"github.com/santihernandis/lobos-go/internal/services/room"
)

// Controller orchestrates leader-gated room actions atop the registry,
// directory and dealer
type Controller struct {
	rooms   *room.Service
	players *player.Service
	dealer  *dealer.Service
	logger  *slog.Logger
	locks   *roomLocks
}

// NewController creates a new session controller
func NewController(rooms *room.Service, players *player.Service, dealer *dealer.Service, logger *slog.Logger) *Controller {
	return &Controller{
		rooms:   rooms,
		players: players,
		dealer:  dealer,
		logger:  logger.With(slog.String("component", "session")),
		locks:   newRoomLocks(),
	}
}

// CreateRoom creates a new room and joins the creating identity as leader
func (c *Controller) CreateRoom(ctx context.Context, identity model.Identity, displayName string) (*model.Room, error) {
	r, err := c.rooms.Create(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := c.players.JoinOrUpdate(ctx, identity, displayName, r.Code, true); err != nil {
		return nil, err
	}

	return r, nil
}

// JoinRoom resolves a room by code and upserts the identity as a
// non-leader member
func (c *Controller) JoinRoom(ctx context.Context, identity model.Identity, displayName string, code model.RoomCode) (*model.Room, error) {
	r, err := c.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if _, err := c.players.JoinOrUpdate(ctx, identity, displayName, r.Code, false); err != nil {
		return nil, err
	}

	return r, nil
}

// GetRoom retrieves a room by code
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.rooms.GetByCode(ctx, code)
}

// Roster returns a room's players in join order
func (c *Controller) Roster(ctx context.Context, code model.RoomCode) ([]*model.Player, error) {
	return c.players.ListByRoom(ctx, room.NormalizeCode(code))
}

// StartGame deals roles to every non-leader player in the room and marks
// the game started. Only the room's leader may call it, and only once.
// The leader's own role is left untouched; leader status marks them as
// the narrator.
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, identity model.Identity) error {
	code = room.NormalizeCode(code)
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	r, err := c.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := c.requireLeader(ctx, r, identity); err != nil {
		return err
	}

	if r.Started {
		return model.ErrGameStarted
	}

	roster, err := c.players.ListByRoom(ctx, r.Code)
	if err != nil {
		return err
	}
	dealt := player.ExcludingLeaders(roster)

	assignments := c.dealer.Deal(r.EffectiveQuota(), dealt)
	for _, a := range assignments {
		if err := c.players.SetRole(ctx, a.Identity, a.Role); err != nil {
			return err
		}
	}

	if err := c.rooms.MarkStarted(ctx, r); err != nil {
		return err
	}

	c.logger.Info("game started",
		slog.String("room", string(r.Code)),
		slog.Int("players_dealt", len(assignments)))
	return nil
}

// UpdateQuota replaces the room's role quota. Leader-only, rejected once
// the game has started or when any count is negative. The quota is stored
// verbatim; no renormalization against the roster size happens.
func (c *Controller) UpdateQuota(ctx context.Context, code model.RoomCode, identity model.Identity, quota model.RoleQuota) (*model.Room, error) {
	code = room.NormalizeCode(code)
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	r, err := c.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := c.requireLeader(ctx, r, identity); err != nil {
		return nil, err
	}

	if err := c.rooms.SetQuota(ctx, r, quota); err != nil {
		return nil, err
	}

	return r, nil
}

// DeleteRoom removes a room and its players. Only the leader can do this.
func (c *Controller) DeleteRoom(ctx context.Context, code model.RoomCode, identity model.Identity) error {
	code = room.NormalizeCode(code)
	lock := c.locks.get(code)
	lock.Lock()
	defer func() {
		lock.Unlock()
		c.locks.release(code)
	}()

	r, err := c.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := c.requireLeader(ctx, r, identity); err != nil {
		return err
	}

	return c.rooms.Delete(ctx, code)
}

// requireLeader verifies the identity belongs to the room and holds the
// leader flag
func (c *Controller) requireLeader(ctx context.Context, r *model.Room, identity model.Identity) error {
	p, err := c.players.Get(ctx, identity)
	if err != nil {
		return err
	}
	if p.Room != r.Code {
		return model.ErrNotInRoom
	}
	if !p.IsLeader {
		return model.ErrNotLeader
	}
	return nil
}
