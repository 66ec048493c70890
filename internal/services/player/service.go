package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/santihernandis/lobos-go/internal/dependencies/clock"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/storage"
)

// Service is the player directory: it owns player records and their
// room membership
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player directory
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "player-directory")),
	}
}

// JoinOrUpdate upserts the player record for an identity. A new identity
// gets a fresh record with the default role; an existing one has its name,
// room and leader flag overwritten in place, leaving role and liveness
// untouched.
func (s *Service) JoinOrUpdate(ctx context.Context, identity model.Identity, displayName string, room model.RoomCode, isLeader bool) (*model.Player, error) {
	existing, err := s.storage.GetPlayer(ctx, identity)
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		p := model.NewPlayer(identity, displayName, room, isLeader, s.clock.Now())
		if err := s.storage.SavePlayer(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	existing.DisplayName = displayName
	existing.Room = room
	existing.IsLeader = isLeader
	if err := s.storage.SavePlayer(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get retrieves a player by identity
func (s *Service) Get(ctx context.Context, identity model.Identity) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, identity)
}

// SetRole persists a player's dealt role
func (s *Service) SetRole(ctx context.Context, identity model.Identity, role model.Role) error {
	p, err := s.storage.GetPlayer(ctx, identity)
	if err != nil {
		return err
	}
	p.Role = role
	return s.storage.SavePlayer(ctx, p)
}

// ListByRoom returns a room's players in join order
func (s *Service) ListByRoom(ctx context.Context, code model.RoomCode) ([]*model.Player, error) {
	return s.storage.ListPlayersByRoom(ctx, code)
}

// ExcludingLeaders filters leaders out of a roster. In a well-formed room
// this removes exactly the one player who created it.
func ExcludingLeaders(players []*model.Player) []*model.Player {
	var result []*model.Player
	for _, p := range players {
		if !p.IsLeader {
			result = append(result, p)
		}
	}
	return result
}
