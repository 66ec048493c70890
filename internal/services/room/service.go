package room

import (
	"context"
	"log/slog"
	"strings"

	"github.com/santihernandis/lobos-go/internal/dependencies/clock"
	"github.com/santihernandis/lobos-go/internal/dependencies/random"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/storage"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the 36-symbol alphabet room codes are drawn from
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service is the room registry: it owns room records, code generation
// and quota configuration
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new room registry
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "room-registry")),
	}
}

// Create generates a unique code and persists a new waiting room with the
// default quota preset
func (s *Service) Create(ctx context.Context) (*model.Room, error) {
	now := s.clock.Now()

	// Collisions are vanishingly rare in a 36^6 space, but the retry loop
	// keeps codes unique regardless of how many rooms accumulate
	var code model.RoomCode
	for {
		code = model.RoomCode(s.random.String(CodeLength, CodeAlphabet))
		exists, err := s.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		Code:      code,
		Started:   false,
		Quota:     model.DefaultRoleQuota(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("room created", slog.String("code", string(code)))
	return room, nil
}

// GetByCode retrieves a room, normalizing the code to uppercase first
func (s *Service) GetByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return s.storage.GetRoom(ctx, NormalizeCode(code))
}

// SetQuota replaces a room's quota configuration. Fails once the game has
// started or when any count is negative.
func (s *Service) SetQuota(ctx context.Context, room *model.Room, quota model.RoleQuota) error {
	if room.Started {
		return model.ErrGameStarted
	}
	if err := quota.Validate(); err != nil {
		return err
	}

	room.Quota = quota
	room.UpdatedAt = s.clock.Now()
	return s.storage.SaveRoom(ctx, room)
}

// MarkStarted flips the room's started flag
func (s *Service) MarkStarted(ctx context.Context, room *model.Room) error {
	room.Started = true
	room.UpdatedAt = s.clock.Now()
	return s.storage.SaveRoom(ctx, room)
}

// Delete removes a room; storage cascades deletion to its players
func (s *Service) Delete(ctx context.Context, code model.RoomCode) error {
	code = NormalizeCode(code)
	exists, err := s.storage.RoomExists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrRoomNotFound
	}

	if err := s.storage.DeleteRoom(ctx, code); err != nil {
		return err
	}

	s.logger.Info("room deleted", slog.String("code", string(code)))
	return nil
}

// NormalizeCode uppercases and trims a user-supplied room code
func NormalizeCode(code model.RoomCode) model.RoomCode {
	return model.RoomCode(strings.ToUpper(strings.TrimSpace(string(code))))
}
