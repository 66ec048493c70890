package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/santihernandis/lobos-go/internal/dependencies/clock"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/storage"
)

// Service records site visitors by browser fingerprint
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new visitor tracker
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "tracker")),
	}
}

// RecordVisit upserts a visitor record keyed by fingerprint. A first visit
// creates the record; a revisit only refreshes the last-seen timestamp.
// Returns the record and whether it is new.
func (s *Service) RecordVisit(ctx context.Context, fingerprint, ipAddress, userAgent string) (*model.Visitor, bool, error) {
	now := s.clock.Now()

	existing, err := s.storage.GetVisitor(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, model.ErrVisitorNotFound) {
			return nil, false, err
		}
		visitor := &model.Visitor{
			Fingerprint: fingerprint,
			IPAddress:   ipAddress,
			UserAgent:   userAgent,
			FirstSeen:   now,
			LastSeen:    now,
		}
		if err := s.storage.SaveVisitor(ctx, visitor); err != nil {
			return nil, false, err
		}
		s.logger.Info("new visitor recorded", slog.String("fingerprint", fingerprint))
		return visitor, true, nil
	}

	existing.LastSeen = now
	if err := s.storage.SaveVisitor(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetVisitor retrieves a visitor record by fingerprint
func (s *Service) GetVisitor(ctx context.Context, fingerprint string) (*model.Visitor, error) {
	return s.storage.GetVisitor(ctx, fingerprint)
}
