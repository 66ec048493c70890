package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/santihernandis/lobos-go/internal/dependencies/mocks"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/storage/memory"
	"github.com/santihernandis/lobos-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateUsesGeneratedCode() {
	s.random.QueueString("ABC123")

	room, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.RoomCode("ABC123"), room.Code)
	s.False(room.Started)
	s.Equal(s.clock.Now(), room.CreatedAt)
}

func (s *ServiceSuite) TestCreateStartsWithDefaultQuota() {
	s.random.QueueString("ABC123")

	room, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.DefaultRoleQuota(), room.Quota)
	s.Equal(13, room.Quota.TotalSlots())
}

func (s *ServiceSuite) TestCreateRetriesOnCodeCollision() {
	s.random.QueueString("SAME00", "SAME00", "OTHER1")

	first, err := s.service.Create(s.ctx)
	s.Require().NoError(err)
	second, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.RoomCode("SAME00"), first.Code)
	s.Equal(model.RoomCode("OTHER1"), second.Code)
}

func (s *ServiceSuite) TestGetByCodeNormalizesCase() {
	s.random.QueueString("ABC123")
	_, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	room, err := s.service.GetByCode(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), room.Code)
}

func (s *ServiceSuite) TestGetByCodeTrimsWhitespace() {
	s.random.QueueString("ABC123")
	_, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	room, err := s.service.GetByCode(s.ctx, "  abc123  ")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), room.Code)
}

func (s *ServiceSuite) TestGetUnknownCodeFails() {
	_, err := s.service.GetByCode(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestSetQuotaReplacesWholeQuota() {
	s.random.QueueString("ABC123")
	room, _ := s.service.Create(s.ctx)

	quota := model.RoleQuota{model.RoleLobo: 2, model.RoleAldeano: 5}
	err := s.service.SetQuota(s.ctx, room, quota)
	s.Require().NoError(err)

	reloaded, err := s.service.GetByCode(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(quota, reloaded.Quota)
	s.NotContains(reloaded.Quota, model.RoleBruja)
}

func (s *ServiceSuite) TestSetQuotaRejectsNegativeCounts() {
	s.random.QueueString("ABC123")
	room, _ := s.service.Create(s.ctx)

	err := s.service.SetQuota(s.ctx, room, model.RoleQuota{model.RoleLobo: -1})
	s.ErrorIs(err, model.ErrInvalidQuota)
}

func (s *ServiceSuite) TestSetQuotaFailsOnceStarted() {
	s.random.QueueString("ABC123")
	room, _ := s.service.Create(s.ctx)
	s.Require().NoError(s.service.MarkStarted(s.ctx, room))

	err := s.service.SetQuota(s.ctx, room, model.RoleQuota{model.RoleLobo: 1})
	s.ErrorIs(err, model.ErrGameStarted)
}

func (s *ServiceSuite) TestMarkStartedPersists() {
	s.random.QueueString("ABC123")
	room, _ := s.service.Create(s.ctx)

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.service.MarkStarted(s.ctx, room))

	reloaded, err := s.service.GetByCode(s.ctx, room.Code)
	s.Require().NoError(err)
	s.True(reloaded.Started)
	s.Equal(s.clock.Now(), reloaded.UpdatedAt)
}

func (s *ServiceSuite) TestDeleteRemovesRoom() {
	s.random.QueueString("ABC123")
	room, _ := s.service.Create(s.ctx)

	s.Require().NoError(s.service.Delete(s.ctx, room.Code))

	_, err := s.service.GetByCode(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestDeleteUnknownRoomFails() {
	err := s.service.Delete(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
