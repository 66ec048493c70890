package player

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
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestJoinCreatesNewPlayer() {
	p, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ABC123", false)
	s.Require().NoError(err)

	s.Equal(model.Identity("id-1"), p.Identity)
	s.Equal("Ana", p.DisplayName)
	s.Equal(model.RoomCode("ABC123"), p.Room)
	s.Equal(model.RoleAldeano, p.Role)
	s.True(p.Alive)
	s.False(p.IsLeader)
}

func (s *ServiceSuite) TestRejoinUpdatesInPlace() {
	_, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ABC123", false)
	s.Require().NoError(err)

	p, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana Maria", "ABC123", false)
	s.Require().NoError(err)

	s.Equal("Ana Maria", p.DisplayName)

	players, err := s.service.ListByRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(players, 1, "rejoin must not duplicate the player")
}

func (s *ServiceSuite) TestRejoinPreservesRoleAndLiveness() {
	_, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ABC123", false)
	s.Require().NoError(err)
	s.Require().NoError(s.service.SetRole(s.ctx, "id-1", model.RoleLobo))

	p, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ABC123", false)
	s.Require().NoError(err)

	s.Equal(model.RoleLobo, p.Role)
	s.True(p.Alive)
}

func (s *ServiceSuite) TestJoiningAnotherRoomMovesThePlayer() {
	_, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ROOM01", false)
	s.Require().NoError(err)

	_, err = s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ROOM02", false)
	s.Require().NoError(err)

	first, err := s.service.ListByRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Empty(first)

	second, err := s.service.ListByRoom(s.ctx, "ROOM02")
	s.Require().NoError(err)
	s.Len(second, 1)
}

func (s *ServiceSuite) TestListByRoomKeepsJoinOrder() {
	for _, id := range []string{"id-c", "id-a", "id-b"} {
		_, err := s.service.JoinOrUpdate(s.ctx, model.Identity(id), id, "ABC123", false)
		s.Require().NoError(err)
	}

	players, err := s.service.ListByRoom(s.ctx, "ABC123")
	s.Require().NoError(err)

	s.Require().Len(players, 3)
	s.Equal(model.Identity("id-c"), players[0].Identity)
	s.Equal(model.Identity("id-a"), players[1].Identity)
	s.Equal(model.Identity("id-b"), players[2].Identity)
}

func (s *ServiceSuite) TestRejoinKeepsOriginalPosition() {
	for _, id := range []string{"id-1", "id-2", "id-3"} {
		_, err := s.service.JoinOrUpdate(s.ctx, model.Identity(id), id, "ABC123", false)
		s.Require().NoError(err)
	}

	_, err := s.service.JoinOrUpdate(s.ctx, "id-1", "renamed", "ABC123", false)
	s.Require().NoError(err)

	players, err := s.service.ListByRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.Identity("id-1"), players[0].Identity)
	s.Equal("renamed", players[0].DisplayName)
}

func (s *ServiceSuite) TestSetRolePersists() {
	_, err := s.service.JoinOrUpdate(s.ctx, "id-1", "Ana", "ABC123", false)
	s.Require().NoError(err)

	s.Require().NoError(s.service.SetRole(s.ctx, "id-1", model.RoleVidente))

	p, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(model.RoleVidente, p.Role)
}

func (s *ServiceSuite) TestSetRoleUnknownPlayerFails() {
	err := s.service.SetRole(s.ctx, "ghost", model.RoleLobo)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestGetUnknownPlayerFails() {
	_, err := s.service.Get(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestExcludingLeaders() {
	players := []*model.Player{
		{Identity: "id-1", IsLeader: true},
		{Identity: "id-2"},
		{Identity: "id-3"},
	}

	rest := ExcludingLeaders(players)

	s.Require().Len(rest, 2)
	s.Equal(model.Identity("id-2"), rest[0].Identity)
	s.Equal(model.Identity("id-3"), rest[1].Identity)
}
