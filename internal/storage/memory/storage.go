package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Entities are copied on both save and load so callers never share
// memory with the store or with each other.
type Storage struct {
	mu sync.RWMutex

	rooms      map[model.RoomCode]*model.Room
	players    map[model.Identity]*model.Player
	accounts   map[model.AccountID]*model.Account
	emailIndex map[string]model.AccountID
	visitors   map[string]*model.Visitor

	playerSeq int64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:      make(map[model.RoomCode]*model.Room),
		players:    make(map[model.Identity]*model.Player),
		accounts:   make(map[model.AccountID]*model.Account),
		emailIndex: make(map[string]model.AccountID),
		visitors:   make(map[string]*model.Visitor),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func cloneRoom(r *model.Room) *model.Room {
	c := *r
	if r.Quota != nil {
		c.Quota = make(model.RoleQuota, len(r.Quota))
		for role, count := range r.Quota {
			c.Quota[role] = count
		}
	}
	return &c
}

func clonePlayer(p *model.Player) *model.Player {
	c := *p
	return &c
}

func cloneAccount(a *model.Account) *model.Account {
	c := *a
	return &c
}

func cloneVisitor(v *model.Visitor) *model.Visitor {
	c := *v
	return &c
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = cloneRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	// Cascade to the room's players
	for identity, player := range s.players {
		if player.Room == code {
			delete(s.players, identity)
		}
	}
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player.Seq == 0 {
		s.playerSeq++
		player.Seq = s.playerSeq
	}
	s.players[player.Identity] = clonePlayer(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, identity model.Identity) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[identity]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clonePlayer(player), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, identity model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, identity)
	return nil
}

func (s *Storage) ListPlayersByRoom(ctx context.Context, code model.RoomCode) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var players []*model.Player
	for _, player := range s.players {
		if player.Room == code {
			players = append(players, clonePlayer(player))
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Seq < players[j].Seq })
	return players, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = cloneAccount(account)
	s.emailIndex[account.Email] = account.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// Visitor operations

func (s *Storage) SaveVisitor(ctx context.Context, visitor *model.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitors[visitor.Fingerprint] = cloneVisitor(visitor)
	return nil
}

func (s *Storage) GetVisitor(ctx context.Context, fingerprint string) (*model.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visitor, ok := s.visitors[fingerprint]
	if !ok {
		return nil, model.ErrVisitorNotFound
	}
	return cloneVisitor(visitor), nil
}
