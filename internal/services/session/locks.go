package session

import (
	"sync"

	"github.com/santihernandis/lobos-go/internal/model"
)

// roomLocks hands out one mutex per room code so that start/configure
// read-modify-write sequences on the same room never interleave
type roomLocks struct {
	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[model.RoomCode]*sync.Mutex)}
}

func (l *roomLocks) get(code model.RoomCode) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lock, ok := l.locks[code]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	l.locks[code] = lock
	return lock
}

func (l *roomLocks) release(code model.RoomCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, code)
}
