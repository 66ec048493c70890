package storage

import (
	"context"

	"github.com/santihernandis/lobos-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	// DeleteRoom removes a room and cascades deletion to its players
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Player operations. SavePlayer assigns an insertion sequence the first
	// time a player is persisted; ListPlayersByRoom returns players in that
	// sequence order.
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, identity model.Identity) (*model.Player, error)
	DeletePlayer(ctx context.Context, identity model.Identity) error
	ListPlayersByRoom(ctx context.Context, code model.RoomCode) ([]*model.Player, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// Visitor operations
	SaveVisitor(ctx context.Context, visitor *model.Visitor) error
	GetVisitor(ctx context.Context, fingerprint string) (*model.Visitor, error)
}
