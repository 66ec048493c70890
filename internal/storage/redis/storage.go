package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, roomKey(room.Code), data, 0).Err()
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	indexKey := roomPlayersIndexKey(code)

	// Collect the room's players for the cascade
	identities, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, identity := range identities {
		pipe.Del(ctx, playerKey(model.Identity(identity)))
	}
	pipe.Del(ctx, indexKey)
	pipe.Del(ctx, roomKey(code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	// Assign the insertion sequence on first save
	if player.Seq == 0 {
		seq, err := s.client.Incr(ctx, playerSeqKey()).Result()
		if err != nil {
			return err
		}
		player.Seq = seq
	}

	// An upsert may move the player between rooms; keep the room indexes
	// consistent with the record
	var previousRoom model.RoomCode
	if existing, err := s.GetPlayer(ctx, player.Identity); err == nil {
		previousRoom = existing.Room
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}

	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.Identity), data, 0)
	if previousRoom != "" && previousRoom != player.Room {
		pipe.ZRem(ctx, roomPlayersIndexKey(previousRoom), string(player.Identity))
	}
	if player.Room != "" {
		pipe.ZAdd(ctx, roomPlayersIndexKey(player.Room), redis.Z{
			Score:  float64(player.Seq),
			Member: string(player.Identity),
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, identity model.Identity) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, identity model.Identity) error {
	player, err := s.GetPlayer(ctx, identity)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(identity))
	if player.Room != "" {
		pipe.ZRem(ctx, roomPlayersIndexKey(player.Room), string(identity))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPlayersByRoom(ctx context.Context, code model.RoomCode) ([]*model.Player, error) {
	identities, err := s.client.ZRange(ctx, roomPlayersIndexKey(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(identities) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(identities))
	for i, identity := range identities {
		keys[i] = playerKey(model.Identity(identity))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Record removed between index read and fetch
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
	}

	return players, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(account.Email), string(account.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	id, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.AccountID(id))
}

// Visitor operations

func (s *Storage) SaveVisitor(ctx context.Context, visitor *model.Visitor) error {
	data, err := json.Marshal(visitor)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, visitorKey(visitor.Fingerprint), data, 0).Err()
}

func (s *Storage) GetVisitor(ctx context.Context, fingerprint string) (*model.Visitor, error) {
	data, err := s.client.Get(ctx, visitorKey(fingerprint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrVisitorNotFound
		}
		return nil, err
	}

	var visitor model.Visitor
	if err := json.Unmarshal(data, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}
