package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entities are stored as JSON values; SETs of keys act as indexes so
// List operations can reload everything at startup.
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

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// saveIndexed writes a JSON value and adds its key to an index set in one
// pipeline, so the index never misses a saved entity.
func (s *Storage) saveIndexed(ctx context.Context, key, indexKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, key)
	_, err = pipe.Exec(ctx)
	return err
}

// listIndexed fetches every member of an index set with MGET, invoking
// decode for each present value. Dangling index entries are skipped.
func (s *Storage) listIndexed(ctx context.Context, indexKey string, decode func([]byte) error) error {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}

	for _, val := range values {
		if val == nil {
			continue
		}
		if err := decode([]byte(val.(string))); err != nil {
			continue
		}
	}
	return nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	return s.saveIndexed(ctx, userKey(user.Username), usersIndexKey(), user)
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := s.listIndexed(ctx, usersIndexKey(), func(data []byte) error {
		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}
		users = append(users, &user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return s.saveIndexed(ctx, gameKey(game.Name), gamesIndexKey(), game)
}

func (s *Storage) GetGame(ctx context.Context, name string) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	var games []*model.Game
	err := s.listIndexed(ctx, gamesIndexKey(), func(data []byte) error {
		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		games = append(games, &game)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	return s.saveIndexed(ctx, roomKey(room.ID), roomsIndexKey(), room)
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
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

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.SRem(ctx, roomsIndexKey(), roomKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	var rooms []*model.Room
	err := s.listIndexed(ctx, roomsIndexKey(), func(data []byte) error {
		var room model.Room
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}
		rooms = append(rooms, &room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// Play record operations

func (s *Storage) SaveRecord(ctx context.Context, record *model.PlayerGameRecord) error {
	return s.saveIndexed(ctx, recordKey(record.ID), recordsForPlayerIndexKey(record.Player), record)
}

func (s *Storage) ListRecordsForPlayer(ctx context.Context, player string) ([]*model.PlayerGameRecord, error) {
	var records []*model.PlayerGameRecord
	err := s.listIndexed(ctx, recordsForPlayerIndexKey(player), func(data []byte) error {
		var record model.PlayerGameRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return err
		}
		records = append(records, &record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
