package storage

import (
	"context"

	"github.com/mcoot/gamehub/internal/model"
)

// Store defines the interface for data persistence. Saves are atomic
// upserts per entity; List operations support full reload at startup.
type Store interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, name string) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Play record operations
	SaveRecord(ctx context.Context, record *model.PlayerGameRecord) error
	ListRecordsForPlayer(ctx context.Context, player string) ([]*model.PlayerGameRecord, error)
}
