package redis

import (
	"fmt"

	"github.com/mcoot/gamehub/internal/model"
)

// Key prefix for all hub data
const keyPrefix = "gamehub"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// usersIndexKey returns the Redis key for the SET of all user keys
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// gameKey returns the Redis key for a Game
func gameKey(name string) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, name)
}

// gamesIndexKey returns the Redis key for the SET of all game keys
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomsIndexKey returns the Redis key for the SET of all room keys
func roomsIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// recordKey returns the Redis key for a PlayerGameRecord
func recordKey(id model.RecordID) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, id)
}

// recordsForPlayerIndexKey returns the Redis key for the SET of record
// keys belonging to a player
func recordsForPlayerIndexKey(player string) string {
	return fmt.Sprintf("%s:idx:records_for_player:%s", keyPrefix, player)
}
