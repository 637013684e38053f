package model

import "time"

// RoomID is a server-generated unique room identifier
type RoomID string

// RoomStatus represents the current state of a room
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // Accepting members
	RoomStatusPlaying RoomStatus = "playing" // Game server process is live
)

// Room groups players around one game+version for matchmaking.
// Players is ordered by join time; the host is always a member.
type Room struct {
	ID             RoomID     `json:"room_id"`
	Host           string     `json:"host"`
	GameName       string     `json:"game_name"`
	GameVersion    string     `json:"game_version"`
	MaxPlayers     int        `json:"max_players"`
	Players        []string   `json:"players"`
	Status         RoomStatus `json:"status"`
	GameServerPort int        `json:"game_server_port,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// HasPlayer reports whether the given username is a member
func (r *Room) HasPlayer(username string) bool {
	for _, p := range r.Players {
		if p == username {
			return true
		}
	}
	return false
}

// IsFull reports whether the room is at capacity
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// RemovePlayer removes the given username preserving join order.
// Returns false if the username is not a member.
func (r *Room) RemovePlayer(username string) bool {
	for i, p := range r.Players {
		if p == username {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy, safe to hand out as a snapshot
func (r *Room) Clone() *Room {
	out := *r
	out.Players = make([]string, len(r.Players))
	copy(out.Players, r.Players)
	return &out
}
