package lobby

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/gamehub/internal/model"
)

const roomIDAlphabet = "0123456789abcdef"

// CreateRoom creates a waiting room for a catalog game, hosted by the
// creator. The creator must be online and not already in a room.
func (h *Hub) CreateRoom(ctx context.Context, username, gameName, gameVersion string, maxPlayers int) (*model.Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, isOnline := h.online[username]; !isOnline {
		return nil, model.ErrNotLoggedIn
	}
	if _, inRoom := h.memberOf[username]; inRoom {
		return nil, model.ErrAlreadyInRoom
	}

	game, err := h.catalog.GetActiveGame(ctx, gameName)
	if err != nil {
		return nil, err
	}
	version, err := h.catalog.ResolveVersion(game, gameVersion)
	if err != nil {
		return nil, err
	}

	if maxPlayers <= 0 || maxPlayers > game.MaxPlayers {
		maxPlayers = game.MaxPlayers
	}
	if maxPlayers < 2 {
		maxPlayers = 2
	}

	room := &model.Room{
		ID:          h.newRoomIDLocked(),
		Host:        username,
		GameName:    gameName,
		GameVersion: version,
		MaxPlayers:  maxPlayers,
		Players:     []string{username},
		Status:      model.RoomStatusWaiting,
		CreatedAt:   h.clock.Now(),
	}
	if err := h.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	h.rooms[room.ID] = room
	h.memberOf[username] = room.ID

	h.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("host", username),
		slog.String("game", gameName),
	)
	return room.Clone(), nil
}

// JoinRoom adds an online user to a waiting room with spare capacity
func (h *Hub) JoinRoom(ctx context.Context, username string, roomID model.RoomID) (*model.Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, isOnline := h.online[username]; !isOnline {
		return nil, model.ErrNotLoggedIn
	}
	if _, inRoom := h.memberOf[username]; inRoom {
		return nil, model.ErrAlreadyInRoom
	}

	room, ok := h.rooms[roomID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrGameInProgress
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.Players = append(room.Players, username)
	if err := h.store.SaveRoom(ctx, room); err != nil {
		room.RemovePlayer(username)
		return nil, err
	}

	h.memberOf[username] = roomID
	h.logger.Info("player joined room",
		slog.String("room_id", string(roomID)),
		slog.String("username", username),
	)
	return room.Clone(), nil
}

// LeaveRoom removes a user from a room. The last player leaving deletes
// the room; a leaving host hands the room to the earliest-joined
// surviving member.
func (h *Hub) LeaveRoom(ctx context.Context, username string, roomID model.RoomID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, isOnline := h.online[username]; !isOnline {
		return model.ErrNotLoggedIn
	}
	if memberRoom, inRoom := h.memberOf[username]; !inRoom || memberRoom != roomID {
		return model.ErrNotInRoom
	}
	if _, ok := h.rooms[roomID]; !ok {
		return model.ErrRoomNotFound
	}
	return h.removeFromRoomLocked(ctx, username, roomID)
}

// removeFromRoomLocked is the single membership-removal path, shared by
// explicit leaves and the disconnect cascade so the two cannot diverge.
// Caller must hold h.mu.
func (h *Hub) removeFromRoomLocked(ctx context.Context, username string, roomID model.RoomID) error {
	room, ok := h.rooms[roomID]
	if !ok {
		delete(h.memberOf, username)
		return model.ErrRoomNotFound
	}

	room.RemovePlayer(username)
	delete(h.memberOf, username)

	if len(room.Players) == 0 {
		if err := h.store.DeleteRoom(ctx, roomID); err != nil {
			return err
		}
		delete(h.rooms, roomID)
		if proc, running := h.procs[roomID]; running {
			// Nobody is left to play; don't orphan the game server
			delete(h.procs, roomID)
			if err := proc.Kill(); err != nil {
				h.logger.Error("kill game server for dissolved room failed",
					slog.String("room_id", string(roomID)),
					slog.Any("error", err),
				)
			}
		}
		h.logger.Info("room dissolved", slog.String("room_id", string(roomID)))
		return nil
	}

	if room.Host == username {
		room.Host = room.Players[0]
		h.logger.Info("room host migrated",
			slog.String("room_id", string(roomID)),
			slog.String("new_host", room.Host),
		)
	}
	return h.store.SaveRoom(ctx, room)
}

// ListRooms returns snapshots of all rooms, waiting and playing alike.
// Playing rooms carry their live game-server port so clients can join an
// in-progress match.
func (h *Hub) ListRooms() []*model.Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms := make([]*model.Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room.Clone())
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt) ||
			(rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) && rooms[i].ID < rooms[j].ID)
	})
	return rooms
}

// GetRoom returns a snapshot of one room
func (h *Hub) GetRoom(roomID model.RoomID) (*model.Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

// newRoomIDLocked generates a room ID unused by any live room. Caller
// must hold h.mu.
func (h *Hub) newRoomIDLocked() model.RoomID {
	for {
		id := model.RoomID(h.random.String(8, roomIDAlphabet))
		if _, taken := h.rooms[id]; !taken {
			return id
		}
	}
}
