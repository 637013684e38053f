package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/gamehub/internal/model"
)

// LaunchSpec describes a game-server process to spawn
type LaunchSpec struct {
	// Entry is the path of the game server entry point
	Entry string
	// Dir is the working directory the process runs in
	Dir string
	// Port is the TCP port the server is told to listen on
	Port int
}

// Process is a handle on a spawned game-server process
type Process interface {
	// Ready blocks until the process accepts connections on its port,
	// or the context expires
	Ready(ctx context.Context) error
	// Wait blocks until the process exits
	Wait() error
	// Kill terminates the process
	Kill() error
}

// Launcher spawns game-server processes. Injected so tests can run
// matches without real subprocesses.
type Launcher interface {
	Launch(ctx context.Context, spec LaunchSpec) (Process, error)
}

// MatchInfo describes a launched match
type MatchInfo struct {
	RoomID  model.RoomID
	Port    int
	Players []string
}

// StartGame launches a game server for a room. Only the host may start,
// and only with at least two players in a waiting room. On any failure
// before the process is running, no state changes: no port is consumed
// by the room, no status flip, no play records.
func (h *Hub) StartGame(ctx context.Context, username string, roomID model.RoomID) (*MatchInfo, error) {
	h.mu.Lock()

	if _, isOnline := h.online[username]; !isOnline {
		h.mu.Unlock()
		return nil, model.ErrNotLoggedIn
	}
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return nil, model.ErrRoomNotFound
	}
	if room.Host != username {
		h.mu.Unlock()
		return nil, model.ErrNotHost
	}
	if room.Status != model.RoomStatusWaiting {
		h.mu.Unlock()
		return nil, model.ErrGameInProgress
	}
	if len(room.Players) < 2 {
		h.mu.Unlock()
		return nil, model.ErrTooFewPlayers
	}

	entry, dir, err := h.catalog.ResolveServerEntry(room.GameName, room.GameVersion)
	if err != nil {
		h.mu.Unlock()
		return nil, fmt.Errorf("resolve server entry: %w", errors.Join(model.ErrLaunchFailed, err))
	}

	port := h.allocatePortLocked()
	proc, err := h.launcher.Launch(ctx, LaunchSpec{Entry: entry, Dir: dir, Port: port})
	if err != nil {
		h.mu.Unlock()
		return nil, fmt.Errorf("spawn game server: %w", errors.Join(model.ErrLaunchFailed, err))
	}

	room.Status = model.RoomStatusPlaying
	room.GameServerPort = port
	h.procs[roomID] = proc

	players := append([]string(nil), room.Players...)
	if err := h.store.SaveRoom(ctx, room); err != nil {
		h.logger.Error("persist playing room failed",
			slog.String("room_id", string(roomID)),
			slog.Any("error", err),
		)
	}
	if err := h.catalog.RecordPlays(ctx, players, room.GameName, room.GameVersion); err != nil {
		h.logger.Error("record plays failed",
			slog.String("room_id", string(roomID)),
			slog.Any("error", err),
		)
	}

	go h.monitor(roomID, proc)
	h.mu.Unlock()

	// Probe readiness outside the lock so a slow game-server start does
	// not stall the whole lobby.
	readyCtx, cancel := context.WithTimeout(ctx, h.cfg.ReadyTimeout)
	defer cancel()
	if err := proc.Ready(readyCtx); err != nil {
		// The monitor reverts the room once the killed process exits
		_ = proc.Kill()
		return nil, fmt.Errorf("game server not ready: %w", errors.Join(model.ErrLaunchFailed, err))
	}

	h.logger.Info("match started",
		slog.String("room_id", string(roomID)),
		slog.Int("port", port),
		slog.Int("players", len(players)),
	)
	return &MatchInfo{RoomID: roomID, Port: port, Players: players}, nil
}

// monitor blocks on process exit and reverts the room to waiting. Runs
// once per launch, independent of any client request.
func (h *Hub) monitor(roomID model.RoomID, proc Process) {
	err := proc.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()

	// The room may have dissolved, or been relaunched, while we waited
	if h.procs[roomID] != proc {
		return
	}
	delete(h.procs, roomID)

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	room.Status = model.RoomStatusWaiting
	room.GameServerPort = 0
	if saveErr := h.store.SaveRoom(context.Background(), room); saveErr != nil {
		h.logger.Error("persist reverted room failed",
			slog.String("room_id", string(roomID)),
			slog.Any("error", saveErr),
		)
	}

	h.logger.Info("game server exited",
		slog.String("room_id", string(roomID)),
		slog.Any("exit_error", err),
	)
}

// allocatePortLocked hands out ports from a wrapping sequential counter
// over the configured range. Caller must hold h.mu.
func (h *Hub) allocatePortLocked() int {
	port := h.nextPort
	h.nextPort++
	if h.nextPort > h.cfg.PortEnd {
		h.nextPort = h.cfg.PortStart
	}
	return port
}
