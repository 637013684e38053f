package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/storage"
)

// Config tunes the hub's match-launching behaviour
type Config struct {
	// PortStart and PortEnd bound the game-server port range, inclusive
	PortStart int
	PortEnd   int
	// ReadyTimeout bounds how long StartGame waits for a spawned game
	// server to accept connections
	ReadyTimeout time.Duration
}

// DefaultConfig returns the default hub configuration
func DefaultConfig() Config {
	return Config{
		PortStart:    10000,
		PortEnd:      10999,
		ReadyTimeout: 10 * time.Second,
	}
}

// Hub is the lobby coordinator. It owns the online-session table and the
// room table together under one mutex, because operations cross both: a
// disconnect must drop the session and the room membership without any
// other goroutine observing an intermediate state.
//
// Mutations are written through to the store before the mutating call
// returns, while the lock is still held. The in-memory tables are the
// working copy; the store is the source of truth across restarts.
type Hub struct {
	mu sync.Mutex

	store    storage.Store
	catalog  *catalog.Service
	clock    clock.Clock
	random   random.Random
	launcher Launcher
	logger   *slog.Logger
	cfg      Config

	online   map[string]*model.User
	rooms    map[model.RoomID]*model.Room
	memberOf map[string]model.RoomID
	procs    map[model.RoomID]Process

	nextPort int
}

// New creates a hub. Call Load before serving connections.
func New(
	store storage.Store,
	catalogService *catalog.Service,
	clk clock.Clock,
	rnd random.Random,
	launcher Launcher,
	cfg Config,
	logger *slog.Logger,
) *Hub {
	return &Hub{
		store:    store,
		catalog:  catalogService,
		clock:    clk,
		random:   rnd,
		launcher: launcher,
		logger:   logger,
		cfg:      cfg,
		online:   make(map[string]*model.User),
		rooms:    make(map[model.RoomID]*model.Room),
		memberOf: make(map[string]model.RoomID),
		procs:    make(map[model.RoomID]Process),
		nextPort: cfg.PortStart,
	}
}

// Load primes the in-memory tables from the store. Any game-server
// processes died with the previous lobby, so rooms come back as waiting
// with no port, and every user's online flag is reset.
func (h *Hub) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	for _, user := range users {
		if user.IsOnline {
			user.IsOnline = false
			if err := h.store.SaveUser(ctx, user); err != nil {
				return fmt.Errorf("reset online flag for %s: %w", user.Username, err)
			}
		}
	}

	rooms, err := h.store.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	for _, room := range rooms {
		room.Status = model.RoomStatusWaiting
		room.GameServerPort = 0
		if err := h.store.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("reset room %s: %w", room.ID, err)
		}
		h.rooms[room.ID] = room
		for _, player := range room.Players {
			h.memberOf[player] = room.ID
		}
	}

	h.logger.Info("lobby state loaded",
		slog.Int("users", len(users)),
		slog.Int("rooms", len(rooms)),
	)
	return nil
}

// Stats is a point-in-time snapshot of lobby activity
type Stats struct {
	OnlineUsers  int `json:"online_users"`
	Rooms        int `json:"rooms"`
	RoomsPlaying int `json:"rooms_playing"`
}

// Stats returns a snapshot of current lobby activity
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := Stats{
		OnlineUsers: len(h.online),
		Rooms:       len(h.rooms),
	}
	for _, room := range h.rooms {
		if room.Status == model.RoomStatusPlaying {
			stats.RoomsPlaying++
		}
	}
	return stats
}
