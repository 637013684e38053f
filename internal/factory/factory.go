package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/storage"
	"github.com/mcoot/gamehub/internal/storage/memory"
	redisstorage "github.com/mcoot/gamehub/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Store

	Clock  clock.Clock
	Random random.Random

	Catalog *catalog.Service
	Hub     *lobby.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PackageDir is where game packages are stored and extracted
	PackageDir string
	// Launcher spawns game-server processes (optional)
	// If nil, a real subprocess launcher is used
	Launcher lobby.Launcher
	// LobbyConfig tunes ports and readiness timeouts (optional)
	// If zero value, defaults to lobby.DefaultConfig()
	LobbyConfig lobby.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	launcher := cfg.Launcher
	if launcher == nil {
		launcher = &lobby.ExecLauncher{}
	}

	lobbyCfg := cfg.LobbyConfig
	if lobbyCfg.PortStart == 0 {
		lobbyCfg = lobby.DefaultConfig()
	}

	packageDir := cfg.PackageDir
	if packageDir == "" {
		packageDir = "data/packages"
	}

	return newWithDependencies(store, clk, rnd, launcher, lobbyCfg, packageDir, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Store,
	clk clock.Clock,
	rnd random.Random,
	launcher lobby.Launcher,
	lobbyCfg lobby.Config,
	packageDir string,
	logger *slog.Logger,
) *App {
	catalogService := catalog.New(store, clk, packageDir, logger)
	hub := lobby.New(store, catalogService, clk, rnd, launcher, lobbyCfg, logger)

	return &App{
		Storage: store,
		Clock:   clk,
		Random:  rnd,
		Catalog: catalogService,
		Hub:     hub,
	}
}
