package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

const initialVersion = "1.0.0"

// Service manages the game catalog: published games and versions, their
// package files on disk, player reviews, and play records. All access to
// catalog entities is serialized by the service's own mutex, and read
// paths hand out deep copies so callers never share the stored objects
// with concurrent writers. Room and session state is not touched here.
type Service struct {
	mu sync.Mutex

	store      storage.Store
	clock      clock.Clock
	packageDir string
	logger     *slog.Logger
}

// New creates a catalog service storing package files under packageDir
func New(store storage.Store, clk clock.Clock, packageDir string, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		clock:      clk,
		packageDir: packageDir,
		logger:     logger,
	}
}

// ListActiveGames returns snapshots of the catalog games visible to
// players
func (s *Service) ListActiveGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*model.Game, 0, len(games))
	for _, g := range games {
		if g.IsActive {
			active = append(active, g.Clone())
		}
	}
	sortGames(active)
	return active, nil
}

// ListDeveloperGames returns all games owned by a developer, inactive
// ones included
func (s *Service) ListDeveloperGames(ctx context.Context, developer string) ([]*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	var owned []*model.Game
	for _, g := range games {
		if g.Developer == developer {
			owned = append(owned, g.Clone())
		}
	}
	sortGames(owned)
	return owned, nil
}

// GetActiveGame returns a snapshot of a game visible to players, or
// ErrGameInactive if it has been taken down
func (s *Service) GetActiveGame(ctx context.Context, name string) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, name)
	if err != nil {
		return nil, err
	}
	if !game.IsActive {
		return nil, model.ErrGameInactive
	}
	return game.Clone(), nil
}

// ResolveVersion validates the requested version against the game,
// defaulting to the game's current version when empty
func (s *Service) ResolveVersion(game *model.Game, version string) (string, error) {
	if version == "" {
		return game.CurrentVersion, nil
	}
	if !game.HasVersion(version) {
		return "", model.ErrVersionNotFound
	}
	return version, nil
}

// CreateGame publishes a new game at the initial version. The package
// files are delivered separately via SavePackage.
func (s *Service) CreateGame(ctx context.Context, developer, name, description, gameType string, maxPlayers int) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetGame(ctx, name); err == nil {
		return nil, model.ErrGameExists
	}

	if gameType == "" {
		gameType = "cli"
	}
	if maxPlayers <= 0 {
		maxPlayers = 2
	}

	now := s.clock.Now()
	game := &model.Game{
		Name:        name,
		Developer:   developer,
		Description: description,
		Type:        gameType,
		MaxPlayers:  maxPlayers,
		IsActive:    true,
		CreatedAt:   now,
	}
	game.AddVersion(initialVersion, "Initial version", now)

	if err := s.store.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game published",
		slog.String("game", name),
		slog.String("developer", developer),
	)
	return game.Clone(), nil
}

// AddVersion publishes a new version of an existing game owned by the
// developer and makes it current
func (s *Service) AddVersion(ctx context.Context, developer, name, version, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, name)
	if err != nil {
		return err
	}
	if game.Developer != developer {
		return model.ErrNotGameOwner
	}
	if game.HasVersion(version) {
		return model.ErrVersionExists
	}

	game.AddVersion(version, description, s.clock.Now())
	if err := s.store.SaveGame(ctx, game); err != nil {
		return err
	}

	s.logger.Info("game version published",
		slog.String("game", name),
		slog.String("version", version),
	)
	return nil
}

// Deactivate soft-deletes a game owned by the developer. Records and
// reviews are kept; the game disappears from player-facing listings.
func (s *Service) Deactivate(ctx context.Context, developer, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, name)
	if err != nil {
		return err
	}
	if game.Developer != developer {
		return model.ErrNotGameOwner
	}

	game.IsActive = false
	if err := s.store.SaveGame(ctx, game); err != nil {
		return err
	}

	s.logger.Info("game removed from catalog", slog.String("game", name))
	return nil
}

// RecordPlays appends a play record for each player. Called by the match
// launcher when a game server starts.
func (s *Service) RecordPlays(ctx context.Context, players []string, gameName, gameVersion string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for _, player := range players {
		record := &model.PlayerGameRecord{
			ID:          model.RecordID(uuid.NewString()),
			Player:      player,
			GameName:    gameName,
			GameVersion: gameVersion,
			PlayedAt:    now,
		}
		if err := s.store.SaveRecord(ctx, record); err != nil {
			return fmt.Errorf("save play record for %s: %w", player, err)
		}
	}
	return nil
}

// PlayerRecords returns snapshots of a player's play history, most
// recent first
func (s *Service) PlayerRecords(ctx context.Context, player string) ([]*model.PlayerGameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ListRecordsForPlayer(ctx, player)
	if err != nil {
		return nil, err
	}

	out := make([]*model.PlayerGameRecord, 0, len(records))
	for _, r := range records {
		clone := *r
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayedAt.After(out[j].PlayedAt)
	})
	return out, nil
}

// AddReview adds a player review to a game. The player must have a play
// record for the game; their records are marked reviewed.
func (s *Service) AddReview(ctx context.Context, player, gameName string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return model.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, gameName)
	if err != nil {
		return err
	}

	records, err := s.store.ListRecordsForPlayer(ctx, player)
	if err != nil {
		return err
	}

	var played []*model.PlayerGameRecord
	for _, r := range records {
		if r.GameName == gameName {
			played = append(played, r)
		}
	}
	if len(played) == 0 {
		return model.ErrNotPlayed
	}

	game.AddReview(model.Review{
		Player:    player,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.clock.Now(),
	})
	if err := s.store.SaveGame(ctx, game); err != nil {
		return err
	}

	for _, r := range played {
		r.HasReviewed = true
		if err := s.store.SaveRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// GetGame returns a snapshot of a game regardless of its active flag.
// Owner-facing paths use this; player-facing paths go through
// GetActiveGame.
func (s *Service) GetGame(ctx context.Context, name string) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, name)
	if err != nil {
		return nil, err
	}
	return game.Clone(), nil
}

// GetReviews returns a game's reviews and aggregate rating. Works for
// inactive games too, so history stays readable.
func (s *Service) GetReviews(ctx context.Context, gameName string) (*model.Game, error) {
	return s.GetGame(ctx, gameName)
}

// sortGames orders listings by name for stable output
func sortGames(games []*model.Game) {
	sort.Slice(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})
}

// Package file layout: <packageDir>/<game>/<version>/ holds the stored
// package.zip plus its extracted contents.

// versionDir returns the on-disk directory for one game version
func (s *Service) versionDir(name, version string) string {
	return filepath.Join(s.packageDir, name, version)
}

// packagePath returns the stored zip path for one game version
func (s *Service) packagePath(name, version string) string {
	return filepath.Join(s.versionDir(name, version), "package.zip")
}

// SavePackage stores an uploaded package zip for a game version and
// extracts it so the game server entry point is runnable
func (s *Service) SavePackage(ctx context.Context, name, version string, data []byte) error {
	dir := s.versionDir(name, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create package dir: %w", err)
	}

	zipPath := s.packagePath(name, version)
	if err := os.WriteFile(zipPath, data, 0o644); err != nil {
		return fmt.Errorf("write package: %w", err)
	}

	if err := extractZip(zipPath, dir); err != nil {
		return fmt.Errorf("extract package: %w", err)
	}

	s.logger.Info("game package stored",
		slog.String("game", name),
		slog.String("version", version),
		slog.Int("size", len(data)),
	)
	return nil
}

// LoadPackage returns the stored package zip for a game version
func (s *Service) LoadPackage(ctx context.Context, name, version string) ([]byte, error) {
	data, err := os.ReadFile(s.packagePath(name, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrPackageNotFound
		}
		return nil, err
	}
	return data, nil
}

// ResolveServerEntry locates the game server entry point for a version.
// Returns the entry point path and the working directory to run it in.
// The entry point is the file whose base name ends in "_server" (any
// extension) or is exactly "server".
func (s *Service) ResolveServerEntry(name, version string) (entry string, dir string, err error) {
	dir = s.versionDir(name, version)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", model.ErrPackageNotFound
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := e.Name()
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if strings.HasSuffix(stem, "_server") || stem == "server" {
			candidates = append(candidates, base)
		}
	}
	if len(candidates) == 0 {
		return "", "", model.ErrPackageNotFound
	}

	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), dir, nil
}
