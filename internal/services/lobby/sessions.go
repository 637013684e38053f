package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/model"
)

// Register creates a new account with the given role
func (h *Hub) Register(ctx context.Context, username, password string, role model.Role) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required: %w", model.ErrInvalidCredentials)
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q: %w", role, model.ErrInvalidCredentials)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.store.GetUser(ctx, username); err == nil {
		return model.ErrUsernameTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    h.clock.Now(),
	}
	if err := h.store.SaveUser(ctx, user); err != nil {
		return err
	}

	h.logger.Info("user registered",
		slog.String("username", username),
		slog.String("role", string(role)),
	)
	return nil
}

// Login authenticates a user and marks them online. Each account allows
// at most one live session; a second concurrent login is rejected with
// ErrAlreadyOnline. The requested role must match the account's role.
func (h *Hub) Login(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	user, err := h.store.GetUser(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, model.ErrInvalidCredentials
	}
	if role != "" && user.Role != role {
		return nil, model.ErrInvalidCredentials
	}
	if _, isOnline := h.online[username]; isOnline || user.IsOnline {
		return nil, model.ErrAlreadyOnline
	}

	now := h.clock.Now()
	user.IsOnline = true
	user.LastLogin = &now
	if err := h.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	h.online[username] = user
	h.logger.Info("user logged in", slog.String("username", username))
	return user, nil
}

// Logout marks a user offline and removes them from any room they were
// in, following the same membership rules as an explicit leave
func (h *Hub) Logout(ctx context.Context, username string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, isOnline := h.online[username]; !isOnline {
		return model.ErrNotLoggedIn
	}
	return h.endSessionLocked(ctx, username)
}

// Disconnect runs the disconnect cascade for a dropped connection. A
// connection that never logged in disconnects without effect.
func (h *Hub) Disconnect(ctx context.Context, username string) {
	if username == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, isOnline := h.online[username]; !isOnline {
		return
	}
	if err := h.endSessionLocked(ctx, username); err != nil {
		h.logger.Error("disconnect cascade failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
}

// endSessionLocked clears a user's room membership and online flag.
// Caller must hold h.mu.
func (h *Hub) endSessionLocked(ctx context.Context, username string) error {
	if roomID, inRoom := h.memberOf[username]; inRoom {
		if err := h.removeFromRoomLocked(ctx, username, roomID); err != nil {
			return err
		}
	}

	user := h.online[username]
	user.IsOnline = false
	if err := h.store.SaveUser(ctx, user); err != nil {
		return err
	}

	delete(h.online, username)
	h.logger.Info("user logged out", slog.String("username", username))
	return nil
}

// OnlineUser is a presence-listing entry
type OnlineUser struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// ListOnline returns currently-online users, optionally filtered by role
func (h *Hub) ListOnline(roleFilter model.Role) []OnlineUser {
	h.mu.Lock()
	defer h.mu.Unlock()

	users := make([]OnlineUser, 0, len(h.online))
	for _, user := range h.online {
		if roleFilter != "" && user.Role != roleFilter {
			continue
		}
		users = append(users, OnlineUser{Username: user.Username, Role: user.Role})
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}

// IsOnline reports whether a user has a live session
func (h *Hub) IsOnline(username string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, online := h.online[username]
	return online
}
