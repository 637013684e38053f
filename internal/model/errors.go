package model

import "errors"

// Common errors used across the application
var (
	// User and session errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAlreadyOnline      = errors.New("account is already logged in elsewhere")
	ErrNotLoggedIn        = errors.New("not logged in")

	// Game catalog errors
	ErrGameNotFound    = errors.New("game not found")
	ErrGameInactive    = errors.New("game has been removed from the catalog")
	ErrGameExists      = errors.New("game name already exists")
	ErrVersionNotFound = errors.New("game version not found")
	ErrVersionExists   = errors.New("game version already exists")
	ErrNotGameOwner    = errors.New("game belongs to another developer")
	ErrPackageNotFound = errors.New("game package files not found")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("already in a room")
	ErrNotInRoom      = errors.New("not a member of this room")
	ErrNotHost        = errors.New("only the host can do this")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrGameInProgress = errors.New("game is already in progress")
	ErrLaunchFailed   = errors.New("failed to launch game server")

	// Review errors
	ErrNotPlayed     = errors.New("game has not been played by this account")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
