package protocol

import "time"

// Typed payloads for each message type, shared by server and client.

// RegisterRequest is the payload for REGISTER
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest is the payload for LOGIN. Role is the claimed account type;
// a mismatch is rejected as invalid credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginData is returned on successful LOGIN
type LoginData struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ListOnlineRequest is the payload for LIST_ONLINE
type ListOnlineRequest struct {
	Role string `json:"role,omitempty"`
}

// ListOnlineData is returned for LIST_ONLINE
type ListOnlineData struct {
	Users []string `json:"users"`
}

// ListGamesRequest is the payload for LIST_GAMES. Mine requests the
// caller's own games (developers only), including inactive ones.
type ListGamesRequest struct {
	Mine bool `json:"mine,omitempty"`
}

// GameSummary is one entry in a LIST_GAMES response
type GameSummary struct {
	Name           string  `json:"name"`
	Developer      string  `json:"developer"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	MaxPlayers     int     `json:"max_players"`
	CurrentVersion string  `json:"current_version"`
	Rating         float64 `json:"rating"`
	RatingCount    int     `json:"rating_count"`
	IsActive       bool    `json:"is_active"`
}

// ListGamesData is returned for LIST_GAMES
type ListGamesData struct {
	Games []GameSummary `json:"games"`
}

// GetGameInfoRequest is the payload for GET_GAME_INFO
type GetGameInfoRequest struct {
	Name string `json:"name"`
}

// VersionData is one published version in a GET_GAME_INFO response
type VersionData struct {
	Version     string    `json:"version"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Description string    `json:"description"`
}

// ReviewData is one review entry
type ReviewData struct {
	Player    string    `json:"player"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// GameInfoData is returned for GET_GAME_INFO
type GameInfoData struct {
	GameSummary
	Versions []VersionData `json:"versions"`
	Reviews  []ReviewData  `json:"reviews"`
}

// DownloadGameRequest is the payload for DOWNLOAD_GAME. Empty version
// means the current version.
type DownloadGameRequest struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// DownloadGameData is returned before the binary transfer begins
type DownloadGameData struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Size    int64  `json:"size"`
}

// UploadGameRequest is the payload for UPLOAD_GAME. The package zip
// follows on the binary sub-protocol after a SUCCESS response.
type UploadGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	MaxPlayers  int    `json:"max_players,omitempty"`
}

// UpdateGameRequest is the payload for UPDATE_GAME
type UpdateGameRequest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// RemoveGameRequest is the payload for REMOVE_GAME
type RemoveGameRequest struct {
	Name string `json:"name"`
}

// CreateRoomRequest is the payload for CREATE_ROOM. Empty version means
// the game's current version.
type CreateRoomRequest struct {
	GameName    string `json:"game_name"`
	GameVersion string `json:"game_version,omitempty"`
}

// CreateRoomData is returned on successful CREATE_ROOM
type CreateRoomData struct {
	RoomID      string `json:"room_id"`
	GameName    string `json:"game_name"`
	GameVersion string `json:"game_version"`
	MaxPlayers  int    `json:"max_players"`
}

// JoinRoomRequest is the payload for JOIN_ROOM
type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

// JoinRoomData is returned on successful JOIN_ROOM
type JoinRoomData struct {
	RoomID   string   `json:"room_id"`
	GameName string   `json:"game_name"`
	Players  []string `json:"players"`
}

// LeaveRoomRequest is the payload for LEAVE_ROOM
type LeaveRoomRequest struct {
	RoomID string `json:"room_id"`
}

// RoomData is one entry in a LIST_ROOMS response. GameServerPort is set
// only while the room is playing, so clients can reconnect to a match.
type RoomData struct {
	RoomID         string    `json:"room_id"`
	Host           string    `json:"host"`
	GameName       string    `json:"game_name"`
	GameVersion    string    `json:"game_version"`
	MaxPlayers     int       `json:"max_players"`
	Players        []string  `json:"players"`
	Status         string    `json:"status"`
	GameServerPort int       `json:"game_server_port,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListRoomsData is returned for LIST_ROOMS
type ListRoomsData struct {
	Rooms []RoomData `json:"rooms"`
}

// StartGameRequest is the payload for START_GAME
type StartGameRequest struct {
	RoomID string `json:"room_id"`
}

// StartGameData is returned once the game server process is up
type StartGameData struct {
	RoomID         string   `json:"room_id"`
	GameServerPort int      `json:"game_server_port"`
	Players        []string `json:"players"`
}

// AddReviewRequest is the payload for ADD_REVIEW
type AddReviewRequest struct {
	GameName string `json:"game_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment,omitempty"`
}

// GetReviewsRequest is the payload for GET_REVIEWS
type GetReviewsRequest struct {
	GameName string `json:"game_name"`
}

// GetReviewsData is returned for GET_REVIEWS
type GetReviewsData struct {
	Reviews       []ReviewData `json:"reviews"`
	AverageRating float64      `json:"average_rating"`
	RatingCount   int          `json:"rating_count"`
}

// RecordData is one entry in a GET_PLAYER_RECORDS response
type RecordData struct {
	GameName    string    `json:"game_name"`
	GameVersion string    `json:"game_version"`
	PlayedAt    time.Time `json:"played_at"`
	HasReviewed bool      `json:"has_reviewed"`
}

// PlayerRecordsData is returned for GET_PLAYER_RECORDS
type PlayerRecordsData struct {
	Records []RecordData `json:"records"`
}
