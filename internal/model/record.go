package model

import "time"

// RecordID uniquely identifies a play record
type RecordID string

// PlayerGameRecord is an append-only audit entry created when a match
// launches. A player may only review games they have a record for.
type PlayerGameRecord struct {
	ID          RecordID  `json:"id"`
	Player      string    `json:"player"`
	GameName    string    `json:"game_name"`
	GameVersion string    `json:"game_version"`
	PlayedAt    time.Time `json:"played_at"`
	HasReviewed bool      `json:"has_reviewed"`
}
