package model

import "time"

// VersionInfo is upload metadata for one published version of a game
type VersionInfo struct {
	UploadedAt  time.Time `json:"uploaded_at"`
	Description string    `json:"description"`
}

// Review is a single player review of a game
type Review struct {
	Player    string    `json:"player"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Game is a published game in the catalog. Name is the unique identity;
// Developer is the owning account. Inactive games are hidden from players
// but kept for history.
type Game struct {
	Name           string                 `json:"name"`
	Developer      string                 `json:"developer"`
	Description    string                 `json:"description"`
	Type           string                 `json:"type"`
	MaxPlayers     int                    `json:"max_players"`
	CurrentVersion string                 `json:"current_version"`
	Versions       map[string]VersionInfo `json:"versions"`
	IsActive       bool                   `json:"is_active"`
	TotalRating    float64                `json:"total_rating"`
	RatingCount    int                    `json:"rating_count"`
	Reviews        []Review               `json:"reviews"`
	CreatedAt      time.Time              `json:"created_at"`
}

// HasVersion reports whether the given version has been published
func (g *Game) HasVersion(version string) bool {
	_, ok := g.Versions[version]
	return ok
}

// AddVersion publishes a new version and makes it current
func (g *Game) AddVersion(version, description string, now time.Time) {
	if g.Versions == nil {
		g.Versions = make(map[string]VersionInfo)
	}
	g.Versions[version] = VersionInfo{UploadedAt: now, Description: description}
	g.CurrentVersion = version
}

// AddReview appends a review and folds it into the aggregate rating
func (g *Game) AddReview(review Review) {
	g.Reviews = append(g.Reviews, review)
	g.TotalRating += float64(review.Rating)
	g.RatingCount++
}

// AverageRating returns the mean rating, or 0 with no reviews
func (g *Game) AverageRating() float64 {
	if g.RatingCount == 0 {
		return 0
	}
	return g.TotalRating / float64(g.RatingCount)
}

// Clone returns a deep copy that can be read without any lock
func (g *Game) Clone() *Game {
	clone := *g
	if g.Versions != nil {
		clone.Versions = make(map[string]VersionInfo, len(g.Versions))
		for version, info := range g.Versions {
			clone.Versions[version] = info
		}
	}
	clone.Reviews = append([]Review(nil), g.Reviews...)
	return &clone
}

// RecentReviews returns up to n of the most recent reviews
func (g *Game) RecentReviews(n int) []Review {
	if len(g.Reviews) <= n {
		return g.Reviews
	}
	return g.Reviews[len(g.Reviews)-n:]
}
