// internal/models/user.go
package models

import "github.com/google/uuid"

// User is a persisted account. All players are ephemeral guests claimed by a
// session cookie; the row exists so finished games and win counters have a
// stable owner.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Avatar      string    `json:"avatar"`
	BadgeID     string    `json:"badge"`
	IsEphemeral bool      `json:"is_ephemeral"`

	TotalGames int `json:"total_games"`
	TotalWins  int `json:"total_wins"`
}
