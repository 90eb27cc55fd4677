// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// GamePlayer is one seat in a running game. Username, Avatar and BadgeID are
// display metadata carried for the UI; the engine never interprets them.
type GamePlayer struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	BadgeID  string    `json:"badge"`
	IsAI     bool      `json:"isAI"`

	Hand             []*Card `json:"hand"`
	Score            int     `json:"score"`
	HasFinishedRound bool    `json:"hasFinishedRound"`

	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}
