// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/Cassssian/five-crowns/internal/models"
)

// SnapshotPlayer is the per-player view inside a GameSnapshot. All hands are
// sent to every client; the table is open.
type SnapshotPlayer struct {
	ID               uuid.UUID      `json:"id"`
	Username         string         `json:"username"`
	Avatar           string         `json:"avatar,omitempty"`
	BadgeID          string         `json:"badgeId,omitempty"`
	IsAI             bool           `json:"isAI"`
	Score            int            `json:"score"`
	HasFinishedRound bool           `json:"hasFinishedRound"`
	Connected        bool           `json:"connected"`
	Hand             []*models.Card `json:"hand"`
	HandSize         int            `json:"handSize"`
}

// GameSnapshot is a point-in-time, lock-consistent serialization of the game
// for one requesting player, used for reconnects and polling clients.
type GameSnapshot struct {
	GameID          uuid.UUID        `json:"gameId"`
	Status          GameStatus       `json:"status"`
	Round           int              `json:"round"`
	WildRank        models.Rank      `json:"wildCard"`
	Phase           TurnPhase        `json:"phase"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	TurnID          int              `json:"turn"`
	TimerEnabled    bool             `json:"timerEnabled"`
	TimerRemaining  int              `json:"timerRemaining"`
	DeckSize        int              `json:"deckSize"`
	DiscardSize     int              `json:"discardSize"`
	DiscardTop      *models.Card     `json:"discardTop,omitempty"`
	Players         []SnapshotPlayer `json:"players"`
	RoundOver       bool             `json:"roundOver"`
	FinisherID      uuid.UUID        `json:"finisherId,omitempty"`
	WinnerID        uuid.UUID        `json:"winnerId,omitempty"`
	RoundScores     map[string]int   `json:"roundScores,omitempty"`

	// Legal next steps for the requesting player, so clients need no rules
	// knowledge to enable buttons.
	YourTurn   bool `json:"yourTurn"`
	CanDraw    bool `json:"canDraw"`
	CanDiscard bool `json:"canDiscard"`
	CanLayDown bool `json:"canLayDown"`
}

// Snapshot returns the current state viewed by forPlayer.
func (g *FiveCrownsGame) Snapshot(forPlayer uuid.UUID) *GameSnapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshot(forPlayer)
}

// snapshot builds the view without locking. Assumes lock is held.
func (g *FiveCrownsGame) snapshot(forPlayer uuid.UUID) *GameSnapshot {
	snap := &GameSnapshot{
		GameID:         g.ID,
		Status:         g.Status,
		Round:          g.Round,
		WildRank:       g.WildRank,
		Phase:          g.Phase,
		TurnID:         g.TurnID,
		TimerEnabled:   g.Rules.TimerEnabled,
		TimerRemaining: g.TimerRemaining,
		DeckSize:       len(g.Deck),
		DiscardSize:    len(g.DiscardPile),
		RoundOver:      g.RoundOver,
		FinisherID:     g.FinisherID,
		WinnerID:       g.WinnerID,
	}
	if cur := g.currentPlayer(); cur != nil {
		snap.CurrentPlayerID = cur.ID
	}
	if n := len(g.DiscardPile); n > 0 {
		snap.DiscardTop = g.DiscardPile[n-1]
	}
	if g.LastRoundScores != nil {
		snap.RoundScores = make(map[string]int, len(g.LastRoundScores))
		for id, s := range g.LastRoundScores {
			snap.RoundScores[id.String()] = s
		}
	}

	snap.Players = make([]SnapshotPlayer, 0, len(g.Players))
	for _, p := range g.Players {
		snap.Players = append(snap.Players, SnapshotPlayer{
			ID:               p.ID,
			Username:         p.Username,
			Avatar:           p.Avatar,
			BadgeID:          p.BadgeID,
			IsAI:             p.IsAI,
			Score:            p.Score,
			HasFinishedRound: p.HasFinishedRound,
			Connected:        p.Connected,
			Hand:             p.Hand,
			HandSize:         len(p.Hand),
		})
	}

	if g.Status == StatusInProgress && !g.RoundOver && snap.CurrentPlayerID == forPlayer {
		snap.YourTurn = true
		switch g.Phase {
		case PhaseAwaitingDraw:
			snap.CanDraw = true
		case PhaseAwaitingDiscard:
			snap.CanDiscard = true
		case PhaseAwaitingEndOrLayDown:
			snap.CanLayDown = true
		}
	}
	return snap
}
