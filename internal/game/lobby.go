// internal/game/lobby.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/Cassssian/five-crowns/internal/models"
)

var (
	ErrLobbyFull       = errors.New("lobby is full")
	ErrLobbyInGame     = errors.New("lobby already started a game")
	ErrNotEnoughSeats  = errors.New("not enough players to start")
	ErrNotLobbyHost    = errors.New("only the host may do that")
	ErrAlreadyInLobby  = errors.New("player already seated")
	ErrPlayerNotSeated = errors.New("player not in lobby")
)

// aiNames seeds usernames for filled AI seats.
var aiNames = []string{"Ada", "Blaise", "Curie", "Dijkstra", "Euler", "Fermat"}

// joinCodeAlphabet avoids ambiguous characters in shareable codes.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// LobbySeat is one pre-game seat, human or AI.
type LobbySeat struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar,omitempty"`
	BadgeID  string    `json:"badgeId,omitempty"`
	IsAI     bool      `json:"isAI"`
}

// Lobby is the pre-game staging area: players gather via a shareable join
// code, the host fills empty seats with AI, then starts the game. Serialize
// via Snapshot, never the Lobby itself.
type Lobby struct {
	ID         uuid.UUID
	Code       string
	HostUserID uuid.UUID

	Rules GameRules

	Seats  []LobbySeat
	InGame bool
	GameID uuid.UUID

	mu sync.Mutex
}

// LobbySnapshot is a point-in-time copy of the lobby state, safe to hold and
// serialize without the lobby lock.
type LobbySnapshot struct {
	ID         uuid.UUID   `json:"id"`
	Code       string      `json:"code"`
	HostUserID uuid.UUID   `json:"hostUserId"`
	Rules      GameRules   `json:"rules"`
	Seats      []LobbySeat `json:"seats"`
	InGame     bool        `json:"inGame"`
	GameID     uuid.UUID   `json:"gameId"`
}

// NewLobby creates a lobby hosted by the given user, who takes the first
// seat.
func NewLobby(host LobbySeat, rng *rand.Rand) *Lobby {
	lobbyID, _ := uuid.NewV7()
	code := make([]byte, 6)
	for i := range code {
		code[i] = joinCodeAlphabet[rng.Intn(len(joinCodeAlphabet))]
	}
	return &Lobby{
		ID:         lobbyID,
		Code:       string(code),
		HostUserID: host.UserID,
		Rules:      DefaultGameRules(),
		Seats:      []LobbySeat{host},
	}
}

// Join seats a human player.
func (l *Lobby) Join(seat LobbySeat) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.InGame {
		return ErrLobbyInGame
	}
	if len(l.Seats) >= l.Rules.MaxPlayers {
		return ErrLobbyFull
	}
	for _, s := range l.Seats {
		if s.UserID == seat.UserID {
			return ErrAlreadyInLobby
		}
	}
	l.Seats = append(l.Seats, seat)
	return nil
}

// Leave removes a player's seat before the game starts.
func (l *Lobby) Leave(userID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.InGame {
		return ErrLobbyInGame
	}
	for i, s := range l.Seats {
		if s.UserID == userID {
			l.Seats = append(l.Seats[:i], l.Seats[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotSeated
}

// AddAIPlayer seats one AI opponent. Host only.
func (l *Lobby) AddAIPlayer(requestedBy uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if requestedBy != l.HostUserID {
		return ErrNotLobbyHost
	}
	if l.InGame {
		return ErrLobbyInGame
	}
	if len(l.Seats) >= l.Rules.MaxPlayers {
		return ErrLobbyFull
	}
	aiCount := 0
	for _, s := range l.Seats {
		if s.IsAI {
			aiCount++
		}
	}
	name := fmt.Sprintf("Bot %d", aiCount+1)
	if aiCount < len(aiNames) {
		name = aiNames[aiCount]
	}
	aiID, _ := uuid.NewRandom()
	l.Seats = append(l.Seats, LobbySeat{
		UserID:   aiID,
		Username: name,
		IsAI:     true,
	})
	return nil
}

// UpdateRules applies a partial rules update. Host only, pre-game only.
func (l *Lobby) UpdateRules(requestedBy uuid.UUID, patch map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if requestedBy != l.HostUserID {
		return ErrNotLobbyHost
	}
	if l.InGame {
		return ErrLobbyInGame
	}
	return l.Rules.Update(patch)
}

// StartGame converts the lobby's seats into a running FiveCrownsGame. Host
// only; seat order becomes turn order.
func (l *Lobby) StartGame(requestedBy uuid.UUID) (*FiveCrownsGame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if requestedBy != l.HostUserID {
		return nil, ErrNotLobbyHost
	}
	if l.InGame {
		return nil, ErrLobbyInGame
	}
	if len(l.Seats) < MinPlayers {
		return nil, ErrNotEnoughSeats
	}

	g := NewFiveCrownsGame()
	g.LobbyID = l.ID
	g.Rules = l.Rules
	for _, s := range l.Seats {
		g.Players = append(g.Players, &models.GamePlayer{
			ID:        s.UserID,
			Username:  s.Username,
			Avatar:    s.Avatar,
			BadgeID:   s.BadgeID,
			IsAI:      s.IsAI,
			Connected: s.IsAI,
		})
	}

	l.InGame = true
	l.GameID = g.ID
	return g, nil
}

// FinishGame reopens the lobby once its game completes, so the same group
// can start another.
func (l *Lobby) FinishGame() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InGame = false
	l.GameID = uuid.Nil
}

// Snapshot returns the current lobby state as a detached copy.
func (l *Lobby) Snapshot() LobbySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	seats := make([]LobbySeat, len(l.Seats))
	copy(seats, l.Seats)
	return LobbySnapshot{
		ID:         l.ID,
		Code:       l.Code,
		HostUserID: l.HostUserID,
		Rules:      l.Rules,
		Seats:      seats,
		InGame:     l.InGame,
		GameID:     l.GameID,
	}
}
