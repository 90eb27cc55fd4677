// internal/game/game_store.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore holds all live games in memory.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*FiveCrownsGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*FiveCrownsGame),
	}
}

func (s *GameStore) AddGame(game *FiveCrownsGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
}

func (s *GameStore) GetGame(id uuid.UUID) (*FiveCrownsGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// GetGameByLobbyID returns the game spawned from a given lobby, or nil.
func (s *GameStore) GetGameByLobbyID(lobbyID uuid.UUID) *FiveCrownsGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.LobbyID == lobbyID {
			return g
		}
	}
	return nil
}
