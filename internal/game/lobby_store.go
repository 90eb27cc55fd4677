// internal/game/lobby_store.go
package game

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LobbyStore manages ephemeral lobbies in memory only.
type LobbyStore struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*Lobby
}

// NewLobbyStore returns an in-memory store for Lobbies.
func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[uuid.UUID]*Lobby),
	}
}

func (s *LobbyStore) AddLobby(lobby *Lobby) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[lobby.ID] = lobby
}

func (s *LobbyStore) DeleteLobby(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, id)
}

func (s *LobbyStore) GetLobby(id uuid.UUID) (*Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	return l, ok
}

// GetLobbyByCode resolves a shareable join code, case-insensitively.
func (s *LobbyStore) GetLobbyByCode(code string) (*Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, l := range s.lobbies {
		if l.Code == code {
			return l, true
		}
	}
	return nil, false
}
