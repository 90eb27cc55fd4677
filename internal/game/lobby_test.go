// internal/game/lobby_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLobby(t *testing.T) (*Lobby, uuid.UUID) {
	t.Helper()
	hostID := uuid.New()
	l := NewLobby(LobbySeat{UserID: hostID, Username: "host"}, rand.New(rand.NewSource(5)))
	return l, hostID
}

func TestNewLobbyHasJoinCode(t *testing.T) {
	l, hostID := newTestLobby(t)
	assert.Len(t, l.Code, 6)
	require.Len(t, l.Seats, 1)
	assert.Equal(t, hostID, l.Seats[0].UserID)
	assert.Equal(t, hostID, l.HostUserID)
	assert.False(t, l.InGame)
}

func TestLobbyJoinAndLeave(t *testing.T) {
	l, _ := newTestLobby(t)
	guest := LobbySeat{UserID: uuid.New(), Username: "guest"}

	require.NoError(t, l.Join(guest))
	assert.Len(t, l.Seats, 2)

	require.ErrorIs(t, l.Join(guest), ErrAlreadyInLobby)

	require.NoError(t, l.Leave(guest.UserID))
	assert.Len(t, l.Seats, 1)
	require.ErrorIs(t, l.Leave(guest.UserID), ErrPlayerNotSeated)
}

func TestLobbyCapacity(t *testing.T) {
	l, hostID := newTestLobby(t)
	for i := 0; i < MaxPlayers-1; i++ {
		require.NoError(t, l.AddAIPlayer(hostID))
	}
	require.ErrorIs(t, l.Join(LobbySeat{UserID: uuid.New()}), ErrLobbyFull)
	require.ErrorIs(t, l.AddAIPlayer(hostID), ErrLobbyFull)
}

func TestLobbyHostOnlyActions(t *testing.T) {
	l, _ := newTestLobby(t)
	stranger := uuid.New()

	require.ErrorIs(t, l.AddAIPlayer(stranger), ErrNotLobbyHost)
	require.ErrorIs(t, l.UpdateRules(stranger, map[string]interface{}{"timerEnabled": false}), ErrNotLobbyHost)
	_, err := l.StartGame(stranger)
	require.ErrorIs(t, err, ErrNotLobbyHost)
}

func TestLobbyStartGame(t *testing.T) {
	l, hostID := newTestLobby(t)

	// A single seat cannot start.
	_, err := l.StartGame(hostID)
	require.ErrorIs(t, err, ErrNotEnoughSeats)

	require.NoError(t, l.AddAIPlayer(hostID))
	require.NoError(t, l.UpdateRules(hostID, map[string]interface{}{"timerEnabled": false}))

	g, err := l.StartGame(hostID)
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, l.ID, g.LobbyID)
	assert.False(t, g.Rules.TimerEnabled)
	require.Len(t, g.Players, 2)
	assert.Equal(t, hostID, g.Players[0].ID)
	assert.True(t, g.Players[1].IsAI)
	assert.True(t, l.InGame)
	assert.Equal(t, g.ID, l.GameID)

	// The game is findable from its source lobby.
	games := NewGameStore()
	games.AddGame(g)
	assert.Equal(t, g, games.GetGameByLobbyID(l.ID))
	assert.Nil(t, games.GetGameByLobbyID(uuid.New()))

	// No second game while one is live.
	_, err = l.StartGame(hostID)
	require.ErrorIs(t, err, ErrLobbyInGame)
	require.ErrorIs(t, l.Join(LobbySeat{UserID: uuid.New()}), ErrLobbyInGame)

	l.FinishGame()
	assert.False(t, l.InGame)
}

func TestLobbySnapshotIsDetached(t *testing.T) {
	l, hostID := newTestLobby(t)
	require.NoError(t, l.AddAIPlayer(hostID))

	snap := l.Snapshot()
	assert.Equal(t, l.ID, snap.ID)
	assert.Equal(t, l.Code, snap.Code)
	assert.Equal(t, hostID, snap.HostUserID)
	require.Len(t, snap.Seats, 2)

	// Mutating the snapshot leaves the lobby untouched.
	snap.Seats[0].Username = "changed"
	assert.Equal(t, "host", l.Seats[0].Username)
}

func TestLobbyStoreCodeLookup(t *testing.T) {
	store := NewLobbyStore()
	l, _ := newTestLobby(t)
	store.AddLobby(l)

	found, ok := store.GetLobbyByCode(l.Code)
	require.True(t, ok)
	assert.Equal(t, l.ID, found.ID)

	// Codes are case-insensitive and trimmed.
	found, ok = store.GetLobbyByCode("  " + l.Code + " ")
	require.True(t, ok)
	assert.Equal(t, l.ID, found.ID)

	_, ok = store.GetLobbyByCode("NOPE99")
	assert.False(t, ok)

	store.DeleteLobby(l.ID)
	_, ok = store.GetLobby(l.ID)
	assert.False(t, ok)
}
