// internal/handlers/lobby_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cassssian/five-crowns/internal/auth"
	"github.com/Cassssian/five-crowns/internal/game"
)

func init() {
	// Runtime keys; no database or Redis in these tests, so identities live
	// only in the signed cookies.
	auth.Init()
}

// doJSON performs a request against the handler and returns the recorder.
// cookie carries the caller's identity between calls.
func doJSON(t *testing.T, h http.HandlerFunc, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != "" {
		req.Header.Set("Cookie", "auth_token="+cookie)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			return c.Value
		}
	}
	return ""
}

func TestLobbyLifecycleOverHTTP(t *testing.T) {
	gs := NewGameServer()

	// Host creates a lobby; a guest identity is minted on the fly.
	rec := doJSON(t, CreateLobbyHandler(gs), http.MethodPost, "/lobby/create",
		`{"username":"alice"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	hostCookie := cookieFrom(t, rec)
	require.NotEmpty(t, hostCookie)

	var lobby game.LobbySnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lobby))
	require.Len(t, lobby.Code, 6)
	require.Len(t, lobby.Seats, 1)
	assert.Equal(t, "alice", lobby.Seats[0].Username)

	// A second player joins by code.
	rec = doJSON(t, JoinLobbyHandler(gs), http.MethodPost, "/lobby/join/"+lobby.Code,
		`{"username":"bob"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	guestCookie := cookieFrom(t, rec)
	require.NotEmpty(t, guestCookie)

	var joined game.LobbySnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	require.Len(t, joined.Seats, 2)

	// Unknown codes are a 404.
	rec = doJSON(t, JoinLobbyHandler(gs), http.MethodPost, "/lobby/join/XXXXXX", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Only the host may add an AI seat.
	rec = doJSON(t, AddAIHandler(gs), http.MethodPost, "/lobby/ai/"+lobby.ID.String(), "", guestCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, AddAIHandler(gs), http.MethodPost, "/lobby/ai/"+lobby.ID.String(), "", hostCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// Host tunes the rules, then starts the game.
	rec = doJSON(t, UpdateRulesHandler(gs), http.MethodPost, "/lobby/rules/"+lobby.ID.String(),
		`{"timerEnabled":false}`, hostCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, StartGameHandler(gs), http.MethodPost, "/lobby/start/"+lobby.ID.String(), "", hostCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var started map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.NotEmpty(t, started["gameId"])

	// The game is live and queryable from the host's perspective.
	rec = doJSON(t, GetGameStateHandler(gs), http.MethodGet, "/game/state/"+started["gameId"], "", hostCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap game.GameSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, game.StatusInProgress, snap.Status)
	assert.Equal(t, 1, snap.Round)
	require.Len(t, snap.Players, 3)
	assert.True(t, snap.YourTurn)

	// Starting twice is rejected.
	rec = doJSON(t, StartGameHandler(gs), http.MethodPost, "/lobby/start/"+lobby.ID.String(), "", hostCookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExtractCookieToken(t *testing.T) {
	assert.Equal(t, "abc", extractCookieToken("auth_token=abc", "auth_token"))
	assert.Equal(t, "abc", extractCookieToken("other=x; auth_token=abc; foo=y", "auth_token"))
	assert.Equal(t, "", extractCookieToken("other=x", "auth_token"))
}
