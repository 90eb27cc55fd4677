// internal/handlers/game.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// GetGameStateHandler returns a full snapshot of the game from the caller's
// perspective: GET /game/state/{game_id}. Polling alternative to the
// WebSocket stream, also used by reconnecting clients.
func GetGameStateHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/game/state/")
		gameID, err := uuid.Parse(idStr)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid game id")
			return
		}
		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "game not found")
			return
		}
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			writeJSONError(w, http.StatusForbidden, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, g.Snapshot(userID))
	}
}
