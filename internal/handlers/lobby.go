// internal/handlers/lobby.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cassssian/five-crowns/internal/database"
	"github.com/Cassssian/five-crowns/internal/game"
)

type createLobbyRequest struct {
	Username string                 `json:"username"`
	Avatar   string                 `json:"avatar,omitempty"`
	BadgeID  string                 `json:"badgeId,omitempty"`
	Rules    map[string]interface{} `json:"rules,omitempty"`
}

type joinLobbyRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	BadgeID  string `json:"badgeId,omitempty"`
}

// hostSeat resolves the caller into a seat, preferring the request body's
// display fields over whatever the users table holds.
func seatFromRequest(ctx context.Context, userID uuid.UUID, username, avatar, badgeID string) game.LobbySeat {
	if username == "" && database.DB != nil {
		if u, err := database.GetUserByID(ctx, userID); err == nil {
			username = u.Username
			if avatar == "" {
				avatar = u.Avatar
			}
			if badgeID == "" {
				badgeID = u.BadgeID
			}
		}
	}
	if username == "" {
		username = "Guest"
	}
	return game.LobbySeat{
		UserID:   userID,
		Username: username,
		Avatar:   avatar,
		BadgeID:  badgeID,
	}
}

// CreateLobbyHandler creates a lobby hosted by the caller and returns it,
// join code included.
func CreateLobbyHandler(gs *GameServer) http.HandlerFunc {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			writeJSONError(w, http.StatusForbidden, err.Error())
			return
		}

		var req createLobbyRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		lobby := game.NewLobby(seatFromRequest(r.Context(), userID, req.Username, req.Avatar, req.BadgeID), rng)
		if req.Rules != nil {
			if err := lobby.Rules.Update(req.Rules); err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		gs.LobbyStore.AddLobby(lobby)
		writeJSON(w, http.StatusCreated, lobby.Snapshot())
	}
}

// JoinLobbyHandler seats the caller in the lobby named by its join code:
// POST /lobby/join/{code}.
func JoinLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		code := strings.TrimPrefix(r.URL.Path, "/lobby/join/")
		lobby, ok := gs.LobbyStore.GetLobbyByCode(code)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "lobby not found")
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			writeJSONError(w, http.StatusForbidden, err.Error())
			return
		}

		var req joinLobbyRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if err := lobby.Join(seatFromRequest(r.Context(), userID, req.Username, req.Avatar, req.BadgeID)); err != nil {
			writeJSONError(w, lobbyErrStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lobby.Snapshot())
	}
}

// LeaveLobbyHandler removes the caller's seat: POST /lobby/leave/{lobby_id}.
func LeaveLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobby, userID, ok := resolveLobbyRequest(gs, w, r, "/lobby/leave/")
		if !ok {
			return
		}
		if err := lobby.Leave(userID); err != nil {
			writeJSONError(w, lobbyErrStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lobby.Snapshot())
	}
}

// AddAIHandler fills one seat with an AI opponent: POST /lobby/ai/{lobby_id}.
func AddAIHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobby, userID, ok := resolveLobbyRequest(gs, w, r, "/lobby/ai/")
		if !ok {
			return
		}
		if err := lobby.AddAIPlayer(userID); err != nil {
			writeJSONError(w, lobbyErrStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lobby.Snapshot())
	}
}

// UpdateRulesHandler applies a partial rules patch: POST /lobby/rules/{lobby_id}.
func UpdateRulesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobby, userID, ok := resolveLobbyRequest(gs, w, r, "/lobby/rules/")
		if !ok {
			return
		}
		var patch map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid rules payload")
			return
		}
		if err := lobby.UpdateRules(userID, patch); err != nil {
			writeJSONError(w, lobbyErrStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lobby.Snapshot())
	}
}

// StartGameHandler starts the lobby's game: POST /lobby/start/{lobby_id}.
// Returns the game ID players connect their WebSockets to.
func StartGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobby, userID, ok := resolveLobbyRequest(gs, w, r, "/lobby/start/")
		if !ok {
			return
		}
		g, err := gs.StartGameFromLobby(r.Context(), lobby, userID)
		if err != nil {
			writeJSONError(w, lobbyErrStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"gameId":  g.ID.String(),
			"lobbyId": lobby.ID.String(),
		})
	}
}

// GetLobbyHandler returns the lobby state: GET /lobby/get/{lobby_id}.
func GetLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/lobby/get/")
		lobbyID, err := uuid.Parse(idStr)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid lobby id")
			return
		}
		lobby, ok := gs.LobbyStore.GetLobby(lobbyID)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "lobby not found")
			return
		}
		writeJSON(w, http.StatusOK, lobby.Snapshot())
	}
}

// resolveLobbyRequest handles the shared plumbing of the POST
// /lobby/{action}/{lobby_id} endpoints: method check, path parse, lobby
// lookup and caller identity.
func resolveLobbyRequest(gs *GameServer, w http.ResponseWriter, r *http.Request, prefix string) (*game.Lobby, uuid.UUID, bool) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return nil, uuid.Nil, false
	}
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	lobbyID, err := uuid.Parse(idStr)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid lobby id")
		return nil, uuid.Nil, false
	}
	lobby, ok := gs.LobbyStore.GetLobby(lobbyID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "lobby not found")
		return nil, uuid.Nil, false
	}
	userID, err := EnsureEphemeralUser(w, r)
	if err != nil {
		writeJSONError(w, http.StatusForbidden, err.Error())
		return nil, uuid.Nil, false
	}
	return lobby, userID, true
}

func lobbyErrStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrNotLobbyHost):
		return http.StatusForbidden
	case errors.Is(err, game.ErrLobbyFull), errors.Is(err, game.ErrLobbyInGame),
		errors.Is(err, game.ErrNotEnoughSeats), errors.Is(err, game.ErrAlreadyInLobby):
		return http.StatusConflict
	case errors.Is(err, game.ErrPlayerNotSeated):
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
