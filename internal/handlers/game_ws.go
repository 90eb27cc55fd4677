// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Cassssian/five-crowns/internal/game"
	"github.com/Cassssian/five-crowns/internal/middleware"
	"github.com/Cassssian/five-crowns/internal/models"
)

// GameMessage represents the structure for incoming WebSocket messages during
// the game phase.
type GameMessage struct {
	Type string `json:"type"`

	// Card carries the card involved in a discard ({"id": "..."}).
	Card map[string]interface{} `json:"card,omitempty"`

	// Combinations carries the full-hand grouping for a lay-down attempt.
	Combinations []wsCombination `json:"combinations,omitempty"`
}

type wsCombination struct {
	Type  string   `json:"type"` // "run" or "set"
	Cards []wsCard `json:"cards"`
}

type wsCard struct {
	ID string `json:"id"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket for a specific game
// instance. It authenticates the user, verifies they belong to the game,
// registers the connection, and then starts the read loop.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract Game ID from URL path: /game/ws/{game_id}
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/game/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing game_id in path (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}
		gameID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "Invalid game_id format", http.StatusBadRequest)
			return
		}

		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}

		// Authenticate before the upgrade; a freshly minted guest cookie can
		// only be set while the response headers are still ours to write.
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("User authentication failed for game %s: %v", gameID, err)
			http.Error(w, "Authentication failed", http.StatusForbidden)
			return
		}
		logger.Infof("User %s authenticated for game %s", userID, gameID)

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			logger.Warnf("Client for game %s connected with invalid subprotocol: %s", gameID, c.Subprotocol())
			c.Close(websocket.StatusCode(BadSubprotocolError), "Client must use the 'game' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, gameID.String(), userID.String())

		// Verify the authenticated user is a player in this game, and bind
		// the connection to their seat.
		g.Mu.Lock()
		var seat *models.GamePlayer
		for _, p := range g.Players {
			if p.ID == userID {
				seat = p
				break
			}
		}
		if seat != nil {
			seat.Conn = c
		}
		if g.BroadcastFn == nil {
			g.BroadcastFn = createBroadcastFunc(g, logger)
		}
		if g.BroadcastToPlayerFn == nil {
			g.BroadcastToPlayerFn = createBroadcastToPlayerFunc(g, logger)
		}
		g.Mu.Unlock()

		if seat == nil {
			logger.Warnf("User %s is not a player in game %s. Closing connection.", userID, gameID)
			c.Close(websocket.StatusCode(NotGamePlayerError), "You are not a player in this game.")
			return
		}

		// Mark connected and replay current state to the (re)joining player.
		g.HandleReconnect(userID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readGameMessages(ctx, c, g, userID, logger)

		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, gameID.String(), userID.String(), nil)
		g.HandleDisconnect(userID)
	}
}

// createBroadcastFunc returns a function suitable for FiveCrownsGame.BroadcastFn.
// It marshals the event and sends it asynchronously to all connected players.
func createBroadcastFunc(g *game.FiveCrownsGame, logger *logrus.Logger) func(ev game.GameEvent) {
	return func(ev game.GameEvent) {
		// Called while the game lock is held; collect connections and defer
		// the writes to a goroutine so game logic never blocks on the network.
		conns := make([]*websocket.Conn, 0, len(g.Players))
		for _, p := range g.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}

		msgBytes, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal broadcast event (%s) for game %s: %v", ev.Type, g.ID, err)
			return
		}

		go func() {
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := conn.Write(ctx, websocket.MessageText, msgBytes)
				cancel()
				if err != nil {
					logger.Warnf("Failed to write broadcast message in game %s: %v", g.ID, err)
				}
			}
		}()
	}
}

// createBroadcastToPlayerFunc returns a function suitable for
// FiveCrownsGame.BroadcastToPlayerFn.
func createBroadcastToPlayerFunc(g *game.FiveCrownsGame, logger *logrus.Logger) func(targetPlayerID uuid.UUID, ev game.GameEvent) {
	return func(targetPlayerID uuid.UUID, ev game.GameEvent) {
		// Also called while the game lock is held.
		var targetConn *websocket.Conn
		for _, p := range g.Players {
			if p.ID == targetPlayerID {
				if p.Connected && p.Conn != nil {
					targetConn = p.Conn
				}
				break
			}
		}
		if targetConn == nil {
			return
		}

		msgBytes, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal private event (%s) for player %s in game %s: %v", ev.Type, targetPlayerID, g.ID, err)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := targetConn.Write(ctx, websocket.MessageText, msgBytes); err != nil {
				logger.Warnf("Failed to write private message to player %s in game %s: %v", targetPlayerID, g.ID, err)
			}
		}()
	}
}

// readGameMessages continuously reads messages from a client's WebSocket
// connection and routes them to the engine. The engine methods lock the game
// themselves; invalid or out-of-turn actions are engine-side no-ops, so the
// loop only validates message shape.
func readGameMessages(ctx context.Context, c *websocket.Conn, g *game.FiveCrownsGame, userID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s in game %s.", userID, g.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for user %s in game %s.", userID, g.ID)
			} else {
				logger.Warnf("Error reading from WebSocket for user %s in game %s: %v (Status: %d)", userID, g.ID, err, status)
			}
			return
		}

		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d from user %s in game %s. Ignoring.", msgType, userID, g.ID)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON received from user %s in game %s: %v", userID, g.ID, err)
			sendWsError(ctx, c, "Invalid JSON format.")
			continue
		}

		logger.Debugf("Received action '%s' from user %s in game %s.", msg.Type, userID, g.ID)

		switch msg.Type {
		case "action_draw_deck":
			g.DrawDeck(userID)

		case "action_draw_discard":
			g.DrawDiscard(userID)

		case "action_discard":
			cardID, _ := msg.Card["id"].(string)
			if cardID == "" {
				sendWsError(ctx, c, "action_discard requires card.id")
				continue
			}
			g.DiscardCard(userID, cardID)

		case "action_end_turn":
			g.EndTurn(userID)

		case "action_lay_down":
			combos := resolveCombinations(g, userID, msg.Combinations)
			// Validation errors are reported to the player via the private
			// lay-down-fail event; nothing more to do here.
			_ = g.SubmitCombinations(userID, combos)

		case "action_sync":
			g.HandleReconnect(userID)

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		default:
			logger.Warnf("Unknown action type '%s' from user %s in game %s.", msg.Type, userID, g.ID)
			sendWsError(ctx, c, fmt.Sprintf("Unknown action type: %s", msg.Type))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// resolveCombinations maps the wire-format card IDs back to the player's
// actual hand cards. IDs that are not in the hand become stub cards, which
// the lay-down validation rejects.
func resolveCombinations(g *game.FiveCrownsGame, userID uuid.UUID, wire []wsCombination) []models.Combination {
	g.Mu.Lock()
	byID := make(map[string]*models.Card)
	for _, p := range g.Players {
		if p.ID == userID {
			for _, c := range p.Hand {
				byID[c.ID] = c
			}
			break
		}
	}
	g.Mu.Unlock()

	combos := make([]models.Combination, 0, len(wire))
	for _, wc := range wire {
		combo := models.Combination{Type: models.CombinationType(wc.Type)}
		for _, w := range wc.Cards {
			if card, ok := byID[w.ID]; ok {
				combo.Cards = append(combo.Cards, card)
			} else {
				combo.Cards = append(combo.Cards, &models.Card{ID: w.ID})
			}
		}
		combos = append(combos, combo)
	}
	return combos
}

// sendWsMessage marshals a message and sends it to the WebSocket client.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	if c == nil {
		log.Println("Error: Attempted to send WebSocket message on nil connection.")
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			log.Printf("Error writing WebSocket message: %v (Status: %d)", err, status)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, msg string) {
	sendWsMessage(ctx, c, map[string]string{"type": "error", "message": msg})
}
