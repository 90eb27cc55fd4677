// internal/handlers/game_server.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Cassssian/five-crowns/internal/database"
	"github.com/Cassssian/five-crowns/internal/game"
)

// roundPauseSec is how many countdown ticks the host waits between a round
// ending and the next round being dealt, so clients can show the scores.
const roundPauseSec = 5

// finishedGameRetentionMin keeps completed games queryable for a while
// before they are dropped from memory.
const finishedGameRetentionMin = 10

// GameServer owns the in-memory stores and drives the per-game countdown
// loops. One instance serves the whole process.
type GameServer struct {
	Mutex      sync.Mutex
	LobbyStore *game.LobbyStore
	GameStore  *game.GameStore
}

func NewGameServer() *GameServer {
	return &GameServer{
		LobbyStore: game.NewLobbyStore(),
		GameStore:  game.NewGameStore(),
	}
}

// StartGameFromLobby converts a lobby into a running game: wires the
// end-of-game persistence callback, registers the game, starts round 1 and
// launches the countdown loop.
func (gs *GameServer) StartGameFromLobby(ctx context.Context, lobby *game.Lobby, requestedBy uuid.UUID) (*game.FiveCrownsGame, error) {
	g, err := lobby.StartGame(requestedBy)
	if err != nil {
		return nil, err
	}

	g.OnGameEnd = func(gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int) {
		gs.persistGameResults(g, gameID, winner, scores)
		lobby.FinishGame()

		// Keep the final state around for late snapshot requests, then drop it.
		time.AfterFunc(finishedGameRetentionMin*time.Minute, func() {
			gs.GameStore.DeleteGame(gameID)
		})
	}

	gs.GameStore.AddGame(g)

	if database.DB != nil {
		database.InsertInitialGame(ctx, g.ID, lobby.ID)
	}

	if err := g.Start(); err != nil {
		gs.GameStore.DeleteGame(g.ID)
		lobby.FinishGame()
		return nil, err
	}

	go gs.runCountdownLoop(g)
	return g, nil
}

// runCountdownLoop is the host clock for one game: one TickCountdown per
// second while a turn is live, and the between-round pause that deals the
// next round. Exits when the game completes.
func (gs *GameServer) runCountdownLoop(g *game.FiveCrownsGame) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	pause := 0
	for range ticker.C {
		g.Mu.Lock()
		status := g.Status
		roundOver := g.RoundOver
		g.Mu.Unlock()

		if status == game.StatusCompleted {
			return
		}
		if status != game.StatusInProgress {
			continue
		}
		if roundOver {
			pause++
			if pause >= roundPauseSec {
				pause = 0
				if err := g.InitializeNextRound(); err != nil {
					log.Errorf("game %s: failed to start next round: %v", g.ID, err)
					return
				}
			}
			continue
		}
		pause = 0
		g.TickCountdown()
	}
}

// persistGameResults writes the final outcome and a full state snapshot.
// Best-effort: a database outage never blocks the game ending for players.
func (gs *GameServer) persistGameResults(g *game.FiveCrownsGame, gameID, winner uuid.UUID, scores map[uuid.UUID]int) {
	if database.DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g.Mu.Lock()
	players := g.Players
	lobbyID := g.LobbyID
	g.Mu.Unlock()

	if err := database.RecordGameAndResults(ctx, gameID, lobbyID, players, scores, winner); err != nil {
		log.Errorf("game %s: failed to record results: %v", gameID, err)
	}
	if err := database.StoreFinalGameState(ctx, gameID, g.Snapshot(uuid.Nil)); err != nil {
		log.Errorf("game %s: failed to store final state: %v", gameID, err)
	}
}
