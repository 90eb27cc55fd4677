// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Cassssian/five-crowns/internal/models"
)

// RecordGameAndResults persists the final outcome of a game: the game row,
// one result row per player, and win/game counters on persistent users. AI
// seats have no user row and are skipped for counters.
func RecordGameAndResults(ctx context.Context, gameID, lobbyID uuid.UUID, players []*models.GamePlayer, finalScores map[uuid.UUID]int, winner uuid.UUID) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, lobby_id, status, winner_id, completed_at)
			VALUES ($1, $2, 'completed', $3, now())
			ON CONFLICT (id) DO UPDATE SET status='completed', winner_id=$3, completed_at=now()
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID, lobbyID, winner); e != nil {
			return e
		}

		for _, pl := range players {
			didWin := pl.ID == winner
			q := `
				INSERT INTO game_results (game_id, player_id, username, is_ai, score, did_win)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET score=$5, did_win=$6
			`
			if _, e := tx.Exec(ctx, q, gameID, pl.ID, pl.Username, pl.IsAI, finalScores[pl.ID], didWin); e != nil {
				return e
			}

			if pl.IsAI {
				continue
			}
			counters := `
				UPDATE users
				SET total_games = total_games + 1,
				    total_wins  = total_wins + CASE WHEN $2 THEN 1 ELSE 0 END
				WHERE id = $1
			`
			if _, e := tx.Exec(ctx, counters, pl.ID, didWin); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}

// StoreFinalGameState updates games.final_game_state with a JSON snapshot of
// the finished game, for replays and dispute resolution.
func StoreFinalGameState(ctx context.Context, gameID uuid.UUID, finalSnapshot interface{}) error {
	data, err := json.Marshal(finalSnapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal final game state: %w", err)
	}
	q := `UPDATE games SET final_game_state=$2 WHERE id=$1`
	if _, err := DB.Exec(ctx, q, gameID, data); err != nil {
		return fmt.Errorf("failed to store final game state: %w", err)
	}
	return nil
}

// InsertInitialGame records a game row the moment the lobby starts it, so
// crash recovery can find orphaned in-progress games.
func InsertInitialGame(ctx context.Context, gameID, lobbyID uuid.UUID) {
	q := `
		INSERT INTO games (id, lobby_id, status)
		VALUES ($1, $2, 'in_progress')
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := DB.Exec(ctx, q, gameID, lobbyID); err != nil {
		log.Printf("failed to insert initial game row %s: %v", gameID, err)
	}
}
