// internal/database/user.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Cassssian/five-crowns/internal/models"
)

// CreateUser inserts a user row. Ephemeral guests are created on first visit
// and carry only a display identity.
func CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	q := `INSERT INTO users (id, username, avatar, badge_id, is_ephemeral)
	      VALUES ($1, $2, $3, $4, $5)`

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Username, user.Avatar, user.BadgeID, user.IsEphemeral,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, username, avatar, badge_id, is_ephemeral, total_games, total_wins
	FROM users
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.Avatar, &u.BadgeID,
		&u.IsEphemeral, &u.TotalGames, &u.TotalWins,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserProfile changes the display identity of an existing user.
func UpdateUserProfile(ctx context.Context, id uuid.UUID, username, avatar, badgeID string) error {
	q := `UPDATE users SET username=$2, avatar=$3, badge_id=$4 WHERE id=$1`
	if _, err := DB.Exec(ctx, q, id, username, avatar, badgeID); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}
