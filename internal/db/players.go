package db

import (
	"context"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
)

const playerColumns = `player_id, username, email, password_hash, level, experience, money, health, created_at, last_login_at`

type CreatePlayerParams struct {
	Username     string
	Email        string
	PasswordHash string
}

// CreatePlayer inserts a new player row. Duplicate username or email
// surfaces as a UNIQUE constraint error from the driver.
func (q *Queries) CreatePlayer(ctx context.Context, dbtx DBTX, params *CreatePlayerParams) error {
	_, err := dbtx.ExecContext(ctx,
		`INSERT INTO players (username, email, password_hash) VALUES (?, ?, ?)`,
		params.Username, params.Email, params.PasswordHash)
	return err
}

func scanPlayer(row interface{ Scan(...interface{}) error }) (*Player, error) {
	var p Player
	err := row.Scan(&p.PlayerID, &p.Username, &p.Email, &p.PasswordHash,
		&p.Level, &p.Experience, &p.Money, &p.Health, &p.CreatedAt, &p.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayer fetches a player by ID.
func (q *Queries) GetPlayer(ctx context.Context, dbtx DBTX, playerID int64) (*Player, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE player_id = ?`, playerID)
	return scanPlayer(row)
}

// GetPlayerByUsername fetches a player by exact username.
func (q *Queries) GetPlayerByUsername(ctx context.Context, dbtx DBTX, username string) (*Player, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE username = ?`, username)
	return scanPlayer(row)
}

// GetPlayerByEmail fetches a player by exact email.
func (q *Queries) GetPlayerByEmail(ctx context.Context, dbtx DBTX, email string) (*Player, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE email = ?`, email)
	return scanPlayer(row)
}

// TouchLastLogin stamps the player's last_login_at with the current time.
func (q *Queries) TouchLastLogin(ctx context.Context, dbtx DBTX, playerID int64) error {
	_, err := dbtx.ExecContext(ctx,
		`UPDATE players SET last_login_at = ? WHERE player_id = ?`,
		types.Now(), playerID)
	return err
}
