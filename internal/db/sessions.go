package db

import (
	"context"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
)

type CreateSessionParams struct {
	PlayerID  int64
	Token     string
	ExpiresAt types.Timestamp
	IpAddress *string
	UserAgent *string
}

// CreateSession stores a new refresh-token session.
func (q *Queries) CreateSession(ctx context.Context, dbtx DBTX, params *CreateSessionParams) error {
	_, err := dbtx.ExecContext(ctx,
		`INSERT INTO sessions (player_id, token, expires_at, ip_address, user_agent) VALUES (?, ?, ?, ?, ?)`,
		params.PlayerID, params.Token, params.ExpiresAt, params.IpAddress, params.UserAgent)
	return err
}

// GetSessionByToken fetches a session by its refresh token.
func (q *Queries) GetSessionByToken(ctx context.Context, dbtx DBTX, token string) (*Session, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT session_id, player_id, token, expires_at, created_at, ip_address, user_agent
		 FROM sessions WHERE token = ?`, token)
	var s Session
	err := row.Scan(&s.SessionID, &s.PlayerID, &s.Token, &s.ExpiresAt, &s.CreatedAt, &s.IpAddress, &s.UserAgent)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session by token. Deleting a missing token is
// not an error.
func (q *Queries) DeleteSession(ctx context.Context, dbtx DBTX, token string) error {
	_, err := dbtx.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}
