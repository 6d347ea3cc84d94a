package auth

import (
	"context"
	"errors"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken indicates a malformed, expired, or revoked
	// refresh token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrSessionNotFound indicates no stored session matches the token.
	ErrSessionNotFound = errors.New("session not found")
)

// Service handles registration, credential checks, and token lifecycle.
type Service interface {
	// Register creates a new player account and provisions its starter
	// save-data. Fails with account.ErrDuplicateUsername or
	// account.ErrDuplicateEmail on conflicts.
	Register(ctx context.Context, username, email, password string) (*db.Player, error)

	// Authenticate verifies username and password, stamping last_login_at
	// on success. Fails with ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, username, password string) (*db.Player, error)

	// GenerateAccessToken issues a signed access token for the player.
	GenerateAccessToken(playerID int64) (string, error)

	// ValidateToken parses and verifies an access token.
	ValidateToken(tokenString string) (*jwt.RegisteredClaims, error)

	// CreateSession issues a refresh token and stores its session.
	CreateSession(ctx context.Context, playerID int64, ipAddress, userAgent string) (string, error)

	// RefreshSession rotates a refresh token, invalidating the old one.
	RefreshSession(ctx context.Context, oldToken, ipAddress, userAgent string) (playerID int64, newToken string, err error)

	// DeleteSession revokes a refresh token.
	DeleteSession(ctx context.Context, token string) error
}
