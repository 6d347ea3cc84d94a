package account

import (
	"context"
	"errors"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
)

var (
	// ErrPlayerNotFound indicates no player row exists for the ID.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Service exposes account profile reads.
type Service interface {
	// GetPlayer returns the player row for the ID, or ErrPlayerNotFound.
	GetPlayer(ctx context.Context, playerID int64) (*db.Player, error)
}
