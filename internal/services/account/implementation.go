package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"

	"go.uber.org/zap"
)

type accountService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewAccountService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &accountService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *accountService) GetPlayer(ctx context.Context, playerID int64) (*db.Player, error) {
	player, err := s.queries.GetPlayer(ctx, s.dbConn, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}
