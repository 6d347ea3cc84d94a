package savedata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"

	"go.uber.org/zap"
)

type saveDataService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewSaveDataService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &saveDataService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *saveDataService) Fetch(ctx context.Context, playerID int64) (*db.SaveData, error) {
	sd, err := s.queries.GetSaveData(ctx, s.dbConn, playerID)
	if err == nil {
		return sd, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get save data: %w", err)
	}

	player, err := s.queries.GetPlayer(ctx, s.dbConn, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaveDataNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if time.Since(player.CreatedAt.Time) > s.config.SaveData.GraceWindow {
		// The account is established but its save-data is gone. Surface
		// the loss instead of masking it with a fresh default.
		s.logger.Warn("Save data missing outside grace window",
			zap.Int64("player_id", playerID),
			zap.Time("account_created_at", player.CreatedAt.Time))
		return nil, ErrDataLossSuspected
	}

	return s.createDefault(ctx, playerID)
}

func (s *saveDataService) ApplyPartialUpdate(ctx context.Context, playerID int64, patch *SavePatch) (*db.SaveData, error) {
	dbPatch, err := s.buildPatch(patch)
	if err != nil {
		return nil, err
	}

	err = s.queries.UpdateSaveData(ctx, s.dbConn, playerID, dbPatch)
	if errors.Is(err, sql.ErrNoRows) {
		// Upsert: seed the default document, then apply the patch on top.
		if _, err := s.createDefault(ctx, playerID); err != nil {
			return nil, err
		}
		err = s.queries.UpdateSaveData(ctx, s.dbConn, playerID, dbPatch)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update save data: %w", err)
	}

	sd, err := s.queries.GetSaveData(ctx, s.dbConn, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload save data: %w", err)
	}
	return sd, nil
}

func (s *saveDataService) Reset(ctx context.Context, playerID int64) (*db.SaveData, error) {
	starter := DefaultSaveData(playerID)

	// Delete and recreate inside one transaction so no caller observes
	// the gap between the two.
	var dbtx db.DBTX = s.dbConn
	var tx *sql.Tx
	if conn, ok := s.dbConn.(*sql.DB); ok {
		var err error
		tx, err = conn.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()
		dbtx = tx
	} else {
		s.logger.Warn("dbConn is not *sql.DB, resetting without transaction")
	}

	if err := s.queries.DeleteSaveData(ctx, dbtx, playerID); err != nil {
		return nil, fmt.Errorf("failed to delete save data: %w", err)
	}
	if err := s.queries.CreateSaveData(ctx, dbtx, starter); err != nil {
		return nil, fmt.Errorf("failed to recreate save data: %w", err)
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit reset: %w", err)
		}
	}

	s.logger.Info("Save data reset", zap.Int64("player_id", playerID))
	return starter, nil
}

// buildPatch validates the client patch and maps it onto columns. The
// ammunition map becomes per-class columns, which is what makes the
// class-by-class merge hold under concurrent updates.
func (s *saveDataService) buildPatch(patch *SavePatch) (*db.SaveDataPatch, error) {
	if patch.Money != nil && *patch.Money < 0 {
		return nil, fmt.Errorf("money: %w", ErrNegativeValue)
	}

	dbPatch := &db.SaveDataPatch{
		Money:         patch.Money,
		Health:        patch.Health,
		Weapons:       patch.Weapons,
		CurrentWeapon: patch.CurrentWeapon,
		Kills:         patch.Kills,
		Level:         patch.Level,
		LastSaved:     types.Now(),
	}

	for class, count := range patch.Ammunition {
		if count < 0 {
			return nil, fmt.Errorf("ammunition.%s: %w", class, ErrNegativeValue)
		}
		count := count
		switch class {
		case db.AmmoClassPistol:
			dbPatch.AmmoPistol = &count
		case db.AmmoClassRifle:
			dbPatch.AmmoRifle = &count
		default:
			return nil, fmt.Errorf("ammunition.%s: %w", class, ErrUnknownAmmoClass)
		}
	}

	if patch.Checkpoint != nil {
		cp := *patch.Checkpoint
		if cp.Timestamp.Time.IsZero() {
			cp.Timestamp = types.Now()
		}
		dbPatch.Checkpoint = &cp
	}

	return dbPatch, nil
}

func (s *saveDataService) createDefault(ctx context.Context, playerID int64) (*db.SaveData, error) {
	starter := DefaultSaveData(playerID)
	if err := s.queries.CreateSaveData(ctx, s.dbConn, starter); err != nil {
		// A concurrent request may have seeded the row first; the
		// primary key makes that a constraint failure, not a duplicate.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return s.queries.GetSaveData(ctx, s.dbConn, playerID)
		}
		return nil, fmt.Errorf("failed to create default save data: %w", err)
	}
	s.logger.Info("Default save data created", zap.Int64("player_id", playerID))
	return starter, nil
}
