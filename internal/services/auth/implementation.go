package auth

import (
	"context"
	cryptorand "crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/account"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/savedata"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewAuthService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &authService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*db.Player, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.queries.CreatePlayer(ctx, s.dbConn, &db.CreatePlayerParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if s.isDuplicateError(err, "username") {
			return nil, account.ErrDuplicateUsername
		}
		if s.isDuplicateError(err, "email") {
			return nil, account.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	player, err := s.queries.GetPlayerByUsername(ctx, s.dbConn, username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created player: %w", err)
	}

	// Provision the starter save-data so first fetch finds a document.
	starter := savedata.DefaultSaveData(player.PlayerID)
	if err := s.queries.CreateSaveData(ctx, s.dbConn, starter); err != nil {
		s.logger.Warn("Failed to provision starter save data",
			zap.Int64("player_id", player.PlayerID),
			zap.Error(err))
	}

	return player, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*db.Player, error) {
	player, err := s.queries.GetPlayerByUsername(ctx, s.dbConn, strings.TrimSpace(username))
	if err != nil {
		s.logger.Debug("GetPlayerByUsername failed", zap.String("username", username), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	if !s.verifyPassword(player.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.queries.TouchLastLogin(ctx, s.dbConn, player.PlayerID); err != nil {
		s.logger.Warn("Failed to stamp last login",
			zap.Int64("player_id", player.PlayerID),
			zap.Error(err))
	}

	return player, nil
}

func (s *authService) GenerateAccessToken(playerID int64) (string, error) {
	exp := time.Now().Add(s.config.JWT.AccessExpiration)
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", playerID),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWT.Secret))
}

func (s *authService) ValidateToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *authService) CreateSession(ctx context.Context, playerID int64, ipAddress, userAgent string) (string, error) {
	refreshToken, err := s.generateRefreshToken(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.config.JWT.RefreshExpiration)
	params := &db.CreateSessionParams{
		PlayerID:  playerID,
		Token:     refreshToken,
		ExpiresAt: types.Timestamp{Time: expiresAt},
		IpAddress: &ipAddress,
		UserAgent: &userAgent,
	}
	if ipAddress == "" {
		params.IpAddress = nil
	}
	if userAgent == "" {
		params.UserAgent = nil
	}

	if err := s.queries.CreateSession(ctx, s.dbConn, params); err != nil {
		s.logger.Error("CreateSession query failed", zap.Error(err))
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return refreshToken, nil
}

func (s *authService) RefreshSession(ctx context.Context, oldToken, ipAddress, userAgent string) (int64, string, error) {
	playerID, err := s.validateRefreshToken(ctx, oldToken)
	if err != nil {
		return 0, "", err
	}

	if err := s.DeleteSession(ctx, oldToken); err != nil {
		return 0, "", fmt.Errorf("failed to delete old session: %w", err)
	}

	newToken, err := s.CreateSession(ctx, playerID, ipAddress, userAgent)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create new session: %w", err)
	}
	return playerID, newToken, nil
}

func (s *authService) DeleteSession(ctx context.Context, token string) error {
	err := s.queries.DeleteSession(ctx, s.dbConn, token)
	if err != nil {
		s.logger.Error("DeleteSession query failed", zap.Error(err))
	}
	return err
}

// Internal helpers

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) verifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *authService) isDuplicateError(err error, column string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: players."+column)
}

func (s *authService) generateRefreshToken(playerID int64) (string, error) {
	exp := time.Now().Add(s.config.JWT.RefreshExpiration)
	// Random JWT ID so back-to-back tokens for one player are distinct.
	randBytes := make([]byte, 16)
	if _, err := cryptorand.Read(randBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", playerID),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ID:        hex.EncodeToString(randBytes),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWT.Secret))
}

func (s *authService) validateRefreshToken(ctx context.Context, token string) (int64, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return 0, ErrInvalidRefreshToken
	}
	playerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidRefreshToken
	}

	session, err := s.queries.GetSessionByToken(ctx, s.dbConn, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to get session: %w", err)
	}
	if session.ExpiresAt.Time.Before(time.Now()) {
		_ = s.queries.DeleteSession(ctx, s.dbConn, token)
		return 0, ErrInvalidRefreshToken
	}
	if session.PlayerID != playerID {
		return 0, ErrInvalidRefreshToken
	}
	return playerID, nil
}
