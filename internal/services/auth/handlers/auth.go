package handlers

import (
	"errors"
	"time"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/middleware"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/account"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandlers struct {
	service    auth.Service
	accountSvc account.Service
	config     config.Config
	logger     *zap.Logger
}

func NewAuthHandlers(service auth.Service, accountSvc account.Service, cfg config.Config, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		service:    service,
		accountSvc: accountSvc,
		config:     cfg,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileResponse is the public view of an account, never carrying the
// password hash.
type ProfileResponse struct {
	PlayerID    int64   `json:"player_id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Level       int64   `json:"level"`
	Experience  int64   `json:"experience"`
	Money       int64   `json:"money"`
	Health      int64   `json:"health"`
	CreatedAt   string  `json:"created_at"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

type TokenResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	User         ProfileResponse `json:"user"`
}

func profileFromPlayer(player *db.Player) ProfileResponse {
	createdAt := player.CreatedAt.Time.Format("2006-01-02T15:04:05Z")
	var lastLoginAt *string
	if player.LastLoginAt.Valid {
		str := player.LastLoginAt.Time.Format("2006-01-02T15:04:05Z")
		lastLoginAt = &str
	}
	return ProfileResponse{
		PlayerID:    player.PlayerID,
		Username:    player.Username,
		Email:       player.Email,
		Level:       player.Level,
		Experience:  player.Experience,
		Money:       player.Money,
		Health:      player.Health,
		CreatedAt:   createdAt,
		LastLoginAt: lastLoginAt,
	}
}

func (h *AuthHandlers) tokenResponse(c *fiber.Ctx, player *db.Player) (*TokenResponse, error) {
	token, err := h.service.GenerateAccessToken(player.PlayerID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.service.CreateSession(c.Context(), player.PlayerID, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(h.config.JWT.AccessExpiration),
		User:         profileFromPlayer(player),
	}, nil
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "username, email, and password are required",
		})
	}

	player, err := h.service.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrDuplicateUsername) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "username already taken",
			})
		}
		if errors.Is(err, account.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user with this email already exists",
			})
		}
		h.logger.Error("registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	resp, err := h.tokenResponse(c, player)
	if err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "username and password are required",
		})
	}

	player, err := h.service.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Same status and body whether the username is unknown or
			// the password is wrong.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}
		h.logger.Error("authentication failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	resp, err := h.tokenResponse(c, player)
	if err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	playerID, newRefreshToken, err := h.service.RefreshSession(c.Context(), req.RefreshToken, c.IP(), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) || errors.Is(err, auth.ErrSessionNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid refresh token",
			})
		}
		h.logger.Error("refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	token, err := h.service.GenerateAccessToken(playerID)
	if err != nil {
		h.logger.Error("failed to generate access token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token":         token,
		"refresh_token": newRefreshToken,
		"expires_at":    time.Now().Add(h.config.JWT.AccessExpiration),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	if err := h.service.DeleteSession(c.Context(), req.RefreshToken); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

// GetUser handles GET /auth/user
func (h *AuthHandlers) GetUser(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	player, err := h.accountSvc.GetPlayer(c.Context(), playerID)
	if err != nil {
		if errors.Is(err, account.ErrPlayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "player not found",
			})
		}
		h.logger.Error("failed to get player", zap.Error(err), zap.Int64("player_id", playerID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(profileFromPlayer(player))
}

// Verify handles GET /auth/verify
func (h *AuthHandlers) Verify(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	player, err := h.accountSvc.GetPlayer(c.Context(), playerID)
	if err != nil {
		if errors.Is(err, account.ErrPlayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"valid": false,
				"error": "player not found",
			})
		}
		h.logger.Error("failed to get player", zap.Error(err), zap.Int64("player_id", playerID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"valid": true,
		"user":  profileFromPlayer(player),
	})
}
