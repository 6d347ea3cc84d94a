package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// TokenHeader is the game client's token header.
	TokenHeader = "x-auth-token"
	// PlayerIDKey is the key used to store the player ID in Fiber's locals.
	PlayerIDKey = "player_id"
	// ClaimsKey is the key used to store JWT claims in Fiber's locals.
	ClaimsKey = "claims"
)

var (
	// ErrMissingToken indicates no token was supplied.
	ErrMissingToken = errors.New("no token, authorization denied")
	// ErrInvalidToken indicates the token is invalid or expired.
	ErrInvalidToken = errors.New("token is not valid")
)

// AuthMiddleware resolves the request's bearer token into a player ID or
// rejects the request. The token is read from the x-auth-token header;
// an Authorization Bearer header is accepted as well.
func AuthMiddleware(authService auth.Service, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			logger.Debug("missing auth token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrMissingToken.Error(),
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrInvalidToken.Error(),
			})
		}

		playerID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			logger.Debug("invalid player ID in token", zap.String("subject", claims.Subject), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrInvalidToken.Error(),
			})
		}

		c.Locals(PlayerIDKey, playerID)
		c.Locals(ClaimsKey, claims)

		logger.Debug("token validated", zap.Int64("player_id", playerID))
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	if token := c.Get(TokenHeader); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetPlayerID retrieves the authenticated player ID from Fiber's locals.
func GetPlayerID(c *fiber.Ctx) (int64, bool) {
	playerID, ok := c.Locals(PlayerIDKey).(int64)
	return playerID, ok
}

// GetClaims retrieves the JWT claims from Fiber's locals.
func GetClaims(c *fiber.Ctx) (*jwt.RegisteredClaims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*jwt.RegisteredClaims)
	return claims, ok
}
