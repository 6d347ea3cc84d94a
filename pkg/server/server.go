package server

import (
	"context"
	"fmt"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/middleware"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/account"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth"
	authhandlers "github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth/handlers"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/savedata"
	playerhandlers "github.com/KhangSoDzach/Dead-Zone-Server/internal/services/savedata/handlers"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"

	"github.com/gofiber/fiber/v2"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Server holds the Fiber application and configuration.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	logger *zap.Logger
	db     db.DBTX
}

// New creates a Fiber server with default middleware and all routes
// registered.
func New(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) *Server {
	app := fiber.New(fiber.Config{
		AppName: "Dead Zone API",
	})

	app.Use(fiberLogger.New())
	app.Use(recover.New())

	srv := &Server{
		app:    app,
		cfg:    cfg,
		logger: logger,
		db:     dbConn,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})

	if s.db == nil {
		return
	}

	authService := auth.NewAuthService(s.cfg, s.logger, s.db)
	accountService := account.NewAccountService(s.cfg, s.logger, s.db)
	saveDataService := savedata.NewSaveDataService(s.cfg, s.logger, s.db)

	authGate := middleware.AuthMiddleware(authService, s.logger)

	authHandlers := authhandlers.NewAuthHandlers(authService, accountService, s.cfg, s.logger)
	authGroup := s.app.Group("/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Post("/refresh", authHandlers.Refresh)
	authGroup.Post("/logout", authHandlers.Logout)
	authGroup.Get("/user", authGate, authHandlers.GetUser)
	authGroup.Get("/verify", authGate, authHandlers.Verify)

	playerHandlers := playerhandlers.NewPlayerHandlers(saveDataService, accountService, s.logger)
	playerGroup := s.app.Group("/player", authGate)
	playerGroup.Get("/data", playerHandlers.GetData)
	playerGroup.Post("/data", playerHandlers.Save)
	playerGroup.Put("/save", playerHandlers.Save)
	playerGroup.Put("/money", playerHandlers.UpdateMoney)
	playerGroup.Put("/weapons", playerHandlers.UpdateWeapons)
	playerGroup.Put("/ammunition", playerHandlers.UpdateAmmunition)
	playerGroup.Put("/checkpoint", playerHandlers.UpdateCheckpoint)
	playerGroup.Delete("/reset", playerHandlers.Reset)
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins listening on the configured host and port.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("Starting server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
