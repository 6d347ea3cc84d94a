package handlers

import (
	"errors"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/middleware"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/account"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/savedata"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PlayerHandlers struct {
	service    savedata.Service
	accountSvc account.Service
	logger     *zap.Logger
}

func NewPlayerHandlers(service savedata.Service, accountSvc account.Service, logger *zap.Logger) *PlayerHandlers {
	return &PlayerHandlers{
		service:    service,
		accountSvc: accountSvc,
		logger:     logger,
	}
}

// SaveRequest carries a partial save. Absent or null fields leave the
// stored values untouched; the ammunition map merges class-by-class
// while weapons and checkpoint replace wholesale.
type SaveRequest struct {
	Money         *int64           `json:"money"`
	Health        *int64           `json:"health"`
	Ammunition    map[string]int64 `json:"ammunition"`
	Weapons       []db.Weapon      `json:"weapons"`
	CurrentWeapon *string          `json:"currentWeapon"`
	Checkpoint    *db.Checkpoint   `json:"checkpoint"`
	Kills         *int64           `json:"kills"`
	Level         *int64           `json:"level"`
}

func (r *SaveRequest) toPatch() *savedata.SavePatch {
	return &savedata.SavePatch{
		Money:         r.Money,
		Health:        r.Health,
		Ammunition:    r.Ammunition,
		Weapons:       r.Weapons,
		CurrentWeapon: r.CurrentWeapon,
		Checkpoint:    r.Checkpoint,
		Kills:         r.Kills,
		Level:         r.Level,
	}
}

type playerSummary struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Created  string `json:"created_at"`
}

// GetData handles GET /player/data
func (h *PlayerHandlers) GetData(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	ctx := c.Context()
	player, err := h.accountSvc.GetPlayer(ctx, playerID)
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

	sd, err := h.service.Fetch(ctx, playerID)
	if err != nil {
		if errors.Is(err, savedata.ErrDataLossSuspected) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":               "player data not found",
				"data_loss_suspected": true,
			})
		}
		if errors.Is(err, savedata.ErrSaveDataNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "player data not found",
			})
		}
		h.logger.Error("failed to fetch save data", zap.Error(err), zap.Int64("player_id", playerID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": playerSummary{
			PlayerID: player.PlayerID,
			Username: player.Username,
			Email:    player.Email,
			Created:  player.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
		},
		"playerData": sd,
	})
}

// Save handles PUT /player/save and POST /player/data
func (h *PlayerHandlers) Save(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req SaveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	return h.applyPatch(c, playerID, req.toPatch())
}

// UpdateMoney handles PUT /player/money
func (h *PlayerHandlers) UpdateMoney(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req struct {
		Money *int64 `json:"money"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Money == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "money is required",
		})
	}

	return h.applyPatch(c, playerID, &savedata.SavePatch{Money: req.Money})
}

// UpdateWeapons handles PUT /player/weapons
func (h *PlayerHandlers) UpdateWeapons(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req struct {
		Weapons       []db.Weapon `json:"weapons"`
		CurrentWeapon *string     `json:"currentWeapon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Weapons == nil && req.CurrentWeapon == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "weapons or currentWeapon is required",
		})
	}

	return h.applyPatch(c, playerID, &savedata.SavePatch{
		Weapons:       req.Weapons,
		CurrentWeapon: req.CurrentWeapon,
	})
}

// UpdateAmmunition handles PUT /player/ammunition
func (h *PlayerHandlers) UpdateAmmunition(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req struct {
		Ammunition map[string]int64 `json:"ammunition"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Ammunition == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ammunition is required",
		})
	}

	return h.applyPatch(c, playerID, &savedata.SavePatch{Ammunition: req.Ammunition})
}

// UpdateCheckpoint handles PUT /player/checkpoint
func (h *PlayerHandlers) UpdateCheckpoint(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req struct {
		Checkpoint *db.Checkpoint `json:"checkpoint"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Checkpoint == nil || req.Checkpoint.SceneID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "checkpoint with sceneId is required",
		})
	}

	return h.applyPatch(c, playerID, &savedata.SavePatch{Checkpoint: req.Checkpoint})
}

// Reset handles DELETE /player/reset
func (h *PlayerHandlers) Reset(c *fiber.Ctx) error {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		h.logger.Error("player ID missing from context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	sd, err := h.service.Reset(c.Context(), playerID)
	if err != nil {
		h.logger.Error("failed to reset save data", zap.Error(err), zap.Int64("player_id", playerID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(sd)
}

func (h *PlayerHandlers) applyPatch(c *fiber.Ctx, playerID int64, patch *savedata.SavePatch) error {
	sd, err := h.service.ApplyPartialUpdate(c.Context(), playerID, patch)
	if err != nil {
		if errors.Is(err, savedata.ErrNegativeValue) || errors.Is(err, savedata.ErrUnknownAmmoClass) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("failed to apply save", zap.Error(err), zap.Int64("player_id", playerID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(fiber.StatusOK).JSON(sd)
}
