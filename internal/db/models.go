package db

import (
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
)

// Weapon classes with an ammunition reserve.
const (
	AmmoClassPistol = "pistol"
	AmmoClassRifle  = "rifle"
)

// Player is a row in the players table. The level/experience/money/health
// columns are legacy mirrors kept for older clients; save_data is the
// authoritative gameplay state.
type Player struct {
	PlayerID     int64
	Username     string
	Email        string
	PasswordHash string
	Level        int64
	Experience   int64
	Money        int64
	Health       int64
	CreatedAt    types.Timestamp
	LastLoginAt  types.NullTimestamp
}

// Session is a refresh-token session row.
type Session struct {
	SessionID int64
	PlayerID  int64
	Token     string
	ExpiresAt types.Timestamp
	CreatedAt types.Timestamp
	IpAddress *string
	UserAgent *string
}

// Weapon is one entry in a player's weapon inventory. IDs are unique
// within the owning save_data row only.
type Weapon struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Damage     int64  `json:"damage"`
	Ammo       int64  `json:"ammo"`
	Level      int64  `json:"level"`
	IsUnlocked bool   `json:"isUnlocked"`
}

// Position is a point in world space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Checkpoint records where a player last saved progress.
type Checkpoint struct {
	SceneID   string          `json:"sceneId"`
	Position  Position        `json:"position"`
	Timestamp types.Timestamp `json:"timestamp"`
}

// SaveData is the authoritative gameplay state for one player.
// JSON tags match the game client's wire format.
type SaveData struct {
	PlayerID      int64            `json:"userId"`
	Money         int64            `json:"money"`
	Health        int64            `json:"health"`
	Ammunition    map[string]int64 `json:"ammunition"`
	Weapons       []Weapon         `json:"weapons"`
	CurrentWeapon string           `json:"currentWeapon"`
	Checkpoint    Checkpoint       `json:"checkpoint"`
	Kills         int64            `json:"kills"`
	Level         int64            `json:"level"`
	LastSaved     types.Timestamp  `json:"lastSaved"`
}
