package savedata

import (
	"context"
	"errors"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
)

var (
	// ErrSaveDataNotFound indicates no save_data row exists for the player.
	ErrSaveDataNotFound = errors.New("save data not found")
	// ErrDataLossSuspected indicates save-data is missing on an account
	// older than the grace window. It is reported, never papered over
	// with a fresh default.
	ErrDataLossSuspected = errors.New("save data missing for established account")
	// ErrNegativeValue indicates a money or ammunition count below zero.
	ErrNegativeValue = errors.New("value must not be negative")
	// ErrUnknownAmmoClass indicates an ammunition key outside the known
	// weapon classes.
	ErrUnknownAmmoClass = errors.New("unknown ammunition class")
)

// SavePatch is a client-submitted partial save. Nil fields are left
// untouched on the stored document.
//
// Merge semantics are deliberately asymmetric: the ammunition map is
// merged class-by-class (omitted classes keep their stored counts),
// while the weapons list and checkpoint are replaced wholesale when
// present. Collapsing ammunition to replace semantics would silently
// zero classes omitted by older clients.
type SavePatch struct {
	Money         *int64
	Health        *int64
	Ammunition    map[string]int64
	Weapons       []db.Weapon
	CurrentWeapon *string
	Checkpoint    *db.Checkpoint
	Kills         *int64
	Level         *int64
}

// Service reconciles partial client saves against the stored document.
type Service interface {
	// Fetch returns the player's save-data. A missing row on an account
	// younger than the grace window is lazily created with defaults;
	// on an older account Fetch fails with ErrDataLossSuspected.
	Fetch(ctx context.Context, playerID int64) (*db.SaveData, error)

	// ApplyPartialUpdate merges the patch onto the stored document,
	// creating a default document first if none exists, and stamps
	// lastSaved. Returns the full resulting document.
	ApplyPartialUpdate(ctx context.Context, playerID int64, patch *SavePatch) (*db.SaveData, error)

	// Reset replaces any existing save-data with the starter document.
	Reset(ctx context.Context, playerID int64) (*db.SaveData, error)
}

// DefaultSaveData builds the starter document a new account begins with:
// one unlocked pistol, a Tutorial checkpoint at the origin, and zeroed
// counters.
func DefaultSaveData(playerID int64) *db.SaveData {
	now := types.Now()
	return &db.SaveData{
		PlayerID: playerID,
		Money:    0,
		Health:   100,
		Ammunition: map[string]int64{
			db.AmmoClassPistol: 30,
			db.AmmoClassRifle:  0,
		},
		Weapons: []db.Weapon{
			{
				ID:         "pistol",
				Name:       "Pistol",
				Damage:     10,
				Ammo:       30,
				Level:      1,
				IsUnlocked: true,
			},
		},
		CurrentWeapon: "pistol",
		Checkpoint: db.Checkpoint{
			SceneID:   "Tutorial",
			Position:  db.Position{X: 0, Y: 0, Z: 0},
			Timestamp: now,
		},
		Kills:     0,
		Level:     1,
		LastSaved: now,
	}
}
