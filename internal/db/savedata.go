package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db/types"
)

const saveDataColumns = `player_id, money, health, ammo_pistol, ammo_rifle, weapons, current_weapon,
	checkpoint_scene, checkpoint_x, checkpoint_y, checkpoint_z, checkpoint_at, kills, level, last_saved`

// SaveDataPatch names the save_data columns a partial update touches.
// Nil pointers mean the stored value is left alone. LastSaved is always
// written. The resulting UPDATE sets only the named columns, so two
// concurrent patches to disjoint fields both persist.
type SaveDataPatch struct {
	Money         *int64
	Health        *int64
	AmmoPistol    *int64
	AmmoRifle     *int64
	Weapons       []Weapon // nil leaves the inventory untouched
	CurrentWeapon *string
	Checkpoint    *Checkpoint
	Kills         *int64
	Level         *int64
	LastSaved     types.Timestamp
}

func marshalWeapons(weapons []Weapon) (string, error) {
	if weapons == nil {
		weapons = []Weapon{}
	}
	raw, err := json.Marshal(weapons)
	if err != nil {
		return "", fmt.Errorf("failed to marshal weapons: %w", err)
	}
	return string(raw), nil
}

func scanSaveData(row interface{ Scan(...interface{}) error }) (*SaveData, error) {
	var sd SaveData
	var weaponsJSON string
	var ammoPistol, ammoRifle int64
	var checkpointAt types.NullTimestamp
	err := row.Scan(&sd.PlayerID, &sd.Money, &sd.Health, &ammoPistol, &ammoRifle,
		&weaponsJSON, &sd.CurrentWeapon,
		&sd.Checkpoint.SceneID, &sd.Checkpoint.Position.X, &sd.Checkpoint.Position.Y, &sd.Checkpoint.Position.Z,
		&checkpointAt, &sd.Kills, &sd.Level, &sd.LastSaved)
	if err != nil {
		return nil, err
	}
	sd.Ammunition = map[string]int64{
		AmmoClassPistol: ammoPistol,
		AmmoClassRifle:  ammoRifle,
	}
	if checkpointAt.Valid {
		sd.Checkpoint.Timestamp = checkpointAt.Timestamp
	}
	sd.Weapons = []Weapon{}
	if weaponsJSON != "" {
		if err := json.Unmarshal([]byte(weaponsJSON), &sd.Weapons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weapons: %w", err)
		}
	}
	return &sd, nil
}

// GetSaveData fetches the save_data row owned by playerID.
func (q *Queries) GetSaveData(ctx context.Context, dbtx DBTX, playerID int64) (*SaveData, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+saveDataColumns+` FROM save_data WHERE player_id = ?`, playerID)
	return scanSaveData(row)
}

// CreateSaveData inserts a full save_data row. player_id is the primary
// key, so a second row for the same owner fails the insert.
func (q *Queries) CreateSaveData(ctx context.Context, dbtx DBTX, sd *SaveData) error {
	weaponsJSON, err := marshalWeapons(sd.Weapons)
	if err != nil {
		return err
	}
	_, err = dbtx.ExecContext(ctx,
		`INSERT INTO save_data (`+saveDataColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sd.PlayerID, sd.Money, sd.Health,
		sd.Ammunition[AmmoClassPistol], sd.Ammunition[AmmoClassRifle],
		weaponsJSON, sd.CurrentWeapon,
		sd.Checkpoint.SceneID, sd.Checkpoint.Position.X, sd.Checkpoint.Position.Y, sd.Checkpoint.Position.Z,
		sd.Checkpoint.Timestamp, sd.Kills, sd.Level, sd.LastSaved)
	return err
}

// UpdateSaveData applies a patch as one UPDATE naming only the provided
// columns. Returns sql.ErrNoRows when no save_data row exists for the
// player.
func (q *Queries) UpdateSaveData(ctx context.Context, dbtx DBTX, playerID int64, patch *SaveDataPatch) error {
	sets := []string{"last_saved = ?"}
	args := []interface{}{patch.LastSaved}

	if patch.Money != nil {
		sets = append(sets, "money = ?")
		args = append(args, *patch.Money)
	}
	if patch.Health != nil {
		sets = append(sets, "health = ?")
		args = append(args, *patch.Health)
	}
	if patch.AmmoPistol != nil {
		sets = append(sets, "ammo_pistol = ?")
		args = append(args, *patch.AmmoPistol)
	}
	if patch.AmmoRifle != nil {
		sets = append(sets, "ammo_rifle = ?")
		args = append(args, *patch.AmmoRifle)
	}
	if patch.Weapons != nil {
		weaponsJSON, err := marshalWeapons(patch.Weapons)
		if err != nil {
			return err
		}
		sets = append(sets, "weapons = ?")
		args = append(args, weaponsJSON)
	}
	if patch.CurrentWeapon != nil {
		sets = append(sets, "current_weapon = ?")
		args = append(args, *patch.CurrentWeapon)
	}
	if patch.Checkpoint != nil {
		sets = append(sets, "checkpoint_scene = ?", "checkpoint_x = ?", "checkpoint_y = ?", "checkpoint_z = ?", "checkpoint_at = ?")
		args = append(args,
			patch.Checkpoint.SceneID,
			patch.Checkpoint.Position.X, patch.Checkpoint.Position.Y, patch.Checkpoint.Position.Z,
			patch.Checkpoint.Timestamp)
	}
	if patch.Kills != nil {
		sets = append(sets, "kills = ?")
		args = append(args, *patch.Kills)
	}
	if patch.Level != nil {
		sets = append(sets, "level = ?")
		args = append(args, *patch.Level)
	}

	args = append(args, playerID)
	query := `UPDATE save_data SET ` + strings.Join(sets, ", ") + ` WHERE player_id = ?`
	result, err := dbtx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSaveData removes the save_data row owned by playerID.
func (q *Queries) DeleteSaveData(ctx context.Context, dbtx DBTX, playerID int64) error {
	_, err := dbtx.ExecContext(ctx, `DELETE FROM save_data WHERE player_id = ?`, playerID)
	return err
}
