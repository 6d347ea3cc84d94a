package testutils

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"

	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"
)

func GetTestConfig() config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Path:           ":memory:",
			MigrationsPath: "./migrations",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 5000,
		},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			AccessExpiration:  24 * time.Hour,
			RefreshExpiration: 7 * 24 * time.Hour,
		},
		SaveData: config.SaveDataConfig{
			GraceWindow: 5 * time.Minute,
		},
	}
}

func SetupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	createTables(t, db)
	return db
}

// createTables mirrors the goose migrations so tests can run against an
// in-memory database without resolving a migrations directory.
func createTables(t *testing.T, db *sql.DB) {
	tables := []string{
		`CREATE TABLE players (
            player_id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            level INTEGER NOT NULL DEFAULT 1,
            experience INTEGER NOT NULL DEFAULT 0,
            money INTEGER NOT NULL DEFAULT 0,
            health INTEGER NOT NULL DEFAULT 100,
            created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
            last_login_at TEXT
        );`,
		`CREATE TABLE sessions (
            session_id INTEGER PRIMARY KEY AUTOINCREMENT,
            player_id INTEGER NOT NULL,
            token TEXT NOT NULL UNIQUE,
            expires_at TEXT NOT NULL,
            created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
            ip_address TEXT,
            user_agent TEXT,
            FOREIGN KEY (player_id) REFERENCES players (player_id) ON DELETE CASCADE
        );`,
		`CREATE TABLE save_data (
            player_id INTEGER PRIMARY KEY,
            money INTEGER NOT NULL DEFAULT 0,
            health INTEGER NOT NULL DEFAULT 100,
            ammo_pistol INTEGER NOT NULL DEFAULT 30,
            ammo_rifle INTEGER NOT NULL DEFAULT 0,
            weapons TEXT NOT NULL DEFAULT '[]',
            current_weapon TEXT NOT NULL DEFAULT '',
            checkpoint_scene TEXT NOT NULL DEFAULT '',
            checkpoint_x REAL NOT NULL DEFAULT 0,
            checkpoint_y REAL NOT NULL DEFAULT 0,
            checkpoint_z REAL NOT NULL DEFAULT 0,
            checkpoint_at TEXT,
            kills INTEGER NOT NULL DEFAULT 0,
            level INTEGER NOT NULL DEFAULT 1,
            last_saved TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
            FOREIGN KEY (player_id) REFERENCES players (player_id) ON DELETE CASCADE
        );`,
	}

	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, stmt)
		}
	}
}

// CreateTestPlayer registers a player through the auth service, which
// also provisions the starter save-data row.
func CreateTestPlayer(t *testing.T, dbConn *sql.DB, username, email, password string) int64 {
	logger := zaptest.NewLogger(t)
	cfg := GetTestConfig()
	service := auth.NewAuthService(cfg, logger, dbConn)

	player, err := service.Register(context.Background(), username, email, password)
	if err != nil {
		t.Fatalf("Failed to register player: %v", err)
	}
	return player.PlayerID
}

func CreateTestAccessToken(t *testing.T, dbConn *sql.DB, playerID int64) string {
	logger := zaptest.NewLogger(t)
	cfg := GetTestConfig()
	service := auth.NewAuthService(cfg, logger, dbConn)
	token, err := service.GenerateAccessToken(playerID)
	if err != nil {
		t.Fatalf("Failed to generate access token: %v", err)
	}
	return token
}

func CreateTestSession(t *testing.T, dbConn *sql.DB, playerID int64) string {
	logger := zaptest.NewLogger(t)
	cfg := GetTestConfig()
	service := auth.NewAuthService(cfg, logger, dbConn)
	token, err := service.CreateSession(context.Background(), playerID, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return token
}

// DeleteSaveData removes a player's save_data row so absence policies
// can be exercised.
func DeleteSaveData(t *testing.T, dbConn *sql.DB, playerID int64) {
	if _, err := dbConn.Exec(`DELETE FROM save_data WHERE player_id = ?`, playerID); err != nil {
		t.Fatalf("Failed to delete save data: %v", err)
	}
}

// AgeAccount rewinds a player's created_at so the account falls outside
// the save-data grace window.
func AgeAccount(t *testing.T, dbConn *sql.DB, playerID int64, age time.Duration) {
	createdAt := time.Now().UTC().Add(-age).Format(time.RFC3339)
	if _, err := dbConn.Exec(`UPDATE players SET created_at = ? WHERE player_id = ?`, createdAt, playerID); err != nil {
		t.Fatalf("Failed to age account: %v", err)
	}
}
