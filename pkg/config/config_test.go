package config

import (
	"testing"
	"time"
)

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("Expected error when JWT_SECRET is missing, got nil")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.JWT.Secret != "unit-test-secret" {
		t.Errorf("Expected secret to come from env, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.AccessExpiration != 24*time.Hour {
		t.Errorf("Expected 24h access expiration, got %v", cfg.JWT.AccessExpiration)
	}
	if cfg.JWT.RefreshExpiration != 7*24*time.Hour {
		t.Errorf("Expected 7d refresh expiration, got %v", cfg.JWT.RefreshExpiration)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "./dead_zone.db" {
		t.Errorf("Expected default db path, got %q", cfg.Database.Path)
	}
	if cfg.SaveData.GraceWindow != 5*time.Minute {
		t.Errorf("Expected 5m grace window, got %v", cfg.SaveData.GraceWindow)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_ACCESS_EXPIRATION", "1h")
	t.Setenv("SAVE_DATA_GRACE_WINDOW", "10m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Expected db path override, got %q", cfg.Database.Path)
	}
	if cfg.JWT.AccessExpiration != time.Hour {
		t.Errorf("Expected 1h access expiration, got %v", cfg.JWT.AccessExpiration)
	}
	if cfg.SaveData.GraceWindow != 10*time.Minute {
		t.Errorf("Expected 10m grace window, got %v", cfg.SaveData.GraceWindow)
	}
}
