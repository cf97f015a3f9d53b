package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "ticketing")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoad_PoolSettings(t *testing.T) {
	t.Run("defaults apply when unset", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_MAX_OPEN_CONNS", "")
		t.Setenv("DB_MAX_IDLE_CONNS", "")
		t.Setenv("DB_CONN_MAX_LIFETIME", "")

		cfg := Load()
		if cfg.DBMaxOpen != 25 || cfg.DBMaxIdle != 25 {
			t.Fatalf("expected default pool 25/25, got %d/%d", cfg.DBMaxOpen, cfg.DBMaxIdle)
		}
		if cfg.DBConnLife != 30*time.Minute {
			t.Fatalf("expected default lifetime 30m, got %v", cfg.DBConnLife)
		}
	})

	t.Run("env overrides win", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_MAX_OPEN_CONNS", "50")
		t.Setenv("DB_MAX_IDLE_CONNS", "10")
		t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

		cfg := Load()
		if cfg.DBMaxOpen != 50 || cfg.DBMaxIdle != 10 {
			t.Fatalf("expected pool 50/10, got %d/%d", cfg.DBMaxOpen, cfg.DBMaxIdle)
		}
		if cfg.DBConnLife != 5*time.Minute {
			t.Fatalf("expected lifetime 5m, got %v", cfg.DBConnLife)
		}
		if cfg.DBName != "ticketing" || cfg.BcryptCost != 10 {
			t.Fatalf("required values mis-loaded: %+v", cfg)
		}
	})
}
