package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func gooseSetup() error {
	goose.SetBaseFS(nil)
	goose.SetLogger(log.New(os.Stdout, "[migrations] ", log.LstdFlags))
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Migrate applies all pending migrations from migrationDir.
func Migrate(conn *sql.DB, migrationDir string) error {
	if err := gooseSetup(); err != nil {
		return err
	}
	if err := goose.Up(conn, migrationDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rollback reverts the most recent migration from migrationDir.
func Rollback(conn *sql.DB, migrationDir string) error {
	if err := gooseSetup(); err != nil {
		return err
	}
	if err := goose.Down(conn, migrationDir); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// MigrationStatus prints the applied/pending state of each migration.
func MigrationStatus(conn *sql.DB, migrationDir string) error {
	if err := gooseSetup(); err != nil {
		return err
	}
	return goose.Status(conn, migrationDir)
}
