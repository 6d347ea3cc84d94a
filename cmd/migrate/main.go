package main

import (
	"fmt"
	"os"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/db"
	"github.com/KhangSoDzach/Dead-Zone-Server/pkg/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	conn, err := db.Open(cfg.Database.Path, db.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	switch os.Args[1] {
	case "up":
		err = db.Migrate(conn, cfg.Database.MigrationsPath)
	case "down":
		err = db.Rollback(conn, cfg.Database.MigrationsPath)
	case "status":
		err = db.MigrationStatus(conn, cfg.Database.MigrationsPath)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
}
