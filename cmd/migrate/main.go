package main

import (
	"flag"
	"log"

	"linguazone/internal/config"
	"linguazone/internal/database"
	"linguazone/internal/logger"
)

func main() {
	dir := flag.String("dir", "database/migrations", "directory holding *.up.sql files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	defer logger.Sync()

	db, err := database.NewMigrateOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, *dir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}
