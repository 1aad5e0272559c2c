package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/sijms/go-ora/v2" // pure-Go Oracle driver for the migrate binary
)

// NewMigrateOracleDB opens an Oracle connection for migrations. The
// migrate binary uses go-ora so it can run without Oracle client
// libraries installed.
func NewMigrateOracleDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return db, nil
}

// RunMigrations executes every *.up.sql file in migrationsDir in
// lexical order. Statements are separated by lines containing only "/",
// the SQL*Plus convention, so one file can hold several DDL statements.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file.Name(), err)
		}

		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", file.Name(), err)
			}
		}

		log.Printf("Executed migration: %s", file.Name())
	}

	log.Println("Migrations completed successfully")
	return nil
}

func splitStatements(content string) []string {
	var stmts []string
	var current []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "/" {
			if stmt := strings.TrimSpace(strings.Join(current, "\n")); stmt != "" {
				stmts = append(stmts, stmt)
			}
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	if stmt := strings.TrimSpace(strings.Join(current, "\n")); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}
