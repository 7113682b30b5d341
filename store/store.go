// Package store keeps the client's local state in a SQLite file: the
// encrypted session token and per-order answer drafts. Drafts are the
// CLI's working copy of a questionnaire, not an offline queue. Nothing
// in here is ever submitted without an explicit user action.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/LRM-Solutions/fortelyne-app-checklist/config"
)

//go:embed migrations
var dbMigrations embed.FS

type Store struct {
	db  *sql.DB
	key []byte
}

func Open(cfg config.Config) (*Store, error) {
	if dir := filepath.Dir(cfg.StatePath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store.mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.StatePath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, err
	}

	// db tuning options
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	key, err := loadOrCreateKey(cfg.StatePath + ".key")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, key: key}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func migrateDB(db *sql.DB) error {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return err
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return err
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
