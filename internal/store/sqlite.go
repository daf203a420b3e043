package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records for several profiles in one local database file.
type SQLiteStore struct {
	db *sql.DB
	*sqlRecords
}

func NewSQLiteStore(ctx context.Context, dbPath, profile string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// Single writer keeps SQLITE_BUSY out of concurrent login/logout.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS client_sessions (
			profile TEXT PRIMARY KEY,
			auth_token TEXT NOT NULL DEFAULT '',
			user_json TEXT NOT NULL DEFAULT '',
			chat_session_id TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL
		)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	return &SQLiteStore{
		db:         db,
		sqlRecords: newSQLRecords(db, profile, func(int) string { return "?" }),
	}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Record, error)   { return s.load(ctx) }
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error { return s.save(ctx, rec) }
func (s *SQLiteStore) Delete(ctx context.Context) error            { return s.delete(ctx) }
func (s *SQLiteStore) Close() error                                { return s.db.Close() }
