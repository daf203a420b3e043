package store

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"visionlink/internal/db"
)

// PostgresStore shares session records across machines, keyed by profile.
type PostgresStore struct {
	database *db.DB
	*sqlRecords
}

func NewPostgresStore(ctx context.Context, databaseURL, profile string) (*PostgresStore, error) {
	database, err := db.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "migrate session schema")
	}
	return NewPostgresStoreFromDB(database, profile), nil
}

func NewPostgresStoreFromDB(database *db.DB, profile string) *PostgresStore {
	return &PostgresStore{
		database: database,
		sqlRecords: newSQLRecords(database.DB, profile, func(i int) string {
			return "$" + strconv.Itoa(i)
		}),
	}
}

func (s *PostgresStore) Load(ctx context.Context) (*Record, error)   { return s.load(ctx) }
func (s *PostgresStore) Save(ctx context.Context, rec *Record) error { return s.save(ctx, rec) }
func (s *PostgresStore) Delete(ctx context.Context) error            { return s.delete(ctx) }
func (s *PostgresStore) Close() error                                { return s.database.Close() }
