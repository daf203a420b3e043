// Package store persists the client's session record. Every backend writes the
// whole record in a single operation so the auth token and the cached user can
// never be observed half-written after a restart.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"visionlink/internal/types"
)

// ErrCorrupt marks a persisted record that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt session record")

// Record is the composite persisted session state.
type Record struct {
	AuthToken     string      `json:"auth_token,omitempty"`
	User          *types.User `json:"user,omitempty"`
	ChatSessionID string      `json:"chat_session_id,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// HasIdentity reports whether both halves of the identity are present.
func (r *Record) HasIdentity() bool {
	return r != nil && r.AuthToken != "" && r.User != nil
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.User != nil {
		u := *r.User
		out.User = &u
	}
	return &out
}

// Backend is a durable home for one Record.
type Backend interface {
	// Load returns nil, nil when nothing has been persisted yet.
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context) error
	Close() error
}

type Kind string

const (
	KindFile     Kind = "file"
	KindMemory   Kind = "memory"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
)

type Options struct {
	Kind        Kind
	FilePath    string
	SQLitePath  string
	DatabaseURL string
	RedisURL    string
	// Profile keys the record inside shared backends (sqlite, postgres, redis).
	Profile string
}

// Open builds the backend selected by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	profile := opts.Profile
	if profile == "" {
		profile = "default"
	}
	switch opts.Kind {
	case KindFile, "":
		return NewFileStore(opts.FilePath), nil
	case KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath, profile)
	case KindPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL, profile)
	case KindRedis:
		return NewRedisStore(ctx, opts.RedisURL, profile)
	}
	return nil, fmt.Errorf("unknown session store %q", opts.Kind)
}
