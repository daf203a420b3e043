// Package session owns the client's identity state: the auth token, the cached
// user profile and the chat session id. State lives in memory and is mirrored to
// a store.Backend after every change.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"visionlink/internal/store"
	"visionlink/internal/types"
)

// Store is constructed once per process and passed to every consumer.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend store.Backend
	rec     store.Record
	now     func() time.Time
}

// Open hydrates a Store from the backend. The token is not validated remotely;
// a revoked token shows up as an authentication failure on first use. A record
// that cannot be decoded is treated as absent and replaced on the next write.
func Open(ctx context.Context, backend store.Backend) (*Store, error) {
	s := &Store{backend: backend, now: time.Now}
	rec, err := backend.Load(ctx)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		log.Warn().Err(err).Msg("discarding unreadable persisted session")
		rec = nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec != nil {
		s.rec = *rec
		if rec.User != nil {
			u := *rec.User
			s.rec.User = &u
		}
	}
	if (s.rec.AuthToken == "") != (s.rec.User == nil) {
		// Half an identity is no identity.
		log.Warn().Msg("discarding incomplete persisted identity")
		s.rec.AuthToken = ""
		s.rec.User = nil
	}
	return s, nil
}

// NewInMemory returns a Store over a fresh memory backend.
func NewInMemory() *Store {
	s, _ := Open(context.Background(), store.NewMemoryStore())
	return s
}

// SetIdentity persists token and user in one write. On failure the in-memory
// state is left as it was.
func (s *Store) SetIdentity(ctx context.Context, token string, user types.User) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty auth token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.rec
	next.AuthToken = token
	next.User = &user
	return s.commitLocked(ctx, next)
}

// UpdateUser refreshes the cached profile while a token is held.
func (s *Store) UpdateUser(ctx context.Context, user types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.AuthToken == "" {
		return nil
	}
	next := s.rec
	next.User = &user
	return s.commitLocked(ctx, next)
}

// ClearIdentity drops token and user. The chat session id survives.
func (s *Store) ClearIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.rec
	next.AuthToken = ""
	next.User = nil
	return s.commitLocked(ctx, next)
}

// Reset forgets everything, chat session id included.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.rec = store.Record{}
	return nil
}

// ChatSessionID returns the persisted chat session id, generating and persisting
// one on first use. A failed write keeps the new id for this process only.
func (s *Store) ChatSessionID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.ChatSessionID != "" {
		return s.rec.ChatSessionID
	}
	next := s.rec
	next.ChatSessionID = NewChatSessionID(s.now())
	if err := s.commitLocked(ctx, next); err != nil {
		log.Warn().Err(err).Msg("chat session id not persisted")
		s.rec.ChatSessionID = next.ChatSessionID
	}
	return s.rec.ChatSessionID
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.AuthToken != ""
}

// Token returns the held auth token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.AuthToken
}

// CurrentUser returns a copy of the cached profile, or nil when anonymous.
func (s *Store) CurrentUser() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.User == nil {
		return nil
	}
	u := *s.rec.User
	return &u
}

// Snapshot returns token and user read under one lock.
func (s *Store) Snapshot() (string, *types.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.User == nil {
		return s.rec.AuthToken, nil
	}
	u := *s.rec.User
	return s.rec.AuthToken, &u
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) commitLocked(ctx context.Context, next store.Record) error {
	next.UpdatedAt = s.now().UTC()
	if err := s.backend.Save(ctx, &next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.rec = next
	return nil
}

// NewChatSessionID builds "session_<unix millis>_<random>". The random part keeps
// ids distinct when several clients start in the same millisecond.
func NewChatSessionID(now time.Time) string {
	r := uuid.New()
	suffix := strings.ReplaceAll(r.String(), "-", "")[:16]
	return "session_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}
