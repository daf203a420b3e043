package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionlink/internal/store"
	"visionlink/internal/types"
)

var ana = types.User{ID: 1, Email: "a@b.com", FirstName: "Ana", LastName: "Silva"}

type failingBackend struct {
	*store.MemoryStore
	fail bool
}

func (f *failingBackend) Save(ctx context.Context, rec *store.Record) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(ctx, rec)
}

func TestChatSessionIDIsStable(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	first := s.ChatSessionID(ctx)
	require.True(t, strings.HasPrefix(first, "session_"))
	require.Equal(t, first, s.ChatSessionID(ctx))
}

func TestChatSessionIDSurvivesReloadAndLogout(t *testing.T) {
	ctx := context.Background()
	backend := store.NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	s, err := Open(ctx, backend)
	require.NoError(t, err)
	id := s.ChatSessionID(ctx)
	require.NoError(t, s.SetIdentity(ctx, "tok", ana))
	require.NoError(t, s.ClearIdentity(ctx))
	require.Equal(t, id, s.ChatSessionID(ctx))

	reloaded, err := Open(ctx, backend)
	require.NoError(t, err)
	require.Equal(t, id, reloaded.ChatSessionID(ctx))
	require.False(t, reloaded.IsAuthenticated())
}

func TestChatSessionIDConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	var wg sync.WaitGroup
	ids := make([]string, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = s.ChatSessionID(ctx)
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
}

func TestNewChatSessionIDUnique(t *testing.T) {
	const tabs = 8
	const perTab = 12500
	// Every simulated tab starts in the same millisecond.
	now := time.UnixMilli(1_700_000_000_000)

	results := make([][]string, tabs)
	var wg sync.WaitGroup
	for tab := 0; tab < tabs; tab++ {
		wg.Add(1)
		go func(tab int) {
			defer wg.Done()
			out := make([]string, perTab)
			for i := range out {
				out[i] = NewChatSessionID(now)
			}
			results[tab] = out
		}(tab)
	}
	wg.Wait()

	seen := make(map[string]struct{}, tabs*perTab)
	for _, out := range results {
		for _, id := range out {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	}
	require.Len(t, seen, 100000)
}

func TestSetAndClearIdentity(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())

	require.NoError(t, s.SetIdentity(ctx, "tok-1", ana))
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "tok-1", s.Token())
	require.Equal(t, "a@b.com", s.CurrentUser().Email)

	require.NoError(t, s.ClearIdentity(ctx))
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())
	require.Empty(t, s.Token())
}

func TestSetIdentityRejectsEmptyToken(t *testing.T) {
	s := NewInMemory()
	require.Error(t, s.SetIdentity(context.Background(), "  ", ana))
	require.False(t, s.IsAuthenticated())
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryStore: store.NewMemoryStore()}
	s, err := Open(ctx, backend)
	require.NoError(t, err)

	backend.fail = true
	require.Error(t, s.SetIdentity(ctx, "tok", ana))
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())

	backend.fail = false
	require.NoError(t, s.SetIdentity(ctx, "tok", ana))
	backend.fail = true
	require.Error(t, s.ClearIdentity(ctx))
	require.True(t, s.IsAuthenticated())
	require.NotNil(t, s.CurrentUser())
}

func TestChatSessionIDKeptInMemoryWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryStore: store.NewMemoryStore(), fail: true}
	s, err := Open(ctx, backend)
	require.NoError(t, err)

	id := s.ChatSessionID(ctx)
	require.NotEmpty(t, id)
	require.Equal(t, id, s.ChatSessionID(ctx))
}

func TestOpenHydratesIdentity(t *testing.T) {
	u := ana
	backend := store.NewMemoryStoreWith(&store.Record{AuthToken: "persisted", User: &u, ChatSessionID: "session_9_x"})

	s, err := Open(context.Background(), backend)
	require.NoError(t, err)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "persisted", s.Token())
	require.Equal(t, "session_9_x", s.ChatSessionID(context.Background()))
}

func TestOpenDropsHalfIdentity(t *testing.T) {
	backend := store.NewMemoryStoreWith(&store.Record{AuthToken: "orphan", ChatSessionID: "session_9_x"})

	s, err := Open(context.Background(), backend)
	require.NoError(t, err)
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())
	require.Equal(t, "session_9_x", s.ChatSessionID(context.Background()))
}

func TestOpenRecoversFromCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(ctx, store.NewFileStore(path))
	require.NoError(t, err)
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())

	require.NoError(t, s.SetIdentity(ctx, "fresh", ana))
	reloaded, err := Open(ctx, store.NewFileStore(path))
	require.NoError(t, err)
	require.Equal(t, "fresh", reloaded.Token())
}

type brokenBackend struct{ *store.MemoryStore }

func (brokenBackend) Load(context.Context) (*store.Record, error) {
	return nil, errors.New("connection refused")
}

func TestOpenSurfacesBackendFailure(t *testing.T) {
	_, err := Open(context.Background(), brokenBackend{store.NewMemoryStore()})
	require.Error(t, err)
}

func TestUpdateUserOnlyWhenAuthenticated(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.UpdateUser(ctx, ana))
	require.Nil(t, s.CurrentUser())

	require.NoError(t, s.SetIdentity(ctx, "tok", ana))
	renamed := ana
	renamed.FirstName = "Ana Maria"
	require.NoError(t, s.UpdateUser(ctx, renamed))
	require.Equal(t, "Ana Maria", s.CurrentUser().FirstName)
	require.Equal(t, "tok", s.Token())
}

func TestResetForgetsChatSession(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	first := s.ChatSessionID(ctx)
	require.NoError(t, s.SetIdentity(ctx, "tok", ana))

	require.NoError(t, s.Reset(ctx))
	require.False(t, s.IsAuthenticated())
	require.NotEqual(t, first, s.ChatSessionID(ctx))
}

func TestConcurrentLoginLogoutNeverSplitsIdentity(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryStore()
	s, err := Open(ctx, backend)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = s.SetIdentity(ctx, "tok", ana)
		}()
		go func() {
			defer wg.Done()
			_ = s.ClearIdentity(ctx)
		}()
		go func() {
			defer wg.Done()
			tok, u := s.Snapshot()
			assert.Equal(t, tok == "", u == nil)
		}()
	}
	wg.Wait()

	rec, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, rec.AuthToken == "", rec.User == nil)
}
