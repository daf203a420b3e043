package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"visionlink/internal/api"
	"visionlink/internal/config"
	"visionlink/internal/mockapi"
	"visionlink/internal/session"
	"visionlink/internal/types"
)

type harness struct {
	client *api.Client
	hits   *atomic.Int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock := mockapi.New(mockapi.Options{})
	hits := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		mock.Router().ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return &harness{client: api.New(srv.URL+"/api", session.NewInMemory()), hits: hits}
}

// run executes one command line and returns what it printed.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(Options{
		Config:   config.Config{Store: "memory", Profile: "default", LogLevel: "disabled"},
		Stdout:   &out,
		Stderr:   &bytes.Buffer{},
		Stdin:    strings.NewReader(""),
		Prompter: noPrompter{},
		Client:   h.client,
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) register(t *testing.T) {
	t.Helper()
	_, err := h.run(t, "register",
		"--email", "ana@example.com", "--password", "longenough1", "--password-confirm", "longenough1",
		"--first-name", "Ana", "--last-name", "Silva")
	require.NoError(t, err)
}

// runWithStateFile goes through the real store and client wiring against a
// file-backed session at path.
func runWithStateFile(t *testing.T, apiURL, path string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(Options{
		Config: config.Config{
			APIURL:    apiURL,
			Store:     "file",
			StateFile: path,
			Profile:   "default",
			LogLevel:  "disabled",
		},
		Stdout:   &out,
		Stderr:   &bytes.Buffer{},
		Stdin:    strings.NewReader(""),
		Prompter: noPrompter{},
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCorruptStateFileDoesNotLockOut(t *testing.T) {
	mock := mockapi.New(mockapi.Options{})
	var (
		mu     sync.Mutex
		agents []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		mock.Router().ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	apiURL := srv.URL + "/api"
	path := filepath.Join(t.TempDir(), "session.json")
	corrupt := func() { require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600)) }

	corrupt()
	out, err := runWithStateFile(t, apiURL, path, "session", "reset")
	require.NoError(t, err)
	require.Contains(t, out, "Session reset.")
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	corrupt()
	out, err = runWithStateFile(t, apiURL, path, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(b), "{not json")

	corrupt()
	out, err = runWithStateFile(t, apiURL, path, "plans")
	require.NoError(t, err)
	require.Contains(t, out, "VisionLink Home")

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, agents)
	for _, ua := range agents {
		require.Equal(t, userAgent, ua)
	}
}

func TestSubscribeWhileAnonymousSendsNothing(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "subscribe", "2")
	require.ErrorIs(t, err, ErrLoginRequired)
	require.Zero(t, h.hits.Load())

	_, err = h.run(t, "subscribe", "quality")
	require.ErrorIs(t, err, ErrLoginRequired)
	require.Zero(t, h.hits.Load())
}

func TestRegisterSubscribeLogout(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	require.True(t, h.client.IsAuthenticated())

	out, err := h.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Ana Silva <ana@example.com>")

	out, err = h.run(t, "subscribe", "quality", "--notes", "manhã")
	require.NoError(t, err)
	require.Contains(t, out, "subscription #")

	out, err = h.run(t, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")
	require.False(t, h.client.IsAuthenticated())

	out, err = h.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not logged in.")
}

func TestRegisterValidationNeverHitsNetwork(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "register",
		"--email", "not-an-email", "--password", "short", "--password-confirm", "other",
		"--first-name", "Ana", "--last-name", "Silva")

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "email is invalid", fe["email"])
	require.Equal(t, "password must be at least 8 characters", fe["password"])
	require.Equal(t, "passwords do not match", fe["password_confirm"])
	require.Zero(t, h.hits.Load())
}

func TestRegisterTakenEmail(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	_, err := h.run(t, "logout")
	require.NoError(t, err)

	_, err = h.run(t, "register",
		"--email", "ana@example.com", "--password", "longenough1", "--password-confirm", "longenough1",
		"--first-name", "Ana", "--last-name", "Silva")
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "email already registered", fe["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	_, err := h.run(t, "logout")
	require.NoError(t, err)

	_, err = h.run(t, "login", "--email", "ana@example.com", "--password", "wrongpassword")
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "incorrect email or password", fe["password"])
	require.False(t, h.client.IsAuthenticated())

	out, err := h.run(t, "login", "--email", "ana@example.com", "--password", "longenough1")
	require.NoError(t, err)
	require.Contains(t, out, "Welcome back, Ana Silva!")
}

func TestLoginMissingValueWithoutTerminal(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "login", "--email", "ana@example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Password")
	require.Zero(t, h.hits.Load())
}

func TestPlansOutput(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "plans")
	require.NoError(t, err)
	require.Contains(t, out, "VisionLink Home")
	require.Contains(t, out, "R$ 79,90")
	require.Contains(t, out, "R$ 99,90")
	require.Less(t, strings.Index(out, "VisionLink Home"), strings.Index(out, "VisionLink Vision"))
	require.Contains(t, out, "Most popular: VisionLink Quality, VisionLink Vision")

	out, err = h.run(t, "plans", "--popular")
	require.NoError(t, err)
	require.NotContains(t, out, "VisionLink Home")
	require.Contains(t, out, "VisionLink Quality")
}

func TestPlanNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "plan", "nope")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "not found"))
}

func TestProfileRequiresLogin(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "profile")
	require.ErrorIs(t, err, ErrLoginRequired)
	_, err = h.run(t, "profile", "update", "--phone", "11 99999-0000")
	require.ErrorIs(t, err, ErrLoginRequired)
	require.Zero(t, h.hits.Load())
}

func TestProfileUpdate(t *testing.T) {
	h := newHarness(t)
	h.register(t)

	_, err := h.run(t, "profile", "update")
	require.Error(t, err)

	out, err := h.run(t, "profile", "update", "--phone", "11 99999-0000")
	require.NoError(t, err)
	require.Contains(t, out, "11 99999-0000")
	require.Equal(t, "11 99999-0000", h.client.Session().CurrentUser().Phone)
}

func TestChatKeepsSession(t *testing.T) {
	h := newHarness(t)

	sid, err := h.run(t, "chat", "session")
	require.NoError(t, err)
	sid = strings.TrimSpace(sid)
	require.True(t, strings.HasPrefix(sid, "session_"))

	_, err = h.run(t, "chat", "send", "quais", "planos", "vocês", "têm?")
	require.NoError(t, err)
	_, err = h.run(t, "chat", "send", "obrigado")
	require.NoError(t, err)

	out, err := h.run(t, "chat", "history")
	require.NoError(t, err)
	require.Contains(t, out, "Session "+sid)
	require.Contains(t, out, "quais planos vocês têm?")
	require.Contains(t, out, "obrigado")

	_, err = h.run(t, "chat", "feedback", "1", "9")
	require.Error(t, err)
	out, err = h.run(t, "chat", "feedback", "1", "5", "--comment", "ótimo")
	require.NoError(t, err)
	require.NotEmpty(t, strings.TrimSpace(out))
}

func TestSessionReset(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	before := h.client.Session().ChatSessionID(context.Background())

	out, err := h.run(t, "session", "show")
	require.NoError(t, err)
	require.Contains(t, out, "authenticated: yes")

	_, err = h.run(t, "session", "reset")
	require.NoError(t, err)
	require.False(t, h.client.IsAuthenticated())
	require.NotEqual(t, before, h.client.Session().ChatSessionID(context.Background()))
}

func TestDescribeMapsKinds(t *testing.T) {
	err := describe(actionGeneric, &api.Error{Kind: api.KindNetwork, Message: "dial tcp: refused"})
	require.Contains(t, err.Error(), "could not reach VisionLink")

	err = describe(actionGeneric, &api.Error{Kind: api.KindServer, Status: 500, Message: "HTTP 500"})
	require.Contains(t, err.Error(), "server error")

	err = describe(actionGeneric, &api.Error{Kind: api.KindAuthentication, Status: 401})
	require.Contains(t, err.Error(), "visionlink login")

	plain := errors.New("boom")
	require.Equal(t, plain, describe(actionGeneric, plain))
}

func TestValidateLogin(t *testing.T) {
	require.NoError(t, ValidateLogin(types.Credentials{Email: "a@b.com", Password: "x"}))
	err := ValidateLogin(types.Credentials{})
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe, 2)
}
