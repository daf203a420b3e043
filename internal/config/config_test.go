package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"VISIONLINK_API_URL", "VISIONLINK_STORE", "VISIONLINK_HTTP_TIMEOUT", "VISIONLINK_STRICT_AUTH", "VISIONLINK_PROFILE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	require.Equal(t, "http://localhost:8000/api", cfg.APIURL)
	require.Equal(t, "file", cfg.Store)
	require.Equal(t, "default", cfg.Profile)
	require.Equal(t, 20*time.Second, cfg.HTTPTimeout)
	require.False(t, cfg.StrictAuth)
	require.NotEmpty(t, cfg.StateFile)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VISIONLINK_API_URL", "https://api.example.test/api")
	t.Setenv("VISIONLINK_STORE", "SQLite")
	t.Setenv("VISIONLINK_HTTP_TIMEOUT", "5s")
	t.Setenv("VISIONLINK_STRICT_AUTH", "yes")

	cfg := Load()
	require.Equal(t, "https://api.example.test/api", cfg.APIURL)
	require.Equal(t, "sqlite", cfg.Store)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.True(t, cfg.StrictAuth)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("X_DURATION", "soon")
	t.Setenv("X_BOOL", "maybe")
	require.Equal(t, time.Minute, getEnvDurationDefault("X_DURATION", time.Minute))
	require.True(t, getEnvBoolDefault("X_BOOL", true))
}

func TestLoadServerDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := LoadServer()
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "*", cfg.AllowedOrigin)
	require.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, zerolog.Disabled, parseLevel("off"))
	require.Equal(t, zerolog.WarnLevel, parseLevel(""))
	require.Equal(t, zerolog.WarnLevel, parseLevel("chatty"))
}

func TestInitLoggerWritesJSONOffTerminal(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitLogger(&buf, "info")
	log.Debug().Msg("hidden")
	log.Info().Str("store", "file").Msg("ready")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"store":"file"`)
	require.Contains(t, buf.String(), `"level":"info"`)
}
