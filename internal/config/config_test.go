package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threatscope.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
[server]
port = 9090
cors_allowed_origin = "https://app.example.com"

[database]
path = "/var/lib/threatscope/scores.db"

[rules]
keywords_file = "/etc/threatscope/keywords.yaml"

[log]
level = "debug"
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "https://app.example.com", cfg.Server.CORSAllowedOrigin)
		assert.Equal(t, "/var/lib/threatscope/scores.db", cfg.Database.Path)
		assert.Equal(t, "/etc/threatscope/keywords.yaml", cfg.Rules.KeywordsFile)
		assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	})

	t.Run("default path in working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "threatscope.toml"), []byte("[server]\nport = 7000\n"), 0o644))
		chdir(t, dir)

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Server.Port)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := writeConfig(t, "[server]\nport = 9090\n")
		t.Setenv("PORT", "7777")
		t.Setenv("CORS_ALLOWED_ORIGIN", "https://env.example.com")
		t.Setenv("THREATSCOPE_DB_PATH", "/tmp/env.db")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 7777, cfg.Server.Port)
		assert.Equal(t, "https://env.example.com", cfg.Server.CORSAllowedOrigin)
		assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	})

	t.Run("invalid PORT", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("PORT", "eighty")

		_, err := Load("")

		assert.ErrorContains(t, err, "invalid PORT")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))

		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "[server\nport = ")

		_, err := Load(path)

		assert.Error(t, err)
	})
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for level, want := range tests {
		cfg := Default()
		cfg.Log.Level = level
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", level)
	}
}

func TestGetEnv(t *testing.T) {
	t.Run("returns fallback when unset", func(t *testing.T) {
		assert.Equal(t, "fallback", getEnv("THREATSCOPE_TEST_UNSET_VAR", "fallback"))
	})

	t.Run("returns value when set", func(t *testing.T) {
		t.Setenv("THREATSCOPE_TEST_VAR", "value")
		assert.Equal(t, "value", getEnv("THREATSCOPE_TEST_VAR", "fallback"))
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
