package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Mode)
	assert.False(t, cfg.Development())
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, mines.Params{Rows: 10, Cols: 10, Bombs: 15}, cfg.Game.Defaults)
	assert.Equal(t, mines.DefaultRewards, cfg.Game.Rewards)
	assert.Equal(t, 30*time.Minute, cfg.Hub.TTL)
	assert.Equal(t, 720*time.Hour, cfg.JWT.TokenLifetime)
	assert.Equal(t, mines.DefaultStyle.Covered, cfg.Render.Covered)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
game:
  defaults:
    rows: 16
    cols: 30
    bombs: 99
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, mines.Params{Rows: 16, Cols: 30, Bombs: 99}, cfg.Game.Defaults)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, mines.DefaultRewards, cfg.Game.Rewards)
}

func TestLoadDevelopmentEnv(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Development())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bombs":  "game:\n  defaults:\n    rows: 2\n    cols: 2\n    bombs: 5\n",
		"store":  "store: redis\n",
		"level":  "log:\n  level: loud\n",
		"format": "log:\n  format: xml\n",
		"hub":    "hub:\n  ttl: 0s\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestWriteYAML(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Game.Defaults = mines.Params{Rows: 5, Cols: 6, Bombs: 7}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDatabaseFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "gym")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_DB", "episodes")
	t.Setenv("POSTGRES_SSLMODE", "require")

	db, err := NewDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://gym:p%40ss+word@db:6543/episodes?sslmode=require", db.URL())
	assert.NotContains(t, db.Fields(), "pg_password")

	t.Setenv("DATABASE_URL", "postgres://elsewhere/db")
	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://elsewhere/db", url)
}

func TestJWT(t *testing.T) {
	j, err := NewEphemeralJWT(time.Hour)
	require.NoError(t, err)

	token, err := j.Sign(j.NewAgentClaims(42, "bot"))
	require.NoError(t, err)

	claims, err := j.ParseAgentClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AgentID)
	assert.Equal(t, "bot", claims.Name)
	assert.Equal(t, "42", claims.Subject)

	other, err := NewEphemeralJWT(time.Hour)
	require.NoError(t, err)
	_, err = other.ParseAgentClaims(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := NewEphemeralJWT(-time.Minute)
	require.NoError(t, err)
	token, err = expired.Sign(expired.NewAgentClaims(1, "old"))
	require.NoError(t, err)
	_, err = expired.ParseAgentClaims(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewWebSocket(t *testing.T) {
	cfg := WebSocketConfig{ReadBufferSize: 16, WriteBufferSize: 32, ReadLimit: 64}

	prod := NewWebSocket(cfg, false)
	assert.False(t, prod.AllowDebug)
	assert.Nil(t, prod.Upgrader.CheckOrigin)
	assert.Equal(t, int64(64), prod.ReadLimit)

	dev := NewWebSocket(cfg, true)
	assert.True(t, dev.AllowDebug)
	require.NotNil(t, dev.Upgrader.CheckOrigin)
}
