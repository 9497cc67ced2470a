package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "Erro interno."
	testErr := errors.New("internal database error")

	// nil err devolve fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release não expõe detalhes
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))
	assert.True(t, IsRelease())

	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// sem configuração = ambiente de desenvolvimento
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
	assert.False(t, IsRelease())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.Server.Timezone)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpireTime)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfig_ExternalFileAndEnv(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \":9090\"\ndatabase:\n  driver: \"postgres\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FINX_SINGLE_USER_EMAIL", "  Motorista@Example.com ")
	t.Setenv("FINX_SERVER_MODE", "release")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "motorista@example.com", cfg.Auth.SingleUserEmail)
}

func TestLocation(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	GlobalConfig = nil
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, offset := ref.In(Location()).Zone()
	assert.Equal(t, 9*60*60, offset)

	cfg := &Config{Server: ServerConfig{Timezone: "UTC"}}
	applyDefaults(cfg)
	GlobalConfig = cfg
	_, offset = ref.In(Location()).Zone()
	assert.Equal(t, 0, offset)
}

func TestApplyDefaults_InvalidTimezoneFallsBackToJST(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Timezone: "Marte/Olympus"}}
	applyDefaults(cfg)

	require.NotNil(t, cfg.Server.Location)
	assert.Equal(t, "JST", cfg.Server.Location.String())
	_, offset := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).In(cfg.Server.Location).Zone()
	assert.Equal(t, 9*60*60, offset)
}
