package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPrefix+"DATA_DIR", dir)

	cfg, err := Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "127.0.0.1:7070", cfg.Addr)
	assert.Equal(t, time.Minute, cfg.Unit)
	assert.Equal(t, PermissionPrompt, cfg.Permission)
	assert.Equal(t, filepath.Join(dir, "settings.json"), cfg.SettingsPath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPrefix+"DATA_DIR", dir)
	t.Setenv(EnvPrefix+"STORE", "SQLite")
	t.Setenv(EnvPrefix+"UNIT", "2s")
	t.Setenv(EnvPrefix+"NOTIFY_PERMISSION", "granted")
	t.Setenv(EnvPrefix+"ACK_ALERTS", "true")

	cfg, err := Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 2*time.Second, cfg.Unit)
	assert.Equal(t, PermissionGranted, cfg.Permission)
	assert.True(t, cfg.AckAlerts)
	assert.Equal(t, filepath.Join(dir, "settings.db"), cfg.SettingsPath())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DRINK_REMINDER_DATA_DIR="+dir+"\nDRINK_REMINDER_ADDR=0.0.0.0:9000\n"), 0o644))
	t.Setenv(EnvPrefix+"ADDR", "127.0.0.1:8000")
	t.Cleanup(func() { _ = os.Unsetenv(EnvPrefix + "DATA_DIR") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr, "process env wins over .env")
}

func TestNormalize_Rejects(t *testing.T) {
	base := Config{DataDir: "/tmp/x", Store: StoreFile, Addr: ":1", Unit: time.Minute, Permission: PermissionPrompt}

	_, err := Normalize(base)
	require.NoError(t, err)

	bad := base
	bad.Store = "redis"
	_, err = Normalize(bad)
	require.Error(t, err)

	bad = base
	bad.Permission = "maybe"
	_, err = Normalize(bad)
	require.Error(t, err)

	bad = base
	bad.Unit = 0
	_, err = Normalize(bad)
	require.Error(t, err)
}
