package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drink-reminder/internal/adapter/secondary/repository"
	"drink-reminder/internal/config"
	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DRINK_REMINDER_DATA_DIR", dir)
	t.Setenv("DRINK_REMINDER_STORE", "")
	t.Setenv("DRINK_REMINDER_NOTIFY_PERMISSION", "denied")
	t.Setenv("DRINK_REMINDER_LOG_LEVEL", "")
	t.Cleanup(func() { logging.SetVerbosity(0) })
	return dir
}

func loadSettings(t *testing.T, dir string) domain.PersistedSettings {
	t.Helper()
	kv, err := repository.NewFileKV(afero.NewOsFs(), filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	settings, err := repository.NewSettingsRepository(kv).Load()
	require.NoError(t, err)
	return settings
}

func TestStartAndStopEditPersistedSettings(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, run(t, "start", "--interval", "25"))
	settings := loadSettings(t, dir)
	require.NotNil(t, settings.IntervalMinutes)
	assert.Equal(t, 25, *settings.IntervalMinutes)
	assert.True(t, settings.IsRunning())

	require.NoError(t, run(t, "stop"))
	settings = loadSettings(t, dir)
	require.NotNil(t, settings.IntervalMinutes)
	assert.Equal(t, 25, *settings.IntervalMinutes)
	assert.False(t, settings.IsRunning())

	// Without --interval the remembered value is reused.
	require.NoError(t, run(t, "start"))
	settings = loadSettings(t, dir)
	assert.True(t, settings.IsRunning())
	assert.Equal(t, 25, *settings.IntervalMinutes)
}

func TestStartRejectsInvalidInterval(t *testing.T) {
	dir := isolate(t)

	err := run(t, "start", "--interval", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.MsgInvalidInterval)

	settings := loadSettings(t, dir)
	assert.Nil(t, settings.IntervalMinutes)
	assert.False(t, settings.IsRunning())
}

func TestStartWithoutAnyIntervalFails(t *testing.T) {
	isolate(t)
	assert.Error(t, run(t, "start"))
}

func TestDataDirFlagOverridesEnv(t *testing.T) {
	isolate(t)
	other := t.TempDir()

	require.NoError(t, run(t, "--data-dir", other, "start", "-i", "10"))

	settings := loadSettings(t, other)
	require.NotNil(t, settings.IntervalMinutes)
	assert.Equal(t, 10, *settings.IntervalMinutes)
}

func TestSQLiteStore(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, run(t, "--store", "sqlite", "start", "--interval", "15"))

	kv, err := repository.OpenSQLiteKV(filepath.Join(dir, "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	settings, err := repository.NewSettingsRepository(kv).Load()
	require.NoError(t, err)
	require.NotNil(t, settings.IntervalMinutes)
	assert.Equal(t, 15, *settings.IntervalMinutes)
	assert.True(t, settings.IsRunning())
}

func TestPermissionCommand(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, run(t, "permission", "grant"))
	kv, err := repository.NewFileKV(afero.NewOsFs(), filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	v, ok, err := kv.Get(domain.KeyPermission)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "granted", v)

	// A stored decision is kept by "ask".
	require.NoError(t, run(t, "permission", "ask"))
	v, _, err = kv.Get(domain.KeyPermission)
	require.NoError(t, err)
	assert.Equal(t, "granted", v)

	require.NoError(t, run(t, "permission", "reset"))
	_, ok, err = kv.Get(domain.KeyPermission)
	require.NoError(t, err)
	assert.False(t, ok)

	// "ask" uses the configured headless answer.
	require.NoError(t, run(t, "permission", "ask"))
	v, _, err = kv.Get(domain.KeyPermission)
	require.NoError(t, err)
	assert.Equal(t, "denied", v)

	assert.Error(t, run(t, "permission", "maybe"))
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	isolate(t)
	storeKind = "redis"
	t.Cleanup(func() { storeKind = "" })

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestNewPrompterFollowsPolicy(t *testing.T) {
	tests := []struct {
		policy string
		want   domain.Permission
	}{
		{config.PermissionGranted, domain.PermissionGranted},
		{config.PermissionDenied, domain.PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			t.Cleanup(cancel)
			p := newPrompter(config.Config{Permission: tt.policy})
			got, err := p.Ask(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleShellLog(t *testing.T) {
	t.Cleanup(func() {
		verbosity = 0
		logging.SetVerbosity(0)
	})

	session := 0
	require.NoError(t, handleShellLog([]string{"-vv"}, &session))
	assert.Equal(t, 2, session)
	assert.Equal(t, 2, logging.Verbosity())

	require.NoError(t, handleShellLog([]string{"--level", "error"}, &session))
	assert.Equal(t, 0, session)

	assert.Error(t, handleShellLog([]string{"--level", "loud"}, &session))
	assert.Error(t, handleShellLog([]string{"--bogus"}, &session))
}

type silentAlerter struct{}

func (silentAlerter) Alert(context.Context, string) error { return nil }

func TestWatchSettingsWaitReturnsAfterCancel(t *testing.T) {
	isolate(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	a, err := newApp(cfg, silentAlerter{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	wait := watchSettings(ctx, a)
	cancel()

	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not exit after cancel")
	}
}
