package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drink-reminder/internal/adapter/secondary/repository"
	"drink-reminder/internal/domain"
)

type countingPrompter struct {
	answer domain.Permission
	calls  int
}

func (c *countingPrompter) Ask(context.Context) (domain.Permission, error) {
	c.calls++
	return c.answer, nil
}

func newKV(t *testing.T) domain.KeyValueStore {
	t.Helper()
	kv, err := repository.NewFileKV(afero.NewMemMapFs(), "/settings.json")
	require.NoError(t, err)
	return kv
}

func TestPermissionStore_RequestPersistsAnswer(t *testing.T) {
	kv := newKV(t)
	prompter := &countingPrompter{answer: domain.PermissionGranted}
	store := NewPermissionStore(kv, prompter)

	assert.Equal(t, domain.PermissionUndetermined, store.Current())

	perm, err := store.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, perm)
	assert.Equal(t, domain.PermissionGranted, store.Current())

	perm, err = store.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, perm)
	assert.Equal(t, 1, prompter.calls, "a stored decision is not asked again")
}

func TestPermissionStore_DeniedStaysDenied(t *testing.T) {
	store := NewPermissionStore(newKV(t), StaticPrompter{Answer: domain.PermissionDenied})

	perm, err := store.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionDenied, perm)

	require.NoError(t, store.Set(domain.PermissionUndetermined))
	assert.Equal(t, domain.PermissionUndetermined, store.Current())
}

func TestPermissionStore_NoPrompter(t *testing.T) {
	store := NewPermissionStore(newKV(t), nil)
	perm, err := store.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionUndetermined, perm)
}

func TestDesktopNotifier(t *testing.T) {
	type call struct {
		name string
		args []string
	}

	newNotifier := func(goos string, lookErr error, runErr error) (*DesktopNotifier, *[]call) {
		var calls []call
		d := NewDesktopNotifier(NewPermissionStore(newKV(t), nil))
		d.goos = goos
		d.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, lookErr }
		d.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
			calls = append(calls, call{name, args})
			return []byte("oops"), runErr
		}
		return d, &calls
	}

	t.Run("linux uses notify-send with icon", func(t *testing.T) {
		d, calls := newNotifier("linux", nil, nil)
		require.True(t, d.Available())

		n := domain.DefaultNotification()
		n.Icon = "/icons/water.png"
		require.NoError(t, d.Notify(context.Background(), n))
		require.Len(t, *calls, 1)
		c := (*calls)[0]
		assert.Equal(t, "notify-send", c.name)
		assert.Contains(t, c.args, "--icon=/icons/water.png")
		assert.Equal(t, n.Body, c.args[len(c.args)-1])
	})

	t.Run("darwin quotes the script", func(t *testing.T) {
		d, calls := newNotifier("darwin", nil, nil)
		require.NoError(t, d.Notify(context.Background(), domain.Notification{Title: `say "hi"`, Body: "b"}))
		c := (*calls)[0]
		assert.Equal(t, "osascript", c.name)
		assert.Contains(t, c.args[1], `with title "say \"hi\""`)
	})

	t.Run("missing command is unavailable", func(t *testing.T) {
		d, _ := newNotifier("linux", errors.New("not found"), nil)
		assert.False(t, d.Available())
	})

	t.Run("unknown platform", func(t *testing.T) {
		d, _ := newNotifier("plan9", nil, nil)
		assert.False(t, d.Available())
		require.ErrorIs(t, d.Notify(context.Background(), domain.DefaultNotification()), domain.ErrUnsupportedEnvironment)
	})

	t.Run("command failure includes output", func(t *testing.T) {
		d, _ := newNotifier("linux", nil, errors.New("exit 1"))
		err := d.Notify(context.Background(), domain.DefaultNotification())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oops")
	})
}

func TestTerminalAlerter(t *testing.T) {
	t.Run("non-blocking without input", func(t *testing.T) {
		var out bytes.Buffer
		a := NewTerminalAlerter(&out, nil)
		require.NoError(t, a.Alert(context.Background(), "drink"))
		assert.Equal(t, "\adrink\n", out.String())
	})

	t.Run("waits for enter", func(t *testing.T) {
		var out bytes.Buffer
		a := NewTerminalAlerter(&out, strings.NewReader("\n"))
		require.NoError(t, a.Alert(context.Background(), "drink"))
		assert.Contains(t, out.String(), "Press Enter")
	})

	t.Run("context cancels the wait", func(t *testing.T) {
		var out bytes.Buffer
		r, w := io.Pipe()
		t.Cleanup(func() { _ = w.Close() })
		a := NewTerminalAlerter(&out, r)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		require.ErrorIs(t, a.Alert(ctx, "drink"), context.DeadlineExceeded)
	})

	t.Run("cancelled alert leaves enter for the next one", func(t *testing.T) {
		var out bytes.Buffer
		r, w := io.Pipe()
		t.Cleanup(func() { _ = w.Close() })
		a := NewTerminalAlerter(&out, r)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		require.ErrorIs(t, a.Alert(ctx, "first"), context.DeadlineExceeded)

		go func() { _, _ = w.Write([]byte("\n")) }()
		ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
		defer cancel2()
		require.NoError(t, a.Alert(ctx2, "second"))
	})

	t.Run("closed input stops blocking", func(t *testing.T) {
		var out bytes.Buffer
		a := NewTerminalAlerter(&out, strings.NewReader(""))
		require.NoError(t, a.Alert(context.Background(), "first"))
		require.NoError(t, a.Alert(context.Background(), "second"))
	})
}
