package audio

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drink-reminder/internal/domain"
)

func TestCommandPlayer(t *testing.T) {
	newPlayer := func(available map[string]bool, statErr, startErr error) (*CommandPlayer, *[]string) {
		var started []string
		p := NewCommandPlayer("water.mp3")
		p.lookPath = func(name string) (string, error) {
			if available[name] {
				return "/bin/" + name, nil
			}
			return "", errors.New("not found")
		}
		p.stat = func(string) (os.FileInfo, error) { return nil, statErr }
		p.start = func(_ context.Context, name string, args ...string) error {
			started = append(started, name)
			return startErr
		}
		return p, &started
	}

	t.Run("uses first available player", func(t *testing.T) {
		p, started := newPlayer(map[string]bool{"paplay": true, "aplay": true}, nil, nil)
		require.NoError(t, p.Play(context.Background()))
		assert.Equal(t, []string{"paplay"}, *started)
	})

	t.Run("no player", func(t *testing.T) {
		p, _ := newPlayer(nil, nil, nil)
		require.ErrorIs(t, p.Play(context.Background()), domain.ErrPlayback)
	})

	t.Run("missing file", func(t *testing.T) {
		p, started := newPlayer(map[string]bool{"afplay": true}, os.ErrNotExist, nil)
		require.ErrorIs(t, p.Play(context.Background()), domain.ErrPlayback)
		assert.Empty(t, *started)
	})

	t.Run("start failure", func(t *testing.T) {
		p, _ := newPlayer(map[string]bool{"afplay": true}, nil, errors.New("boom"))
		require.ErrorIs(t, p.Play(context.Background()), domain.ErrPlayback)
	})

	t.Run("no file configured is a no-op", func(t *testing.T) {
		p := NewCommandPlayer("")
		require.NoError(t, p.Play(context.Background()))
	})
}
