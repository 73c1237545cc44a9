package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

// players are tried in order; the first one found on PATH is used.
var players = []string{"afplay", "paplay", "aplay"}

// CommandPlayer implements domain.SoundPlayer by launching a system audio player.
// Playback is started and left to finish in the background.
type CommandPlayer struct {
	file     string
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	start    func(ctx context.Context, name string, args ...string) error
}

// NewCommandPlayer plays file on each reminder.
func NewCommandPlayer(file string) *CommandPlayer {
	return &CommandPlayer{
		file:     file,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		start:    startDetached,
	}
}

func startDetached(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Debugf("%s exited: %v", name, err)
		}
	}()
	return nil
}

// Play starts playback of the configured file.
func (p *CommandPlayer) Play(ctx context.Context) error {
	if p.file == "" {
		return nil
	}
	if _, err := p.stat(p.file); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPlayback, err)
	}
	for _, name := range players {
		if _, err := p.lookPath(name); err != nil {
			continue
		}
		if err := p.start(ctx, name, p.file); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrPlayback, name, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no audio player found", domain.ErrPlayback)
}

var _ domain.SoundPlayer = (*CommandPlayer)(nil)
