package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"drink-reminder/internal/logging"
)

// Reconciler re-reads persisted settings and applies them.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// SettingsWatcher monitors the settings file so that edits made by another
// process (for example `drink-reminder stop`) reach a running daemon.
type SettingsWatcher struct {
	path       string
	reconciler Reconciler
	watcher    *fsnotify.Watcher
	debounce   time.Duration
}

// NewSettingsWatcher creates a watcher for path.
func NewSettingsWatcher(path string, reconciler Reconciler, debounce time.Duration) (*SettingsWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &SettingsWatcher{
		path:       absPath,
		reconciler: reconciler,
		watcher:    w,
		debounce:   debounce,
	}, nil
}

// Run watches until ctx is cancelled. The parent directory is watched because
// the settings file is replaced by rename on every write.
func (s *SettingsWatcher) Run(ctx context.Context) error {
	defer s.watcher.Close()

	dir := filepath.Dir(s.path)
	if err := s.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch settings directory %s: %w", dir, err)
	}
	logging.Logger().Info("watching settings", logging.Path(s.path))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			logging.Tracef("settings event %s", event)
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("settings watcher: %v", err)
		case <-fire:
			fire = nil
			if err := s.reconciler.Reconcile(ctx); err != nil {
				logging.Warnf("apply settings change: %v", err)
			}
		}
	}
}

func (s *SettingsWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	// SQLite in WAL mode writes to <db>-wal first.
	return name == s.path || strings.TrimSuffix(name, "-wal") == s.path
}
