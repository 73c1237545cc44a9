package domain

import (
	"context"
	"time"
)

// Keys used in the key-value store.
const (
	KeyIntervalMinutes = "intervalMinutes"
	KeyRunning         = "running"
	KeyPermission      = "notificationPermission"
)

// KeyValueStore is a secondary port for a durable string key-value store.
// Update applies all sets and removals as one write.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Update(set map[string]string, remove ...string) error
}

// SettingsStore is a secondary port that persists the reminder settings.
type SettingsStore interface {
	Save(intervalMinutes int, running bool) error
	ClearRunning() error
	Load() (PersistedSettings, error)
}

// TriggerHandle identifies one scheduled periodic trigger.
type TriggerHandle interface {
	ID() string
	Cancel() error
}

// Scheduler is a secondary port that runs task every interval until cancelled.
type Scheduler interface {
	Every(interval time.Duration, task func()) (TriggerHandle, error)
}

// Notifier is the native notification channel.
type Notifier interface {
	Available() bool
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Notify(ctx context.Context, n Notification) error
}

// Alerter shows a blocking fallback message.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// SoundPlayer plays the reminder sound.
type SoundPlayer interface {
	Play(ctx context.Context) error
}
