package repository

import (
	"strconv"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

const runningValue = "true"

// SettingsRepository implements domain.SettingsStore on top of a KeyValueStore.
type SettingsRepository struct {
	kv domain.KeyValueStore
}

// NewSettingsRepository wraps kv.
func NewSettingsRepository(kv domain.KeyValueStore) *SettingsRepository {
	return &SettingsRepository{kv: kv}
}

// Save writes both fields in one update. running=false removes the flag.
func (r *SettingsRepository) Save(intervalMinutes int, running bool) error {
	set := map[string]string{
		domain.KeyIntervalMinutes: strconv.Itoa(intervalMinutes),
	}
	if running {
		set[domain.KeyRunning] = runningValue
		return r.kv.Update(set)
	}
	return r.kv.Update(set, domain.KeyRunning)
}

// ClearRunning removes the running flag and keeps the interval.
func (r *SettingsRepository) ClearRunning() error {
	return r.kv.Update(nil, domain.KeyRunning)
}

// Load returns what is stored. Missing or unparsable fields stay nil.
func (r *SettingsRepository) Load() (domain.PersistedSettings, error) {
	var out domain.PersistedSettings

	raw, ok, err := r.kv.Get(domain.KeyIntervalMinutes)
	if err != nil {
		return out, err
	}
	if ok {
		if n, err := strconv.Atoi(raw); err == nil {
			out.IntervalMinutes = &n
		} else {
			logging.Warnf("ignoring stored interval %q", raw)
		}
	}

	raw, ok, err = r.kv.Get(domain.KeyRunning)
	if err != nil {
		return out, err
	}
	if ok {
		running := raw == runningValue
		out.Running = &running
	}
	return out, nil
}

var _ domain.SettingsStore = (*SettingsRepository)(nil)
