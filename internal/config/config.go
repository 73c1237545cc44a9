package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DRINK_REMINDER_"

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Permission policies for the notification prompt.
const (
	PermissionPrompt  = "prompt"
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// Config holds the runtime settings shared by the CLI, web and terminal UIs.
// The reminder's own state (interval, running) lives in the settings store.
type Config struct {
	DataDir    string        `env:"DATA_DIR" json:"dataDir"`
	Store      string        `env:"STORE" envDefault:"file" json:"store"`
	Addr       string        `env:"ADDR" envDefault:"127.0.0.1:7070" json:"addr"`
	Unit       time.Duration `env:"UNIT" envDefault:"1m" json:"unit"`
	Permission string        `env:"NOTIFY_PERMISSION" envDefault:"prompt" json:"notifyPermission"`
	SoundFile  string        `env:"SOUND_FILE" json:"soundFile,omitempty"`
	Icon       string        `env:"ICON" json:"icon,omitempty"`
	AckAlerts  bool          `env:"ACK_ALERTS" json:"ackAlerts"`
	LogLevel   string        `env:"LOG_LEVEL" json:"logLevel,omitempty"`
}

// Load reads optional dotenv files (default ".env"), then the environment.
// Variables already set in the process win over dotenv values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("stat %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDir()
	}
	return Normalize(cfg)
}

// SettingsPath is the key-value store location for the configured backend.
func (c Config) SettingsPath() string {
	if c.Store == StoreSQLite {
		return filepath.Join(c.DataDir, "settings.db")
	}
	return filepath.Join(c.DataDir, "settings.json")
}
