package config

import (
	"fmt"
	"strings"
	"time"
)

// Normalize validates cfg and returns a cleaned copy.
func Normalize(cfg Config) (Config, error) {
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	cfg.Permission = strings.ToLower(strings.TrimSpace(cfg.Permission))

	switch cfg.Store {
	case StoreFile, StoreSQLite:
	default:
		return cfg, fmt.Errorf("store must be %q or %q, got %q", StoreFile, StoreSQLite, cfg.Store)
	}
	switch cfg.Permission {
	case PermissionPrompt, PermissionGranted, PermissionDenied:
	default:
		return cfg, fmt.Errorf("notify permission must be prompt, granted or denied, got %q", cfg.Permission)
	}
	if cfg.Unit < time.Millisecond {
		return cfg, fmt.Errorf("unit must be >=1ms")
	}
	if cfg.DataDir == "" {
		return cfg, fmt.Errorf("data dir is required")
	}
	if cfg.Addr == "" {
		return cfg, fmt.Errorf("addr is required")
	}
	return cfg, nil
}
