package config

import (
	"os"
	"path/filepath"
)

// DefaultDir returns ~/.config/drink-reminder (or a directory under the working directory as a fallback).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "drink-reminder")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".drink-reminder")
}
