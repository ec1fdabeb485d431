package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDataDirXDGOverride(t *testing.T) {
	originalXDG := os.Getenv("XDG_DATA_HOME")
	os.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_DATA_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_DATA_HOME")
		}
	})

	if got := DefaultDataDir(); got != "/custom/data/event-analytics" {
		t.Errorf("expected XDG path, got %s", got)
	}
}

func TestDefaultDataDirNoHome(t *testing.T) {
	originalHome := os.Getenv("HOME")
	os.Unsetenv("HOME")
	t.Cleanup(func() {
		if originalHome != "" {
			os.Setenv("HOME", originalHome)
		}
	})

	result := DefaultDataDir()
	if result == "" {
		t.Error("expected non-empty result even when HOME is not set")
	}
}

func TestDefaultDataDirConsistency(t *testing.T) {
	result1 := DefaultDataDir()
	result2 := DefaultDataDir()
	if result1 != result2 {
		t.Errorf("DefaultDataDir should be consistent, got %s and %s", result1, result2)
	}
	if !filepath.IsAbs(result1) && !filepath.HasPrefix(result1, "./") {
		t.Errorf("expected absolute path or ./ prefix, got %s", result1)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Errorf("expected . to be a directory")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Errorf("expected missing path to not be a directory")
	}
}
