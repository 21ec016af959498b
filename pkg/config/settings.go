package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClaudeSettings represents the structure of ~/.claude/settings.json
type ClaudeSettings struct {
	Hooks map[string][]HookMatcher `json:"hooks,omitempty"`
	// Other fields we don't care about are ignored
}

// HookMatcher represents a hook matcher configuration
type HookMatcher struct {
	Matcher string `json:"matcher"`
	Hooks   []Hook `json:"hooks"`
}

// Hook represents a single hook command
type Hook struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// ReadSettings reads the Claude settings file
func ReadSettings() (*ClaudeSettings, error) {
	settingsPath, err := GetClaudeSettingsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings path: %w", err)
	}

	// If file doesn't exist, return empty settings
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return &ClaudeSettings{
			Hooks: make(map[string][]HookMatcher),
		}, nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings ClaudeSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if settings.Hooks == nil {
		settings.Hooks = make(map[string][]HookMatcher)
	}

	return &settings, nil
}

// writeSettingsInternal writes settings with optional mtime-based optimistic locking.
// If expectedMtime is zero, mtime checking is skipped.
func writeSettingsInternal(settings *ClaudeSettings, expectedMtime time.Time) error {
	settingsPath, err := GetClaudeSettingsPath()
	if err != nil {
		return fmt.Errorf("failed to get settings path: %w", err)
	}

	settingsDir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Use temp file + atomic rename to prevent corruption
	tempFile, err := os.CreateTemp(settingsDir, ".settings-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp settings: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}

	// Verify the file hasn't changed right before the rename; this keeps the
	// race window to just the rename operation.
	if !expectedMtime.IsZero() {
		info, err := os.Stat(settingsPath)
		if err != nil && !os.IsNotExist(err) {
			os.Remove(tempPath)
			return fmt.Errorf("failed to stat settings for mtime check: %w", err)
		}

		if info != nil && !info.ModTime().Equal(expectedMtime) {
			os.Remove(tempPath)
			return fmt.Errorf("settings file was modified by another process (expected mtime: %v, actual: %v)",
				expectedMtime, info.ModTime())
		}
	}

	if err := os.Rename(tempPath, settingsPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp settings: %w", err)
	}

	return nil
}

// AtomicUpdateSettings performs a read-modify-write with optimistic locking.
// It retries up to maxRetries times if the file is modified by another process.
// The updateFn receives the current settings and should modify them in-place.
func AtomicUpdateSettings(updateFn func(*ClaudeSettings) error) error {
	const maxRetries = 10
	const baseRetryDelay = 5 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		settingsPath, err := GetClaudeSettingsPath()
		if err != nil {
			return fmt.Errorf("failed to get settings path: %w", err)
		}

		var mtime time.Time
		if info, err := os.Stat(settingsPath); err == nil {
			mtime = info.ModTime()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat settings: %w", err)
		}
		// If file doesn't exist, mtime stays zero (no conflict possible)

		settings, err := ReadSettings()
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}

		if err := updateFn(settings); err != nil {
			return fmt.Errorf("update function failed: %w", err)
		}

		err = writeSettingsInternal(settings, mtime)
		if err == nil {
			return nil
		}

		if strings.Contains(err.Error(), "modified by another process") {
			if attempt < maxRetries-1 {
				// Exponential backoff: 5ms, 10ms, 20ms, 40ms, ...
				backoff := baseRetryDelay * time.Duration(1<<uint(attempt))
				// Add jitter (0-50% of backoff) to avoid thundering herd
				jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
				time.Sleep(backoff + jitter)
				continue
			}
			return fmt.Errorf("failed to update settings after %d attempts: %w", maxRetries, err)
		}

		return err
	}

	return fmt.Errorf("failed to update settings after %d attempts", maxRetries)
}
