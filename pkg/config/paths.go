package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ClaudeStateDirEnv is the environment variable to override the default Claude state directory
const ClaudeStateDirEnv = "CLAUDE_TUNE_CLAUDE_DIR"

// GetClaudeStateDir returns the Claude state directory path.
// Defaults to ~/.claude but can be overridden with CLAUDE_TUNE_CLAUDE_DIR env var.
// This is useful for testing and non-standard installations.
func GetClaudeStateDir() (string, error) {
	// Check environment variable first
	if envDir := os.Getenv(ClaudeStateDirEnv); envDir != "" {
		return envDir, nil
	}

	// Default to ~/.claude
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".claude"), nil
}

// GetProjectsDir returns the path to the Claude projects directory
func GetProjectsDir() (string, error) {
	claudeDir, err := GetClaudeStateDir()
	if err != nil {
		return "", fmt.Errorf("failed to get claude state directory: %w", err)
	}
	return filepath.Join(claudeDir, "projects"), nil
}

// GetClaudeSettingsPath returns the path to the Claude settings file
func GetClaudeSettingsPath() (string, error) {
	claudeDir, err := GetClaudeStateDir()
	if err != nil {
		return "", fmt.Errorf("failed to get claude state directory: %w", err)
	}
	return filepath.Join(claudeDir, "settings.json"), nil
}

// GetTuneDir returns the claude-tune state directory (~/.claude-tune),
// creating it if necessary.
func GetTuneDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	tuneDir := filepath.Join(home, ".claude-tune")
	if err := os.MkdirAll(tuneDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return tuneDir, nil
}

// FindClaudeMd locates the CLAUDE.md to operate on. It checks the current
// directory first, then walks up parent directories. If none exists, it
// returns the path in the current directory (where a new file would go).
func FindClaudeMd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, "CLAUDE.md")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(cwd, "CLAUDE.md"), nil
}
