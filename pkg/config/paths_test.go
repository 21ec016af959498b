package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetClaudeStateDir_EnvOverride(t *testing.T) {
	t.Setenv(ClaudeStateDirEnv, "/custom/claude")

	dir, err := GetClaudeStateDir()
	if err != nil {
		t.Fatalf("GetClaudeStateDir() error = %v", err)
	}
	if dir != "/custom/claude" {
		t.Errorf("expected env override, got %q", dir)
	}
}

func TestGetClaudeStateDir_Default(t *testing.T) {
	t.Setenv(ClaudeStateDirEnv, "")

	dir, err := GetClaudeStateDir()
	if err != nil {
		t.Fatalf("GetClaudeStateDir() error = %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(home, ".claude") {
		t.Errorf("expected default under home, got %q", dir)
	}
}

func TestGetProjectsDir(t *testing.T) {
	t.Setenv(ClaudeStateDirEnv, "/custom/claude")

	dir, err := GetProjectsDir()
	if err != nil {
		t.Fatalf("GetProjectsDir() error = %v", err)
	}
	if dir != filepath.Join("/custom/claude", "projects") {
		t.Errorf("unexpected projects dir: %q", dir)
	}
}

func TestGetClaudeSettingsPath(t *testing.T) {
	t.Setenv(ClaudeStateDirEnv, "/custom/claude")

	path, err := GetClaudeSettingsPath()
	if err != nil {
		t.Fatalf("GetClaudeSettingsPath() error = %v", err)
	}
	if path != filepath.Join("/custom/claude", "settings.json") {
		t.Errorf("unexpected settings path: %q", path)
	}
}

func TestFindClaudeMd(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(tmpDir, "CLAUDE.md")
	if err := os.WriteFile(target, []byte("# CLAUDE.md\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	found, err := FindClaudeMd()
	if err != nil {
		t.Fatalf("FindClaudeMd() error = %v", err)
	}
	// macOS resolves /tmp symlinks, compare by file identity
	wantInfo, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	gotInfo, err := os.Stat(found)
	if err != nil {
		t.Fatalf("returned path not statable: %v", err)
	}
	if !os.SameFile(wantInfo, gotInfo) {
		t.Errorf("expected %q, got %q", target, found)
	}
}

func TestFindClaudeMd_NoneFound(t *testing.T) {
	tmpDir := t.TempDir()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	found, err := FindClaudeMd()
	if err != nil {
		t.Fatalf("FindClaudeMd() error = %v", err)
	}
	if filepath.Base(found) != "CLAUDE.md" {
		t.Errorf("expected CLAUDE.md path in cwd, got %q", found)
	}
}
