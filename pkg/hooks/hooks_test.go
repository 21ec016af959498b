package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/besslframework/claude-tune/pkg/config"
)

func setTestClaudeDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv(config.ClaudeStateDirEnv, tmpDir)
	return tmpDir
}

func readSettingsFile(t *testing.T, claudeDir string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	return settings
}

func TestTemplates_SortedByName(t *testing.T) {
	templates := Templates()
	if len(templates) == 0 {
		t.Fatal("expected curated templates")
	}
	for i := 1; i < len(templates); i++ {
		if templates[i].Name < templates[i-1].Name {
			t.Errorf("templates not sorted: %s after %s", templates[i].Name, templates[i-1].Name)
		}
	}
}

func TestEnable(t *testing.T) {
	claudeDir := setTestClaudeDir(t)

	if err := Enable("lint-python"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	settings, err := config.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings() error = %v", err)
	}

	matchers := settings.Hooks["PostToolUse"]
	if len(matchers) != 1 || matchers[0].Matcher != "Edit" {
		t.Fatalf("unexpected matchers: %+v", matchers)
	}
	if len(matchers[0].Hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(matchers[0].Hooks))
	}

	// File exists on disk
	readSettingsFile(t, claudeDir)
}

func TestEnable_Idempotent(t *testing.T) {
	setTestClaudeDir(t)

	if err := Enable("lint-python"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := Enable("lint-python"); err != nil {
		t.Fatalf("second Enable() error = %v", err)
	}

	settings, err := config.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings() error = %v", err)
	}

	total := 0
	for _, m := range settings.Hooks["PostToolUse"] {
		total += len(m.Hooks)
	}
	if total != 1 {
		t.Errorf("expected 1 hook after double enable, got %d", total)
	}
}

func TestDisable(t *testing.T) {
	setTestClaudeDir(t)

	if err := Enable("lint-python"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := Disable("lint-python"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	enabled, err := Enabled()
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if enabled["lint-python"] {
		t.Error("expected lint-python disabled")
	}
}

func TestDisable_LeavesForeignHooks(t *testing.T) {
	claudeDir := setTestClaudeDir(t)

	// A hook not managed by claude-tune occupies the same event/matcher
	foreign := config.ClaudeSettings{
		Hooks: map[string][]config.HookMatcher{
			"PostToolUse": {
				{Matcher: "Edit", Hooks: []config.Hook{{Type: "command", Command: "my-custom-linter"}}},
			},
		},
	}
	data, _ := json.Marshal(foreign)
	if err := os.WriteFile(filepath.Join(claudeDir, "settings.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	if err := Enable("lint-python"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := Disable("lint-python"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	settings, err := config.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings() error = %v", err)
	}

	matchers := settings.Hooks["PostToolUse"]
	if len(matchers) != 1 || len(matchers[0].Hooks) != 1 {
		t.Fatalf("foreign hook lost: %+v", matchers)
	}
	if matchers[0].Hooks[0].Command != "my-custom-linter" {
		t.Errorf("unexpected surviving hook: %+v", matchers[0].Hooks[0])
	}
}

func TestEnable_UnknownTemplate(t *testing.T) {
	setTestClaudeDir(t)

	if err := Enable("no-such-template"); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestEnabled(t *testing.T) {
	setTestClaudeDir(t)

	enabled, err := Enabled()
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if len(enabled) != 0 {
		t.Errorf("expected nothing enabled, got %+v", enabled)
	}

	if err := Enable("type-check"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	enabled, err = Enabled()
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if !enabled["type-check"] {
		t.Error("expected type-check enabled")
	}
}
