// Package hooks manages curated hook templates in .claude/settings.json.
// Enabling and disabling a template goes through the config package's
// atomic read-modify-write so concurrent edits never corrupt the file.
package hooks

import (
	"fmt"
	"sort"

	"github.com/besslframework/claude-tune/pkg/config"
)

// Template is a curated hook definition that can be enabled by name
type Template struct {
	Name        string
	Event       string // hook event, e.g. "PostToolUse"
	Matcher     string // tool name matcher
	Command     string
	Description string
}

// templates is the curated set. The command marker ("# claude-tune:NAME")
// identifies managed hooks so disable only removes what enable added.
var templates = []Template{
	{
		Name:        "lint-python",
		Event:       "PostToolUse",
		Matcher:     "Edit",
		Command:     "python -m black --check $FILE && python -m isort --check-only $FILE # claude-tune:lint-python",
		Description: "Python 파일 편집 시 Black/isort 체크",
	},
	{
		Name:        "lint-js",
		Event:       "PostToolUse",
		Matcher:     "Edit",
		Command:     "npx eslint $FILE # claude-tune:lint-js",
		Description: "JS/TS 파일 편집 시 ESLint 체크",
	},
	{
		Name:        "test-python",
		Event:       "PostToolUse",
		Matcher:     "Edit",
		Command:     "python -m pytest --tb=short -q # claude-tune:test-python",
		Description: "Python 파일 편집 후 테스트 실행",
	},
	{
		Name:        "test-js",
		Event:       "PostToolUse",
		Matcher:     "Edit",
		Command:     "npm test -- --passWithNoTests # claude-tune:test-js",
		Description: "JS 파일 편집 후 테스트 실행",
	},
	{
		Name:        "type-check",
		Event:       "PostToolUse",
		Matcher:     "Edit",
		Command:     "npx tsc --noEmit # claude-tune:type-check",
		Description: "TypeScript 타입 체크",
	},
	{
		Name:        "no-force-push",
		Event:       "PreToolUse",
		Matcher:     "Bash",
		Command:     "! grep -q 'push.*--force\\|push.*-f' <<< \"$COMMAND\" || exit 1 # claude-tune:no-force-push",
		Description: "force push 방지",
	},
}

// Templates returns the curated templates sorted by name
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// findTemplate returns the template with the given name
func findTemplate(name string) (*Template, error) {
	for i := range templates {
		if templates[i].Name == name {
			return &templates[i], nil
		}
	}
	return nil, fmt.Errorf("unknown hook template: %s", name)
}

// marker returns the managed-hook marker for a template name
func marker(name string) string {
	return "# claude-tune:" + name
}

// Enable installs a template's hook into settings.json (idempotent)
func Enable(name string) error {
	tmpl, err := findTemplate(name)
	if err != nil {
		return err
	}

	hook := config.Hook{
		Type:    "command",
		Command: tmpl.Command,
	}

	return config.AtomicUpdateSettings(func(settings *config.ClaudeSettings) error {
		eventHooks := settings.Hooks[tmpl.Event]

		for i, m := range eventHooks {
			if m.Matcher != tmpl.Matcher {
				continue
			}
			for j, existing := range m.Hooks {
				if isManagedHook(existing, tmpl.Name) {
					// Already installed, refresh the command
					settings.Hooks[tmpl.Event][i].Hooks[j] = hook
					return nil
				}
			}
			settings.Hooks[tmpl.Event][i].Hooks = append(m.Hooks, hook)
			return nil
		}

		settings.Hooks[tmpl.Event] = append(eventHooks, config.HookMatcher{
			Matcher: tmpl.Matcher,
			Hooks:   []config.Hook{hook},
		})
		return nil
	})
}

// Disable removes a template's hook from settings.json. Hooks not installed
// by claude-tune are left alone.
func Disable(name string) error {
	tmpl, err := findTemplate(name)
	if err != nil {
		return err
	}

	return config.AtomicUpdateSettings(func(settings *config.ClaudeSettings) error {
		eventHooks := settings.Hooks[tmpl.Event]
		if len(eventHooks) == 0 {
			return nil
		}

		var updated []config.HookMatcher
		for _, m := range eventHooks {
			var remaining []config.Hook
			for _, hook := range m.Hooks {
				if !isManagedHook(hook, tmpl.Name) {
					remaining = append(remaining, hook)
				}
			}
			if len(remaining) > 0 {
				m.Hooks = remaining
				updated = append(updated, m)
			}
		}

		settings.Hooks[tmpl.Event] = updated
		return nil
	})
}

// Enabled returns the names of templates currently installed
func Enabled() (map[string]bool, error) {
	settings, err := config.ReadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	enabled := make(map[string]bool)
	for _, tmpl := range templates {
		for _, m := range settings.Hooks[tmpl.Event] {
			for _, hook := range m.Hooks {
				if isManagedHook(hook, tmpl.Name) {
					enabled[tmpl.Name] = true
				}
			}
		}
	}
	return enabled, nil
}

// isManagedHook reports whether a hook was installed by claude-tune under
// the given template name
func isManagedHook(hook config.Hook, name string) bool {
	if hook.Type != "command" {
		return false
	}
	m := marker(name)
	return len(hook.Command) >= len(m) && hook.Command[len(hook.Command)-len(m):] == m
}
