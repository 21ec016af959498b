package claudemd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/besslframework/claude-tune/pkg/logreader"
	"github.com/besslframework/claude-tune/pkg/patterns"
)

// analysisWithToneCorrections builds an analysis containing n tone
// corrections through the real extractor
func analysisWithToneCorrections(t *testing.T, n int) *patterns.Analysis {
	t.Helper()
	var turns []logreader.Turn
	for i := 0; i < n; i++ {
		turns = append(turns,
			logreader.Turn{Role: "assistant", Content: "알겠어"},
			logreader.Turn{Role: "user", Content: "존댓말로 해주세요"},
		)
	}
	conv := &logreader.Conversation{SessionID: "s", Turns: turns}
	return patterns.NewExtractor().Analyze([]*logreader.Conversation{conv})
}

func TestGenerateSuggestions_Tone(t *testing.T) {
	analysis := analysisWithToneCorrections(t, 3)

	suggestions := GenerateSuggestions(analysis)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}

	s := suggestions[0]
	if s.Section != SectionTone {
		t.Errorf("expected tone section, got %q", s.Section)
	}
	if s.Priority != PriorityHigh {
		t.Errorf("expected high priority, got %v", s.Priority)
	}
	if len(s.Rules) == 0 || s.Rules[0] != "- 항상 존댓말 사용" {
		t.Errorf("unexpected rules: %+v", s.Rules)
	}
	if !strings.Contains(s.Reason, "3회") {
		t.Errorf("expected evidence count in reason, got %q", s.Reason)
	}
}

func TestGenerateSuggestions_Empty(t *testing.T) {
	analysis := patterns.NewExtractor().Analyze(nil)

	suggestions := GenerateSuggestions(analysis)
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions for empty analysis, got %d", len(suggestions))
	}
}

func TestGenerateSuggestions_Deterministic(t *testing.T) {
	analysis := analysisWithToneCorrections(t, 2)

	first := GenerateSuggestions(analysis)
	second := GenerateSuggestions(analysis)

	if len(first) != len(second) {
		t.Fatalf("suggestion counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Section != second[i].Section || first[i].Priority != second[i].Priority {
			t.Errorf("suggestion order differs at %d", i)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CLAUDE.md")

	analysis := analysisWithToneCorrections(t, 3)
	suggestions := GenerateSuggestions(analysis)

	// First apply: section is created
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	added := Apply(doc, suggestions)
	if added == 0 {
		t.Fatal("expected rules to be added on first apply")
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	firstContent, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(firstContent), "## "+SectionTone) {
		t.Error("expected tone section to be created")
	}

	// Second apply with the same suggestions: byte-for-byte unchanged
	doc2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if added := Apply(doc2, suggestions); added != 0 {
		t.Errorf("second apply added %d rules, want 0", added)
	}
	if err := doc2.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	secondContent, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(firstContent) != string(secondContent) {
		t.Errorf("document changed on second apply:\nfirst  %q\nsecond %q", firstContent, secondContent)
	}
}

func TestRenderReport(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("no suggestions", func(t *testing.T) {
		report := RenderReport(nil, now)
		if !strings.Contains(report, "새로운 업데이트 제안이 없습니다") {
			t.Errorf("unexpected empty report: %q", report)
		}
	})

	t.Run("with suggestions", func(t *testing.T) {
		suggestions := []Suggestion{
			{Section: SectionTone, Rules: []string{"- 항상 존댓말 사용"}, Reason: "말투 교정 3회", Priority: PriorityHigh},
		}
		report := RenderReport(suggestions, now)

		for _, want := range []string{"높음", SectionTone, "- 항상 존댓말 사용", "말투 교정 3회", "제안 사항 (1건)"} {
			if !strings.Contains(report, want) {
				t.Errorf("report missing %q:\n%s", want, report)
			}
		}
	})
}

func TestSortSuggestions_StableByPriority(t *testing.T) {
	suggestions := []Suggestion{
		{Section: "a", Priority: PriorityLow},
		{Section: "b", Priority: PriorityHigh},
		{Section: "c", Priority: PriorityMedium},
		{Section: "d", Priority: PriorityMedium},
	}

	sortSuggestions(suggestions)

	wantOrder := []string{"b", "c", "d", "a"}
	for i, want := range wantOrder {
		if suggestions[i].Section != want {
			t.Errorf("position %d: want %q, got %q", i, want, suggestions[i].Section)
		}
	}
}
