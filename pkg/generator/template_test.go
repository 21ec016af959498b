package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/besslframework/claude-tune/pkg/logreader"
	"github.com/besslframework/claude-tune/pkg/patterns"
	"github.com/besslframework/claude-tune/pkg/stats"
)

func TestGenerateClaudeMd_NoAnalysis(t *testing.T) {
	answers := Answers{
		Role:      "백엔드 개발자",
		Languages: []string{"Go"},
		Tone:      "존댓말",
		CodeStyle: "간결함",
	}
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	content := GenerateClaudeMd(answers, nil, nil, now)

	for _, want := range []string{
		"# CLAUDE.md",
		"2026-08-28",
		"백엔드 개발자",
		"- Go",
		"## 말투 규칙",
		"항상 존댓말을 사용합니다",
		"## 코드 스타일",
		"최소한의 코드로 작성",
		"## 커밋 메시지 규칙",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("generated document missing %q", want)
		}
	}

	if strings.Contains(content, "학습된 패턴") {
		t.Error("learned section should be absent without analysis")
	}
}

func TestGenerateClaudeMd_EnglishTone(t *testing.T) {
	answers := DefaultAnswers()
	answers.Tone = "영어"

	content := GenerateClaudeMd(answers, nil, nil, time.Now())
	if !strings.Contains(content, "Respond in English.") {
		t.Error("expected English tone rule")
	}
}

func TestGenerateClaudeMd_ExtraRules(t *testing.T) {
	answers := DefaultAnswers()
	answers.ExtraRules = "테스트 코드 항상 작성"

	content := GenerateClaudeMd(answers, nil, nil, time.Now())
	if !strings.Contains(content, "## 추가 규칙") || !strings.Contains(content, "테스트 코드 항상 작성") {
		t.Error("expected extra rules section")
	}
}

func TestGenerateClaudeMd_WithAnalysis(t *testing.T) {
	var turns []logreader.Turn
	for i := 0; i < 3; i++ {
		turns = append(turns,
			logreader.Turn{Role: "assistant", Content: "알겠어"},
			logreader.Turn{Role: "user", Content: "존댓말로 해주세요"},
			logreader.Turn{Role: "user", Content: "테스트 실행해줘"},
		)
	}
	conv := &logreader.Conversation{SessionID: "s", Turns: turns}
	conversations := []*logreader.Conversation{conv}

	analysis := patterns.NewExtractor().Analyze(conversations)
	aggregated := stats.Aggregate(conversations)

	content := GenerateClaudeMd(DefaultAnswers(), analysis, &aggregated, time.Now())

	if !strings.Contains(content, "## 학습된 패턴 (대화 로그 분석)") {
		t.Fatal("expected learned patterns section")
	}
	if !strings.Contains(content, "말투 교정 이력") {
		t.Error("expected tone correction note")
	}
	if !strings.Contains(content, "test: 3회") {
		t.Error("expected repeated request entry")
	}
}

func TestTopCounts(t *testing.T) {
	m := map[string]int{"a": 1, "b": 3, "c": 3, "d": 2}

	got := topCounts(m, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Count descending, name-ascending tie-break
	if got[0].name != "b" || got[1].name != "c" || got[2].name != "d" {
		t.Errorf("unexpected order: %+v", got)
	}
}
