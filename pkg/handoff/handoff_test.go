package handoff

import (
	"strings"
	"testing"
	"time"

	"github.com/besslframework/claude-tune/pkg/logreader"
)

func TestExtractContext(t *testing.T) {
	conv := &logreader.Conversation{
		SessionID: "abc",
		Turns: []logreader.Turn{
			{Role: "user", Content: "로그인 기능 구현해줘"},
			{Role: "assistant", Content: "구현하겠습니다", ToolCalls: []logreader.ToolCall{
				{Name: "Edit", Input: map[string]interface{}{"file_path": "/src/auth/login.go"}},
				{Name: "Edit", Input: map[string]interface{}{"file_path": "/tmp/scratch.go"}},
			}},
			{Role: "assistant", Content: "로그인 기능 구현 완료"},
			{Role: "user", Content: "다음엔 로그아웃도 해줘"},
		},
	}

	ctx := ExtractContext(conv)

	if ctx.Summary != "로그인 기능 구현해줘" {
		t.Errorf("unexpected summary: %q", ctx.Summary)
	}
	if len(ctx.CompletedTasks) != 1 || !strings.Contains(ctx.CompletedTasks[0], "완료") {
		t.Errorf("unexpected completed tasks: %+v", ctx.CompletedTasks)
	}
	// Both user requests carry task keywords
	if len(ctx.PendingTasks) != 2 || !strings.Contains(ctx.PendingTasks[1], "로그아웃") {
		t.Errorf("unexpected pending tasks: %+v", ctx.PendingTasks)
	}
	if len(ctx.ImportantFiles) != 1 || ctx.ImportantFiles[0] != "login.go" {
		t.Errorf("expected /tmp files excluded, got %+v", ctx.ImportantFiles)
	}
	if len(ctx.NextSteps) != 2 {
		t.Errorf("unexpected next steps: %+v", ctx.NextSteps)
	}
}

func TestExtractContext_Empty(t *testing.T) {
	ctx := ExtractContext(&logreader.Conversation{SessionID: "x"})

	if ctx.Summary != "세션 요약 없음" {
		t.Errorf("unexpected summary: %q", ctx.Summary)
	}
	if len(ctx.NextSteps) != 1 {
		t.Errorf("expected placeholder next step, got %+v", ctx.NextSteps)
	}
}

func TestExtractContext_DedupTasks(t *testing.T) {
	var turns []logreader.Turn
	for i := 0; i < 3; i++ {
		turns = append(turns,
			logreader.Turn{Role: "assistant", Content: "작업 완료"},
			logreader.Turn{Role: "user", Content: "빌드 확인 필요"},
		)
	}
	conv := &logreader.Conversation{SessionID: "x", Turns: turns}

	ctx := ExtractContext(conv)

	if len(ctx.CompletedTasks) != 1 {
		t.Errorf("expected deduplicated completed tasks, got %+v", ctx.CompletedTasks)
	}
	if len(ctx.PendingTasks) != 1 {
		t.Errorf("expected deduplicated pending tasks, got %+v", ctx.PendingTasks)
	}
}

func TestRender(t *testing.T) {
	ctx := &Context{
		Summary:        "로그인 기능 구현",
		CompletedTasks: []string{"로그인 구현 완료"},
		PendingTasks:   []string{"로그아웃 구현"},
		ImportantFiles: []string{"login.go"},
		NextSteps:      []string{"로그아웃 구현"},
	}
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

	content := Render(ctx, "abcd1234", now)

	for _, want := range []string{
		"# HANDOFF.md",
		"2026-08-28 09:30",
		"세션 abcd1234",
		"## 세션 요약",
		"로그인 기능 구현",
		"- 로그인 구현 완료",
		"- [ ] 로그아웃 구현",
		"`login.go`",
		"1. 로그아웃 구현",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("handoff missing %q", want)
		}
	}
}
