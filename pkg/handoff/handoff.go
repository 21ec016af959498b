// Package handoff generates a HANDOFF.md session-handoff document from one
// parsed conversation: what was asked, what got done, what is still open,
// and which files were touched.
package handoff

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/besslframework/claude-tune/pkg/logreader"
)

// Context is the extracted handoff material for one session
type Context struct {
	Summary        string
	CompletedTasks []string
	PendingTasks   []string
	ImportantFiles []string
	NextSteps      []string
}

// doneKeywords mark an assistant message as reporting completed work
var doneKeywords = []string{"완료", "done", "finished", "fixed"}

// todoKeywords mark a user message as a task request worth carrying over
var todoKeywords = []string{"해줘", "해주세요", "하자", "해야", "필요", "todo", "please", "need to"}

const (
	maxTasks = 5
	maxFiles = 10
)

// ExtractContext walks one conversation and collects handoff material
func ExtractContext(conv *logreader.Conversation) *Context {
	ctx := &Context{}
	files := make(map[string]bool)
	var fileOrder []string

	for _, turn := range conv.Turns {
		switch turn.Role {
		case "assistant":
			if containsAny(strings.ToLower(turn.Content), doneKeywords) {
				if task := firstShortLine(turn.Content); task != "" {
					ctx.CompletedTasks = append(ctx.CompletedTasks, task)
				}
			}
			for _, call := range turn.ToolCalls {
				path, _ := call.Input["file_path"].(string)
				if path == "" || strings.HasPrefix(path, "/tmp") {
					continue
				}
				name := filepath.Base(path)
				if !files[name] {
					files[name] = true
					fileOrder = append(fileOrder, name)
				}
			}

		case "user":
			content := strings.TrimSpace(turn.Content)
			if ctx.Summary == "" && content != "" {
				ctx.Summary = truncate(content, 200)
			}
			if len(content) > 0 && len(content) < 150 && containsAny(strings.ToLower(content), todoKeywords) {
				ctx.PendingTasks = append(ctx.PendingTasks, truncate(content, 100))
			}
		}
	}

	ctx.CompletedTasks = dedupTail(ctx.CompletedTasks, maxTasks)
	ctx.PendingTasks = dedupTail(ctx.PendingTasks, maxTasks)
	if len(fileOrder) > maxFiles {
		fileOrder = fileOrder[:maxFiles]
	}
	ctx.ImportantFiles = fileOrder

	if ctx.Summary == "" {
		ctx.Summary = "세션 요약 없음"
	}
	if len(ctx.PendingTasks) > 0 {
		n := len(ctx.PendingTasks)
		if n > 3 {
			n = 3
		}
		ctx.NextSteps = ctx.PendingTasks[:n]
	} else {
		ctx.NextSteps = []string{"다음 작업을 정의하세요"}
	}

	return ctx
}

// Render formats the handoff document
func Render(ctx *Context, sessionID string, now time.Time) string {
	var b strings.Builder

	b.WriteString("# HANDOFF.md\n\n")
	b.WriteString(fmt.Sprintf("> 생성: %s", now.Format("2006-01-02 15:04")))
	if sessionID != "" {
		b.WriteString(fmt.Sprintf(" (세션 %s)", sessionID))
	}
	b.WriteString("\n\n")

	b.WriteString("## 세션 요약\n\n")
	b.WriteString(ctx.Summary)
	b.WriteString("\n\n")

	b.WriteString("## 완료된 작업\n\n")
	if len(ctx.CompletedTasks) == 0 {
		b.WriteString("- (감지된 완료 작업 없음)\n")
	}
	for _, task := range ctx.CompletedTasks {
		b.WriteString(fmt.Sprintf("- %s\n", task))
	}
	b.WriteString("\n")

	b.WriteString("## 남은 작업\n\n")
	if len(ctx.PendingTasks) == 0 {
		b.WriteString("- (감지된 남은 작업 없음)\n")
	}
	for _, task := range ctx.PendingTasks {
		b.WriteString(fmt.Sprintf("- [ ] %s\n", task))
	}
	b.WriteString("\n")

	if len(ctx.ImportantFiles) > 0 {
		b.WriteString("## 주요 파일\n\n")
		for _, file := range ctx.ImportantFiles {
			b.WriteString(fmt.Sprintf("- `%s`\n", file))
		}
		b.WriteString("\n")
	}

	b.WriteString("## 다음 단계\n\n")
	for i, step := range ctx.NextSteps {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}

	return b.String()
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// firstShortLine returns the first non-empty line under 100 chars from the
// first few lines of a message
func firstShortLine(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i >= 3 {
			break
		}
		line = strings.TrimSpace(line)
		if line != "" && len(line) < 100 {
			return truncate(line, 80)
		}
	}
	return ""
}

// dedupTail removes duplicates keeping first occurrence, then keeps the
// last max entries (most recent tasks win)
func dedupTail(items []string, max int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
