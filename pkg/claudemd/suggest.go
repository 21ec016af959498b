package claudemd

import (
	"fmt"
	"strings"
	"time"

	"github.com/besslframework/claude-tune/pkg/patterns"
)

// Priority ranks a suggestion
type Priority int

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "높음"
	case PriorityMedium:
		return "중간"
	case PriorityLow:
		return "낮음"
	default:
		return "?"
	}
}

// Suggestion is a proposed set of rule lines for one document section
type Suggestion struct {
	Section  string
	Rules    []string
	Reason   string
	Priority Priority
}

// Section headings used for generated rules. Matching existing headings is
// exact; user-renamed sections get a fresh section appended instead.
const (
	SectionTone      = "말투 규칙"
	SectionReview    = "확인 필요"
	SectionRequests  = "자주 하는 작업"
	SectionFiles     = "주요 작업 파일"
	SectionWorkflows = "작업 패턴"
)

// Occurrence floors per category before a suggestion is produced; these sit
// above the extractor's own pattern threshold.
const (
	minRequestOccurrences  = 5
	minEditOccurrences     = 10
	minWorkflowOccurrences = 3
)

// GenerateSuggestions converts ranked patterns into ranked suggestions.
// Rule text is stable for identical input: counts go into the reason, never
// the rule line, so re-applying after re-analysis stays idempotent.
func GenerateSuggestions(a *patterns.Analysis) []Suggestion {
	var suggestions []Suggestion

	var topRequest, topEdit *patterns.Pattern
	var workflowRules []string
	var workflowTotal int

	// Patterns arrive ranked (count desc, recency, key); walking them in
	// order keeps suggestion order deterministic.
	for i := range a.Patterns {
		p := &a.Patterns[i]
		switch p.Category {
		case patterns.CategoryTone:
			suggestions = append(suggestions, Suggestion{
				Section:  SectionTone,
				Rules:    []string{"- 항상 존댓말 사용", "- 반말 사용 금지"},
				Reason:   fmt.Sprintf("말투 관련 교정 %d회 감지", p.Occurrences),
				Priority: PriorityHigh,
			})

		case patterns.CategoryCorrection:
			suggestions = append(suggestions, Suggestion{
				Section:  SectionReview,
				Rules:    []string{fmt.Sprintf("- '%s' 관련 교정 빈발: 응답 전 요구사항 재확인", p.Key)},
				Reason:   fmt.Sprintf("'%s' 교정 %d회 감지", p.Key, p.Occurrences),
				Priority: PriorityMedium,
			})

		case patterns.CategoryRequest:
			if topRequest == nil && p.Occurrences >= minRequestOccurrences {
				topRequest = p
			}

		case patterns.CategoryEdit:
			if topEdit == nil && p.Occurrences >= minEditOccurrences {
				topEdit = p
			}

		case patterns.CategoryWorkflow:
			if p.Occurrences >= minWorkflowOccurrences && len(workflowRules) < 3 {
				workflowRules = append(workflowRules, fmt.Sprintf("- %s 순서 반복", p.Key))
				workflowTotal += p.Occurrences
			}
		}
	}

	if topRequest != nil {
		suggestions = append(suggestions, Suggestion{
			Section:  SectionRequests,
			Rules:    []string{fmt.Sprintf("- %s 요청이 잦음: 효율적인 워크플로우 패턴 정립 필요", topRequest.Key)},
			Reason:   fmt.Sprintf("'%s' 작업 %d회 반복", topRequest.Key, topRequest.Occurrences),
			Priority: PriorityMedium,
		})
	}

	if topEdit != nil {
		suggestions = append(suggestions, Suggestion{
			Section:  SectionFiles,
			Rules:    []string{fmt.Sprintf("- .%s 파일 작업 빈도 높음: 관련 린팅/포맷팅 규칙 정립 권장", topEdit.Key)},
			Reason:   fmt.Sprintf(".%s 파일 편집 %d회", topEdit.Key, topEdit.Occurrences),
			Priority: PriorityLow,
		})
	}

	if len(workflowRules) > 0 {
		suggestions = append(suggestions, Suggestion{
			Section:  SectionWorkflows,
			Rules:    workflowRules,
			Reason:   fmt.Sprintf("반복되는 도구 사용 패턴 감지 (%d회)", workflowTotal),
			Priority: PriorityMedium,
		})
	}

	sortSuggestions(suggestions)
	return suggestions
}

// sortSuggestions orders by priority, preserving generation order within a
// priority level (sort must be stable for deterministic reports).
func sortSuggestions(suggestions []Suggestion) {
	// insertion sort keeps equal-priority suggestions in generation order
	for i := 1; i < len(suggestions); i++ {
		for j := i; j > 0 && suggestions[j].Priority < suggestions[j-1].Priority; j-- {
			suggestions[j], suggestions[j-1] = suggestions[j-1], suggestions[j]
		}
	}
}

// Apply merges suggestions into the document. Returns the number of rule
// lines actually added; applying the same suggestions twice adds nothing
// the second time.
func Apply(doc *Document, suggestions []Suggestion) int {
	added := 0
	for _, s := range suggestions {
		for _, rule := range s.Rules {
			if doc.EnsureRule(s.Section, rule) {
				added++
			}
		}
	}
	return added
}

// RenderReport formats suggestions as a human-readable update report
func RenderReport(suggestions []Suggestion, now time.Time) string {
	var b strings.Builder

	b.WriteString("# CLAUDE.md 업데이트 리포트\n\n")
	b.WriteString(fmt.Sprintf("생성 시간: %s\n\n", now.Format("2006-01-02 15:04:05")))

	if len(suggestions) == 0 {
		b.WriteString("새로운 업데이트 제안이 없습니다.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("## 제안 사항 (%d건)\n\n", len(suggestions)))

	for i, s := range suggestions {
		b.WriteString(fmt.Sprintf("### %d. [%s] %s\n\n", i+1, s.Priority, s.Reason))
		b.WriteString(fmt.Sprintf("**섹션**: %s\n\n", s.Section))
		b.WriteString("**제안 내용**:\n```markdown\n")
		for _, rule := range s.Rules {
			b.WriteString(rule)
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	return b.String()
}
