// Package stats computes descriptive metrics over parsed conversations:
// tool invocation frequency, user message length, and the share of user
// turns that ask questions or request code.
package stats

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/besslframework/claude-tune/pkg/logreader"
)

// codeRequestKeywords marks a user turn as a code request. Kept as data so
// the table can be tuned and tested independently of the aggregation.
var codeRequestKeywords = []string{
	"코드", "구현", "함수", "클래스", "작성", "만들어", "생성",
	"code", "implement", "create", "write",
}

// ToolCount is one row of the tool frequency table
type ToolCount struct {
	Name  string
	Count int
}

// Stats holds the aggregate metrics for a set of conversations.
// All ratios are in [0, 1]; empty input yields the zero value.
type Stats struct {
	ConversationCount int
	UserTurnCount     int
	ToolUsage         []ToolCount
	AvgMessageLength  float64
	QuestionRatio     float64
	CodeRequestRatio  float64
}

// Aggregate computes metrics over the given conversations in one pass.
// Deterministic for identical input; an empty input returns zero metrics.
func Aggregate(conversations []*logreader.Conversation) Stats {
	s := Stats{ConversationCount: len(conversations)}

	toolCounts := make(map[string]int)
	totalLength := 0
	questionCount := 0
	codeRequestCount := 0

	for _, conv := range conversations {
		for _, turn := range conv.Turns {
			switch turn.Role {
			case "assistant":
				for _, call := range turn.ToolCalls {
					name := call.Name
					if name == "" {
						name = "unknown"
					}
					toolCounts[name]++
				}

			case "user":
				s.UserTurnCount++
				totalLength += utf8.RuneCountInString(turn.Content)

				if isQuestion(turn.Content) {
					questionCount++
				}
				if isCodeRequest(turn.Content) {
					codeRequestCount++
				}
			}
		}
	}

	if s.UserTurnCount > 0 {
		s.AvgMessageLength = float64(totalLength) / float64(s.UserTurnCount)
		s.QuestionRatio = float64(questionCount) / float64(s.UserTurnCount)
		s.CodeRequestRatio = float64(codeRequestCount) / float64(s.UserTurnCount)
	}

	s.ToolUsage = sortToolCounts(toolCounts)

	return s
}

// sortToolCounts orders the frequency table by count descending,
// then name ascending so equal counts have a stable order.
func sortToolCounts(counts map[string]int) []ToolCount {
	table := make([]ToolCount, 0, len(counts))
	for name, count := range counts {
		table = append(table, ToolCount{Name: name, Count: count})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Name < table[j].Name
	})
	return table
}

func isQuestion(content string) bool {
	return strings.Contains(content, "?") || strings.HasSuffix(strings.TrimSpace(content), "?")
}

func isCodeRequest(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range codeRequestKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
