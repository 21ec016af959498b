package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/besslframework/claude-tune/pkg/logreader"
	"github.com/besslframework/claude-tune/pkg/patterns"
	"github.com/besslframework/claude-tune/pkg/stats"
	"github.com/spf13/cobra"
)

var (
	analyzeLimit   int
	analyzeProject string
	analyzeOutput  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print statistics about recent conversations",
	Long: `Computes tool usage frequency, average user message length, question ratio,
and code-request ratio over recent session transcripts. With --output, the
full result is also written as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze()
	},
}

// analyzeResult is the JSON dump shape for --output
type analyzeResult struct {
	Timestamp         string           `json:"timestamp"`
	ConversationCount int              `json:"conversation_count"`
	SkippedLines      int              `json:"skipped_lines"`
	ToolUsage         []toolUsageEntry `json:"tool_usage"`
	UserPatterns      userPatterns     `json:"user_patterns"`
	Corrections       int              `json:"corrections"`
	RepeatedRequests  map[string]int   `json:"repeated_requests"`
	EditsByExtension  map[string]int   `json:"edits_by_extension"`
	WorkflowCount     int              `json:"workflow_count"`
}

type toolUsageEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type userPatterns struct {
	AvgMessageLength float64 `json:"avg_message_length"`
	QuestionRatio    float64 `json:"question_ratio"`
	CodeRequestRatio float64 `json:"code_request_ratio"`
}

func runAnalyze() error {
	fmt.Println("대화 로그 분석 중...")
	fmt.Println()

	reader, err := logreader.DefaultReader()
	if err != nil {
		return err
	}

	conversations, skipped, err := reader.RecentConversations(analyzeLimit, analyzeProject)
	if err != nil {
		return fmt.Errorf("failed to read conversations: %w", err)
	}

	aggregated := stats.Aggregate(conversations)
	extractor := patterns.NewExtractor()
	analysis := extractor.Analyze(conversations)

	fmt.Printf("분석된 대화 수: %d\n", aggregated.ConversationCount)
	if skipped > 0 {
		fmt.Printf("건너뛴 로그 줄: %d\n", skipped)
	}
	fmt.Println()

	fmt.Println("=== 도구 사용 빈도 ===")
	if len(aggregated.ToolUsage) == 0 {
		fmt.Println("  (없음)")
	}
	for i, tc := range aggregated.ToolUsage {
		if i >= 10 {
			break
		}
		fmt.Printf("  %s: %d\n", tc.Name, tc.Count)
	}

	fmt.Println()
	fmt.Println("=== 사용자 패턴 ===")
	fmt.Printf("  평균 메시지 길이: %.0f자\n", aggregated.AvgMessageLength)
	fmt.Printf("  질문 비율: %.1f%%\n", aggregated.QuestionRatio*100)
	fmt.Printf("  코드 요청 비율: %.1f%%\n", aggregated.CodeRequestRatio*100)

	fmt.Println()
	fmt.Println("=== 추출된 패턴 ===")
	fmt.Printf("  교정 횟수: %d\n", len(analysis.Corrections))
	fmt.Printf("  반복 요청 유형: %d가지\n", len(analysis.RepeatedRequests))
	fmt.Printf("  워크플로우 패턴: %d개\n", len(analysis.Workflows))

	if analyzeOutput != "" {
		result := analyzeResult{
			Timestamp:         time.Now().Format(time.RFC3339),
			ConversationCount: aggregated.ConversationCount,
			SkippedLines:      skipped,
			UserPatterns: userPatterns{
				AvgMessageLength: aggregated.AvgMessageLength,
				QuestionRatio:    aggregated.QuestionRatio,
				CodeRequestRatio: aggregated.CodeRequestRatio,
			},
			Corrections:      len(analysis.Corrections),
			RepeatedRequests: analysis.RepeatedRequests,
			EditsByExtension: analysis.EditsByExtension,
			WorkflowCount:    len(analysis.Workflows),
		}
		for _, tc := range aggregated.ToolUsage {
			result.ToolUsage = append(result.ToolUsage, toolUsageEntry{Name: tc.Name, Count: tc.Count})
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := os.WriteFile(analyzeOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", analyzeOutput, err)
		}
		fmt.Printf("\n분석 결과 저장: %s\n", analyzeOutput)
	}

	recordRun("analyze", aggregated.ConversationCount, 0, 0, skipped)
	return nil
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "l", 20, "Number of recent conversations to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeProject, "project", "p", "", "Only analyze sessions whose project path contains this string")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write full result as JSON to this path")
	rootCmd.AddCommand(analyzeCmd)
}
