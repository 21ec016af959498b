package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/besslframework/claude-tune/pkg/claudemd"
	"github.com/besslframework/claude-tune/pkg/config"
	"github.com/besslframework/claude-tune/pkg/history"
	"github.com/besslframework/claude-tune/pkg/logger"
	"github.com/besslframework/claude-tune/pkg/logreader"
	"github.com/besslframework/claude-tune/pkg/patterns"
	"github.com/spf13/cobra"
)

var (
	learnLimit    int
	learnClaudeMd string
	learnApply    bool
	learnYes      bool
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Analyze recent conversations and suggest CLAUDE.md updates",
	Long: `Scans recent session transcripts for correction patterns, repeated requests,
and workflow habits, then prints ranked CLAUDE.md rule suggestions.

With --apply, suggestions are merged into the document. Merging is additive
and idempotent: existing sections are never deleted and an already-present
rule line is never duplicated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn()
	},
}

func runLearn() error {
	fmt.Println("대화 로그 분석 중...")
	fmt.Println()

	reader, err := logreader.DefaultReader()
	if err != nil {
		return err
	}

	conversations, skipped, err := reader.RecentConversations(learnLimit, "")
	if err != nil {
		return fmt.Errorf("failed to read conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Println("분석할 대화 로그가 없습니다.")
		return nil
	}

	if skipped > 0 {
		fmt.Printf("경고: 잘못된 형식의 로그 %d줄을 건너뛰었습니다.\n\n", skipped)
	}

	extractor := patterns.NewExtractor()
	analysis := extractor.Analyze(conversations)

	suggestions := claudemd.GenerateSuggestions(analysis)
	fmt.Print(claudemd.RenderReport(suggestions, time.Now()))

	applied := 0
	if learnApply && len(suggestions) > 0 {
		if !learnYes && !confirm("이 제안을 적용하시겠습니까? (y/N): ") {
			fmt.Println("취소되었습니다.")
			recordRun("learn", len(conversations), len(suggestions), 0, skipped)
			return nil
		}

		docPath, err := resolveClaudeMdPath()
		if err != nil {
			return err
		}

		doc, err := claudemd.Load(docPath)
		if err != nil {
			return err
		}

		applied = claudemd.Apply(doc, suggestions)
		if applied > 0 {
			if err := doc.Save(); err != nil {
				return fmt.Errorf("failed to write %s: %w", docPath, err)
			}
			fmt.Printf("CLAUDE.md가 업데이트되었습니다. (%d개 규칙 추가: %s)\n", applied, docPath)
		} else {
			fmt.Println("모든 제안이 이미 적용되어 있습니다. 변경 사항 없음.")
		}
	}

	recordRun("learn", len(conversations), len(suggestions), applied, skipped)
	return nil
}

// resolveClaudeMdPath returns the --claude-md flag value or searches for a
// CLAUDE.md from the working directory upward
func resolveClaudeMdPath() (string, error) {
	if learnClaudeMd != "" {
		return learnClaudeMd, nil
	}
	return config.FindClaudeMd()
}

// confirm prompts for a yes/no answer on stdin
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(input), "y")
}

// recordRun stores the run in the history database; failures only warn
func recordRun(command string, conversations, suggestions, applied, skipped int) {
	tuneDir, err := config.GetTuneDir()
	if err != nil {
		logger.Warn("Failed to locate state directory: %v", err)
		return
	}

	store, err := history.Open(tuneDir)
	if err != nil {
		logger.Warn("Failed to open history database: %v", err)
		return
	}
	defer store.Close()

	_, err = store.RecordRun(history.Run{
		Command:           command,
		ConversationCount: conversations,
		SuggestionCount:   suggestions,
		AppliedCount:      applied,
		SkippedLines:      skipped,
	})
	if err != nil {
		logger.Warn("Failed to record run: %v", err)
	}
}

func init() {
	learnCmd.Flags().IntVarP(&learnLimit, "limit", "l", 30, "Number of recent conversations to analyze")
	learnCmd.Flags().StringVar(&learnClaudeMd, "claude-md", "", "Path to CLAUDE.md (default: nearest CLAUDE.md from cwd)")
	learnCmd.Flags().BoolVarP(&learnApply, "apply", "a", false, "Merge suggestions into CLAUDE.md")
	learnCmd.Flags().BoolVarP(&learnYes, "yes", "y", false, "Apply without confirmation")
	rootCmd.AddCommand(learnCmd)
}
