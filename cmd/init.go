package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/besslframework/claude-tune/pkg/generator"
	"github.com/besslframework/claude-tune/pkg/logreader"
	"github.com/besslframework/claude-tune/pkg/patterns"
	"github.com/besslframework/claude-tune/pkg/stats"
	"github.com/spf13/cobra"
)

var (
	initOutput string
	initYes    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a personalized CLAUDE.md",
	Long: `Runs an interactive setup (role, languages, tone, code style), analyzes any
existing session transcripts, and generates a CLAUDE.md. An existing file is
backed up to CLAUDE.md.backup before writing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	answers := generator.DefaultAnswers()
	if !initYes {
		var err error
		answers, err = generator.AskQuestions(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
	}

	fmt.Println("\n기존 대화 로그 분석 중...")

	reader, err := logreader.DefaultReader()
	if err != nil {
		return err
	}

	conversations, skipped, err := reader.RecentConversations(20, "")
	if err != nil {
		return fmt.Errorf("failed to read conversations: %w", err)
	}

	var analysis *patterns.Analysis
	var aggregated stats.Stats
	if len(conversations) == 0 {
		fmt.Println("  분석할 대화 로그가 없습니다.")
	} else {
		fmt.Printf("  %d개 대화 분석 완료\n", len(conversations))
		analysis = patterns.NewExtractor().Analyze(conversations)
		aggregated = stats.Aggregate(conversations)
	}

	content := generator.GenerateClaudeMd(answers, analysis, &aggregated, time.Now())

	outputPath := initOutput
	if outputPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		outputPath = filepath.Join(cwd, "CLAUDE.md")
	}

	// Back up an existing file before overwriting
	if _, err := os.Stat(outputPath); err == nil {
		backupPath := outputPath + ".backup"
		if err := os.Rename(outputPath, backupPath); err != nil {
			return fmt.Errorf("failed to back up existing file: %w", err)
		}
		fmt.Printf("\n기존 파일 백업: %s\n", backupPath)
	}

	if err := generator.WriteFile(outputPath, content); err != nil {
		return err
	}

	fmt.Printf("\nCLAUDE.md 생성 완료: %s\n", outputPath)
	recordRun("init", len(conversations), 0, 0, skipped)
	return nil
}

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "", "Output path (default: ./CLAUDE.md)")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Skip questions and use defaults")
	rootCmd.AddCommand(initCmd)
}
