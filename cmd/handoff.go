package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/besslframework/claude-tune/pkg/generator"
	"github.com/besslframework/claude-tune/pkg/handoff"
	"github.com/besslframework/claude-tune/pkg/logreader"
	"github.com/besslframework/claude-tune/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	handoffSession string
	handoffOutput  string
)

var handoffCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Generate a HANDOFF.md from a session",
	Long: `Extracts a session summary, completed and pending tasks, and touched files
from one session transcript and writes a HANDOFF.md for picking the work
back up later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHandoff()
	},
}

func runHandoff() error {
	reader, err := logreader.DefaultReader()
	if err != nil {
		return err
	}

	session, err := reader.FindSession(handoffSession)
	if err != nil {
		return err
	}

	conv, err := logreader.ParseSessionFile(session.TranscriptPath, session.SessionID, session.ProjectPath)
	if err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}

	if len(conv.Turns) == 0 {
		fmt.Println("세션에 대화 내용이 없습니다.")
		return nil
	}

	ctx := handoff.ExtractContext(conv)
	content := handoff.Render(ctx, utils.ShortID(session.SessionID), time.Now())

	outputPath := handoffOutput
	if outputPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		outputPath = filepath.Join(cwd, "HANDOFF.md")
	}

	if err := generator.WriteFile(outputPath, content); err != nil {
		return err
	}

	fmt.Printf("HANDOFF.md 생성 완료: %s (세션 %s)\n", outputPath, utils.ShortID(session.SessionID))
	return nil
}

func init() {
	handoffCmd.Flags().StringVarP(&handoffSession, "session", "s", "latest", "Session ID (full or prefix) or 'latest'")
	handoffCmd.Flags().StringVarP(&handoffOutput, "output", "o", "", "Output path (default: ./HANDOFF.md)")
	rootCmd.AddCommand(handoffCmd)
}
