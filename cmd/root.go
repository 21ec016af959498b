package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claude-tune",
	Short: "Tune your CLAUDE.md from your Claude Code session history",
	Long: `claude-tune analyzes locally stored Claude Code session transcripts to learn
your correction habits, tool usage, and recurring requests, and turns them
into CLAUDE.md configuration rules.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
