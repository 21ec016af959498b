package cmd

import (
	"fmt"

	"github.com/besslframework/claude-tune/pkg/config"
	"github.com/besslframework/claude-tune/pkg/history"
	"github.com/besslframework/claude-tune/pkg/utils"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		tuneDir, err := config.GetTuneDir()
		if err != nil {
			return err
		}

		store, err := history.Open(tuneDir)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.RecentRuns(historyLimit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("기록된 분석 실행이 없습니다.")
			return nil
		}

		fmt.Printf("%-10s %-8s %-17s %6s %6s %6s\n", "RUN", "CMD", "TIME", "CONVS", "SUGG", "APPLIED")
		for _, r := range runs {
			fmt.Printf("%-10s %-8s %-17s %6d %6d %6d\n",
				utils.ShortID(r.RunID),
				r.Command,
				r.Timestamp.Format("2006-01-02 15:04"),
				r.ConversationCount,
				r.SuggestionCount,
				r.AppliedCount,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
