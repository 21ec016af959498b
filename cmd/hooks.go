package cmd

import (
	"fmt"

	"github.com/besslframework/claude-tune/pkg/hooks"
	"github.com/spf13/cobra"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage hook templates in .claude/settings.json",
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available hook templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := hooks.Enabled()
		if err != nil {
			return err
		}

		fmt.Println("사용 가능한 훅 템플릿:")
		for _, tmpl := range hooks.Templates() {
			mark := " "
			if enabled[tmpl.Name] {
				mark = "*"
			}
			fmt.Printf("  [%s] %-14s %s\n", mark, tmpl.Name, tmpl.Description)
		}
		fmt.Println("\n(* = 활성화됨)")
		return nil
	},
}

var hooksEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a hook template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hooks.Enable(args[0]); err != nil {
			return err
		}
		fmt.Printf("훅 활성화: %s\n", args[0])
		return nil
	},
}

var hooksDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a hook template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hooks.Disable(args[0]); err != nil {
			return err
		}
		fmt.Printf("훅 비활성화: %s\n", args[0])
		return nil
	},
}

func init() {
	hooksCmd.AddCommand(hooksListCmd)
	hooksCmd.AddCommand(hooksEnableCmd)
	hooksCmd.AddCommand(hooksDisableCmd)
	rootCmd.AddCommand(hooksCmd)
}
