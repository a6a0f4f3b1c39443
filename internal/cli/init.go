package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/internal/snippet"
)

var initGlobal bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Inject instruction snippet into agent config files",
	Long: `Inject the task workflow instructions into agent instruction files.

Without --global, existing CLAUDE.md, AGENTS.md and GEMINI.md in the current
directory are updated, and Cursor and Cline rule files are created when their
directories exist. With --global, the per-user files under your home
directory are used. Files that already contain the instructions are left
untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var targets []snippet.Target
		if initGlobal {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("cannot find home directory: %w", err)
			}
			targets = snippet.GlobalTargets(home)
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("cannot get current directory: %w", err)
			}
			targets = snippet.LocalTargets(cwd)
		}

		text, err := snippet.Render(limitsFrom(cfg))
		if err != nil {
			return err
		}
		result, err := snippet.Run(targets, text)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		switch {
		case len(result.Injected) > 0:
			for _, p := range result.Injected {
				fmt.Printf("Injected: %s\n", p)
			}
		case result.UpToDate == 0 && len(result.Candidates) > 0:
			fmt.Printf("No instruction files found. Create one of these and run again:\n  %s\n",
				strings.Join(result.Candidates, ", "))
		default:
			fmt.Println("Already up-to-date.")
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "inject into global config files instead of project-local")
	rootCmd.AddCommand(initCmd)
}
