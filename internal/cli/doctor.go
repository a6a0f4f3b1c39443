package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/internal/doctor"
	"github.com/tasklog/tasklog/internal/eventlog"
	"github.com/tasklog/tasklog/pkg/color"
)

var doctorStrict bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check task log health",
	Long: `Check task log health.

Reports malformed lines, unknown statuses, ids not generated by task and
leftover temp files. Use --strict to also parse timestamps and to treat
warnings as failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc := doctor.NewDoctor(eventlog.New(cfg.Log.Path), cfg.Lang.Path)
		result, err := doc.Check(doctorStrict)
		if err != nil {
			return fmt.Errorf("doctor: %w", err)
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else if len(result.Findings) == 0 {
			fmt.Printf("Task log is healthy (%d events, %d tasks).\n", result.Events, result.Tasks)
		} else {
			fmt.Printf("Findings (%d):\n", len(result.Findings))
			for _, f := range result.Findings {
				fmt.Printf("  [%s] %s: %s\n", severity(f.Severity), f.Category, f.Description)
			}
		}

		if !result.Healthy {
			return errSilentExit
		}
		return nil
	},
}

func severity(s string) string {
	switch s {
	case doctor.SeverityCritical:
		return color.Error(s)
	case doctor.SeverityWarning:
		return color.Warning(s)
	default:
		return color.Info(s)
	}
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false, "parse timestamps and fail on warnings")
	rootCmd.AddCommand(doctorCmd)
}
