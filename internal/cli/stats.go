package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/pkg/color"
	"github.com/tasklog/tasklog/pkg/metrics"
	"github.com/tasklog/tasklog/pkg/model"
)

var (
	statsAll  bool
	statsProm bool
)

// statsReport counts tasks and their events within the reported scope.
// LogMalformed always covers the whole log: a line that cannot be decoded
// has no project.
type statsReport struct {
	Project      string         `json:"project,omitempty"`
	Tasks        int            `json:"tasks"`
	Events       int            `json:"events"`
	LogMalformed int            `json:"log_malformed"`
	ByStatus     map[string]int `json:"by_status"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts per status",
	Long: `Show task counts per status for the current project.

--prom writes Prometheus text exposition instead, e.g. for the node_exporter
textfile collector:
  task stats --all --prom > /var/lib/node_exporter/textfile/tasks.prom`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := requireContext()
		if err != nil {
			return err
		}

		events, malformed, err := ctx.log.ReadEvents()
		if err != nil {
			return err
		}

		f := projection.Filter{Project: ctx.project}
		if statsAll {
			f.Project = ""
		}
		state := projection.Fold(events)
		tasks := state.Tasks(f)

		scoped := state.EventCount()
		if f.Project != "" {
			scoped = 0
			for _, t := range tasks {
				scoped += t.Events
			}
		}

		if statsProm {
			reg := metrics.NewRegistry()
			reg.Observe(tasks, scoped, malformed)
			return reg.WriteText(os.Stdout)
		}

		report := statsReport{
			Project:      f.Project,
			Tasks:        len(tasks),
			Events:       scoped,
			LogMalformed: malformed,
			ByStatus:     metrics.StatusCounts(tasks),
		}
		if jsonOutput {
			return outputJSON(report)
		}

		for _, s := range model.KnownStatuses {
			n := report.ByStatus[string(s)]
			fmt.Printf("%s %d\n", color.Status(fmt.Sprintf("%-8s", s), string(s)), n)
		}
		var other []string
		for s := range report.ByStatus {
			if !model.Status(s).IsKnown() {
				other = append(other, s)
			}
		}
		sort.Strings(other)
		for _, s := range other {
			fmt.Printf("%-8s %d\n", s, report.ByStatus[s])
		}
		fmt.Printf("%-8s %d\n", "total", report.Tasks)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "count all projects")
	statsCmd.Flags().BoolVar(&statsProm, "prom", false, "write Prometheus text format")
	rootCmd.AddCommand(statsCmd)
}
