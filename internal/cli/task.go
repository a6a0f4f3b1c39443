package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/internal/tracker"
	"github.com/tasklog/tasklog/pkg/color"
	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/model"
)

var (
	createStatus      string
	updateDescription string
	listAll           bool
)

var createCmd = &cobra.Command{
	Use:   "create <title> [description]",
	Short: "Create a new task",
	Long: `Create a new task in the current project.

Prints TASK_ADD_<id> on success.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := requireContext()
		if err != nil {
			return err
		}

		req := tracker.CreateRequest{Project: ctx.project, Title: args[0], Status: createStatus}
		if len(args) > 1 {
			req.Description = args[1]
		}

		ev, err := ctx.tracker.Create(req)
		if err != nil {
			if errors.Is(err, errclass.ErrStatusInvalid) {
				return withHint(err, "  "+suggestStatuses())
			}
			return err
		}

		if jsonOutput {
			return outputJSON(ev)
		}
		fmt.Println(tracker.AddToken(ev))
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <status> [note]",
	Short: "Update task status",
	Long: `Record a status transition for a task.

The id may be a unique prefix of at least 4 characters. The note applies
to this transition only (block reason, PR URL, ...).
Prints TASK_<STATUS>_<id> on success.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := requireContext()
		if err != nil {
			return err
		}

		req := tracker.UpdateRequest{Ref: args[0], Status: args[1]}
		if len(args) > 2 {
			req.Note = args[2]
		}
		if cmd.Flags().Changed("description") {
			d := updateDescription
			req.Description = &d
		}

		ev, err := ctx.tracker.Update(req)
		if err != nil {
			if errors.Is(err, errclass.ErrStatusInvalid) {
				return withHint(err, "  "+suggestStatuses())
			}
			return notFoundHint(ctx, args[0], err)
		}

		if jsonOutput {
			return outputJSON(ev)
		}
		fmt.Println(tracker.StatusToken(ev))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "List tasks",
	Long: `List current tasks of this project in creation order.

Use --all to include every project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := requireContext()
		if err != nil {
			return err
		}

		req := tracker.ListRequest{Project: ctx.project, All: listAll}
		if len(args) > 0 {
			req.Status = args[0]
		}
		tasks, err := ctx.tracker.List(req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(tasks)
		}
		if len(tasks) == 0 {
			return nil
		}
		fmt.Println(color.Header(fmt.Sprintf("%-10s %-8s %-24s TITLE", "ID", "STATUS", "PROJECT")))
		for _, t := range tasks {
			fmt.Printf("%s %s %-24s %s\n",
				color.TaskID(fmt.Sprintf("%-10s", t.ID)),
				color.Status(fmt.Sprintf("%-8s", t.Status), string(t.Status)),
				t.Project, t.Title)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show task detail and state transition history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := requireContext()
		if err != nil {
			return err
		}

		detail, err := ctx.tracker.Get(args[0])
		if err != nil {
			return notFoundHint(ctx, args[0], err)
		}

		if jsonOutput {
			return outputJSON(detail)
		}
		fmt.Print(formatDetail(detail))
		return nil
	},
}

// noteIndent aligns continuation lines of a note under its first line.
const noteIndent = 42

// formatDetail renders a task header, its description and one line per event.
func formatDetail(d *tracker.Detail) string {
	var sb strings.Builder
	t := d.Task
	fmt.Fprintf(&sb, "%s | %s | %s\n", color.TaskID(t.ID), t.Project, color.Header(t.Title))
	if t.Description != "" {
		for _, line := range splitLines(t.Description) {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
		sb.WriteString("\n")
	}

	for _, ev := range d.History {
		if ev.Note == "" {
			fmt.Fprintf(&sb, "  %-28s %s\n", ev.Timestamp, color.Status(string(ev.Status), string(ev.Status)))
			continue
		}
		lines := splitLines(ev.Note)
		note := strings.Join(lines, "\n"+strings.Repeat(" ", noteIndent))
		fmt.Fprintf(&sb, "  %-28s %s %s\n", ev.Timestamp,
			color.Status(fmt.Sprintf("%-10s", ev.Status), string(ev.Status)), note)
	}
	return sb.String()
}

// splitLines splits on newlines, dropping one trailing newline and any
// carriage return before each break.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func init() {
	createCmd.Flags().StringVar(&createStatus, "status", string(model.StatusTodo), "initial status")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "replace the task description")
	listCmd.Flags().BoolVar(&listAll, "all", false, "show all projects (default: current project only)")

	rootCmd.AddCommand(createCmd, updateCmd, listCmd, getCmd)
}
