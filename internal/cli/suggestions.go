package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/pkg/color"
	"github.com/tasklog/tasklog/pkg/errclass"
)

// formatSuggestions builds a "Did you mean" hint from near matches.
func formatSuggestions(matches []projection.Suggestion) string {
	if len(matches) == 0 {
		return fmt.Sprintf("Run %s to see available tasks.", color.Code("task list --all"))
	}

	var parts []string
	for _, m := range matches {
		s := color.TaskID(m.Task.ID)
		if m.Task.Title != "" {
			s += fmt.Sprintf(" (%s)", color.Dim(m.Task.Title))
		}
		parts = append(parts, s)
	}

	hint := "Did you mean"
	if len(parts) > 1 {
		hint += " one of"
	}
	return fmt.Sprintf("%s: %s?", hint, strings.Join(parts, ", "))
}

// notFoundHint attaches suggestions to a task-not-found error.
func notFoundHint(ctx *appContext, ref string, err error) error {
	if !errors.Is(err, errclass.ErrTaskNotFound) {
		return err
	}
	return withHint(err, "  "+formatSuggestions(ctx.tracker.Suggest(ref, 3)))
}

// suggestStatuses lists the known statuses for usage errors.
func suggestStatuses() string {
	return fmt.Sprintf("Valid statuses: %s", color.Code("inbox, todo, doing, blocked, inreview, done"))
}
