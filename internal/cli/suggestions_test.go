package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/pkg/color"
	"github.com/tasklog/tasklog/pkg/model"
)

func TestFormatSuggestions(t *testing.T) {
	color.Disable()

	t.Run("no matches", func(t *testing.T) {
		assert.Equal(t, "Run task list --all to see available tasks.", formatSuggestions(nil))
	})

	t.Run("single match", func(t *testing.T) {
		got := formatSuggestions([]projection.Suggestion{{Task: model.Task{ID: "aabbccdd", Title: "Fix login"}}})
		assert.Equal(t, "Did you mean: aabbccdd (Fix login)?", got)
	})

	t.Run("several matches", func(t *testing.T) {
		got := formatSuggestions([]projection.Suggestion{
			{Task: model.Task{ID: "aabbccdd"}},
			{Task: model.Task{ID: "aabbeeff", Title: "B"}},
		})
		assert.Equal(t, "Did you mean one of: aabbccdd, aabbeeff (B)?", got)
	})
}

func TestSuggestStatuses(t *testing.T) {
	color.Disable()
	assert.Contains(t, suggestStatuses(), "inreview")
}
