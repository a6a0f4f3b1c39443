package snippet_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklog/tasklog/internal/snippet"
	"github.com/tasklog/tasklog/internal/tracker"
	"github.com/tasklog/tasklog/pkg/template"
)

var text = mustRender(tracker.DefaultLimits)

func mustRender(l tracker.Limits) string {
	out, err := snippet.Render(l)
	if err != nil {
		panic(err)
	}
	return out
}

func TestRender(t *testing.T) {
	assert.Contains(t, text, "task list [status]")
	assert.Contains(t, text, "task create")
	assert.Contains(t, text, "task get")
	assert.Contains(t, text, "REQUIRED")
	assert.Contains(t, text, "Never skip")
	assert.Contains(t, text, "Limits: title ≤ 50, desc ≤ 500, note ≤ 200 chars.")
	assert.Contains(t, text, snippet.Marker)
	assert.Empty(t, template.Placeholders(text))
}

func TestRender_CustomLimits(t *testing.T) {
	out, err := snippet.Render(tracker.Limits{Title: 80, Description: 200, Note: 100})
	require.NoError(t, err)
	assert.Contains(t, out, "title ≤ 80, desc ≤ 200, note ≤ 100")
}

func TestInject_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAUDE.md")
	require.NoError(t, os.WriteFile(path, []byte("# My Project\n"), 0644))

	outcome, err := snippet.Inject(snippet.Target{Path: path, Header: "## Task Management"}, text)
	require.NoError(t, err)
	assert.Equal(t, snippet.Injected, outcome)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# My Project\n"))
	assert.Contains(t, string(content), "## Task Management")
	assert.Contains(t, string(content), snippet.Marker)
}

func TestInject_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AGENTS.md")
	require.NoError(t, os.WriteFile(path, []byte("# Agents\n"), 0644))
	target := snippet.Target{Path: path, Header: "## Task Management"}

	_, err := snippet.Inject(target, text)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	outcome, err := snippet.Inject(target, text)
	require.NoError(t, err)
	assert.Equal(t, snippet.UpToDate, outcome)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInject_SkipsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NONEXIST.md")
	outcome, err := snippet.Inject(snippet.Target{Path: path, Header: "## Task Management"}, text)
	require.NoError(t, err)
	assert.Equal(t, snippet.Skipped, outcome)
	assert.NoFileExists(t, path)
}

func TestInject_CreateNeedsParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "task-management.md")
	outcome, err := snippet.Inject(snippet.Target{Path: path, Header: "# Task Management", Create: true}, text)
	require.NoError(t, err)
	assert.Equal(t, snippet.Skipped, outcome)
	assert.NoFileExists(t, path)
}

func TestInject_FrontmatterCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task-management.mdc")
	fm := "---\ndescription: test\n---\n"

	outcome, err := snippet.Inject(snippet.Target{Path: path, Create: true, Frontmatter: fm}, text)
	require.NoError(t, err)
	assert.Equal(t, snippet.Injected, outcome)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "---\n"))
	assert.Contains(t, string(content), snippet.Marker)
}

func TestInject_AppendsWithDoubleNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAUDE.md")
	require.NoError(t, os.WriteFile(path, []byte("existing content"), 0644))

	_, err := snippet.Inject(snippet.Target{Path: path, Header: "## Task Management"}, text)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "existing content\n\n## Task Management")
}

func TestRun_Local(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("# P\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cursor", "rules"), 0755))

	res, err := snippet.Run(snippet.LocalTargets(dir), text)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "CLAUDE.md"),
		filepath.Join(dir, ".cursor", "rules", "task-management.mdc"),
	}, res.Injected)
	assert.Equal(t, []string{"CLAUDE.md", "AGENTS.md", "GEMINI.md"}, res.Candidates)
	assert.NoFileExists(t, filepath.Join(dir, ".clinerules", "task-management.md"))

	res, err = snippet.Run(snippet.LocalTargets(dir), text)
	require.NoError(t, err)
	assert.Empty(t, res.Injected)
	assert.Equal(t, 2, res.UpToDate)
}

func TestRun_NothingToDo(t *testing.T) {
	res, err := snippet.Run(snippet.LocalTargets(t.TempDir()), text)
	require.NoError(t, err)
	assert.Empty(t, res.Injected)
	assert.Zero(t, res.UpToDate)
	assert.Len(t, res.Candidates, 3)
}

func TestRun_Global(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "opencode"), 0755))

	res, err := snippet.Run(snippet.GlobalTargets(home), text)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(home, ".claude", "CLAUDE.md"),
		filepath.Join(home, ".config", "opencode", "AGENTS.md"),
	}, res.Injected)
	assert.Empty(t, res.Candidates)

	content, err := os.ReadFile(filepath.Join(home, ".claude", "CLAUDE.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "## Task Management\n"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "injected", snippet.Injected.String())
	assert.Equal(t, "up-to-date", snippet.UpToDate.String())
	assert.Equal(t, "skipped", snippet.Skipped.String())
}
