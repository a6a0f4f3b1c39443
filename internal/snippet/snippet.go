// Package snippet injects task-tracking instructions into the instruction
// files that coding agents read.
package snippet

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tasklog/tasklog/internal/tracker"
	"github.com/tasklog/tasklog/pkg/fsutil"
	"github.com/tasklog/tasklog/pkg/logging"
	"github.com/tasklog/tasklog/pkg/template"
)

// Marker identifies a file that already carries the instructions.
const Marker = "task update <id> doing"

const body = "REQUIRED: manage tasks with `task` CLI before, during, and after work. Never skip.\n" +
	"Commands: `task list [status]` | `task create \"<title>\" [\"<desc>\"]` | `task update <id> <status> [\"<note>\"]` | `task get <id>`\n" +
	"Session start: `task list doing` (resume) → `task list todo` (pick) → `task create` (if none). Always `task update <id> doing` before work.\n" +
	"During: human input needed → `task update <id> blocked \"<reason>\"`. Resumed → `task update <id> doing`.\n" +
	"End: PR → `task update <id> inreview \"<pr_url>\"`. Direct commit → `task update <id> done`. Unfinished → `blocked`. Unnecessary → `done`.\n" +
	"Limits: title ≤ {title_max}, desc ≤ {description_max}, note ≤ {note_max} chars."

const (
	sectionHeader = "## Task Management"
	docHeader     = "# Task Management"
	cursorFront   = "---\ndescription: Task management workflow using the task CLI\nglobs:\nalwaysApply: true\n---\n"
)

// Render returns the instruction text with the given field limits.
func Render(l tracker.Limits) (string, error) {
	return render(body, l)
}

func render(text string, l tracker.Limits) (string, error) {
	vars := map[string]string{
		"title_max":       strconv.Itoa(l.Title),
		"description_max": strconv.Itoa(l.Description),
		"note_max":        strconv.Itoa(l.Note),
	}
	if missing := template.Missing(text, vars); len(missing) > 0 {
		return "", fmt.Errorf("instruction text has unset placeholders: %s", strings.Join(missing, ", "))
	}
	return template.Expand(text, vars), nil
}

// Target is one instruction file.
type Target struct {
	Path   string
	Header string
	// Create allows writing a new file when its parent directory exists.
	// Otherwise only existing files are touched.
	Create bool
	// Frontmatter starts newly created files.
	Frontmatter string
}

// LocalTargets returns the per-repository instruction files under dir.
func LocalTargets(dir string) []Target {
	return []Target{
		{Path: filepath.Join(dir, "CLAUDE.md"), Header: sectionHeader},
		{Path: filepath.Join(dir, "AGENTS.md"), Header: sectionHeader},
		{Path: filepath.Join(dir, "GEMINI.md"), Header: sectionHeader},
		{Path: filepath.Join(dir, ".cursor", "rules", "task-management.mdc"), Create: true, Frontmatter: cursorFront},
		{Path: filepath.Join(dir, ".clinerules", "task-management.md"), Header: docHeader, Create: true},
	}
}

// GlobalTargets returns the per-user instruction files under home.
func GlobalTargets(home string) []Target {
	return []Target{
		{Path: filepath.Join(home, ".claude", "CLAUDE.md"), Header: sectionHeader, Create: true},
		{Path: filepath.Join(home, ".codex", "AGENTS.md"), Header: sectionHeader, Create: true},
		{Path: filepath.Join(home, ".gemini", "GEMINI.md"), Header: sectionHeader, Create: true},
		{Path: filepath.Join(home, ".config", "cline", "rules", "task-management.md"), Header: docHeader, Create: true},
		{Path: filepath.Join(home, ".config", "opencode", "AGENTS.md"), Header: sectionHeader, Create: true},
	}
}

// Outcome is what Inject did with a target.
type Outcome int

const (
	Skipped Outcome = iota
	UpToDate
	Injected
)

func (o Outcome) String() string {
	switch o {
	case UpToDate:
		return "up-to-date"
	case Injected:
		return "injected"
	default:
		return "skipped"
	}
}

// Inject adds text to t unless the file already carries Marker. Targets
// that may not be created and do not exist are skipped.
func Inject(t Target, text string) (Outcome, error) {
	existing, err := os.ReadFile(t.Path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Skipped, fmt.Errorf("read %s: %w", t.Path, err)
	}

	if !exists {
		if !t.Create {
			return Skipped, nil
		}
		if _, err := os.Stat(filepath.Dir(t.Path)); err != nil {
			return Skipped, nil
		}
	}

	if exists && bytes.Contains(existing, []byte(Marker)) {
		return UpToDate, nil
	}

	var content []byte
	perm := os.FileMode(0644)
	if exists {
		if info, err := os.Stat(t.Path); err == nil {
			perm = info.Mode().Perm()
		}
		content = append(existing, []byte("\n\n"+t.Header+"\n"+text+"\n")...)
	} else if t.Frontmatter != "" {
		content = []byte(t.Frontmatter + "\n" + t.Header + "\n" + text + "\n")
	} else {
		content = []byte(t.Header + "\n" + text + "\n")
	}

	if err := fsutil.AtomicWrite(t.Path, content, perm); err != nil {
		return Skipped, fmt.Errorf("write %s: %w", t.Path, err)
	}
	logging.Debug("instructions injected", map[string]any{"path": t.Path})
	return Injected, nil
}

// Result summarises a Run.
type Result struct {
	Injected   []string `json:"injected"`
	UpToDate   int      `json:"up_to_date"`
	Candidates []string `json:"candidates"`
}

// Run injects text into every target. Candidates lists the file names of
// targets that must already exist, for hinting when nothing was injected.
func Run(targets []Target, text string) (*Result, error) {
	res := &Result{Injected: []string{}, Candidates: []string{}}
	for _, t := range targets {
		if !t.Create {
			res.Candidates = append(res.Candidates, filepath.Base(t.Path))
		}
		outcome, err := Inject(t, text)
		if err != nil {
			return res, err
		}
		switch outcome {
		case Injected:
			res.Injected = append(res.Injected, t.Path)
		case UpToDate:
			res.UpToDate++
		}
	}
	return res, nil
}
