// Package doctor diagnoses the task log and its side files.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tasklog/tasklog/internal/eventlog"
	"github.com/tasklog/tasklog/internal/langgate"
	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/pkg/fsutil"
	"github.com/tasklog/tasklog/pkg/model"
	"github.com/tasklog/tasklog/pkg/taskid"
)

// Severities, in increasing order.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// maxLinesListed caps the line numbers quoted in one finding.
const maxLinesListed = 10

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
	Lines       []int  `json:"lines,omitempty"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Events   int       `json:"events"`
	Tasks    int       `json:"tasks"`
	Findings []Finding `json:"findings"`
}

// RecordSource reads the log with per-line outcomes.
type RecordSource interface {
	Path() string
	Records() ([]eventlog.Record, error)
}

// Doctor performs task log health checks.
type Doctor struct {
	log      RecordSource
	langPath string
}

// NewDoctor creates a doctor for log. langPath may be empty.
func NewDoctor(log RecordSource, langPath string) *Doctor {
	return &Doctor{log: log, langPath: langPath}
}

// Check runs all diagnostic checks. Critical findings make the result
// unhealthy; with strict, warnings do too and timestamps are parsed.
func (d *Doctor) Check(strict bool) (*Result, error) {
	result := &Result{Healthy: true, Findings: []Finding{}}

	records, err := d.log.Records()
	if err != nil {
		result.add(Finding{
			Category:    "log",
			Description: fmt.Sprintf("task log unreadable: %v", err),
			Severity:    SeverityCritical,
			Path:        d.log.Path(),
		})
	} else {
		state := d.checkRecords(result, records, strict)
		d.checkLangEntries(result, state)
	}

	d.checkOrphanTmp(result)

	for _, f := range result.Findings {
		if f.Severity == SeverityCritical || (strict && f.Severity == SeverityWarning) {
			result.Healthy = false
		}
	}
	return result, nil
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
}

func (d *Doctor) checkRecords(result *Result, records []eventlog.Record, strict bool) *projection.State {
	var malformed, badTime []int
	var events []model.TaskEvent
	unknownStatus := map[string][]int{}
	foreignIDs := map[string]bool{}

	for _, r := range records {
		if r.Skipped {
			malformed = append(malformed, r.Line)
			continue
		}
		ev := r.Event
		events = append(events, ev)
		if !ev.Status.IsKnown() {
			unknownStatus[string(ev.Status)] = append(unknownStatus[string(ev.Status)], r.Line)
		}
		if !taskid.Valid(ev.ID) {
			foreignIDs[ev.ID] = true
		}
		if strict {
			if _, err := ev.Time(); err != nil {
				badTime = append(badTime, r.Line)
			}
		}
	}
	state := projection.Fold(events)
	result.Events = state.EventCount()
	result.Tasks = state.Len()

	if len(malformed) > 0 {
		result.add(Finding{
			Category:    "record",
			Description: fmt.Sprintf("%d malformed line(s) skipped: %s", len(malformed), formatLines(malformed)),
			Severity:    SeverityWarning,
			Path:        d.log.Path(),
			Lines:       malformed,
		})
	}

	statuses := make([]string, 0, len(unknownStatus))
	for s := range unknownStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		lines := unknownStatus[s]
		result.add(Finding{
			Category:    "status",
			Description: fmt.Sprintf("unknown status %q on %d event(s): %s", s, len(lines), formatLines(lines)),
			Severity:    SeverityInfo,
			Path:        d.log.Path(),
			Lines:       lines,
		})
	}

	if len(foreignIDs) > 0 {
		list := make([]string, 0, len(foreignIDs))
		for id := range foreignIDs {
			list = append(list, id)
		}
		sort.Strings(list)
		result.add(Finding{
			Category:    "id",
			Description: fmt.Sprintf("%d id(s) not in 8-hex form: %s", len(list), strings.Join(list, ", ")),
			Severity:    SeverityInfo,
			Path:        d.log.Path(),
		})
	}

	if len(badTime) > 0 {
		result.add(Finding{
			Category:    "timestamp",
			Description: fmt.Sprintf("%d event(s) with unparsable timestamp: %s", len(badTime), formatLines(badTime)),
			Severity:    SeverityInfo,
			Path:        d.log.Path(),
			Lines:       badTime,
		})
	}
	return state
}

// checkLangEntries reports language settings for projects without tasks,
// usually left over from a renamed remote or a mistyped --project.
func (d *Doctor) checkLangEntries(result *Result, state *projection.State) {
	if d.langPath == "" {
		return
	}
	active := map[string]bool{}
	for _, t := range state.Tasks(projection.Filter{}) {
		active[t.Project] = true
	}
	for _, p := range langgate.NewStore(d.langPath).Projects() {
		if active[p] {
			continue
		}
		result.add(Finding{
			Category:    "lang",
			Description: fmt.Sprintf("language set for project %q which has no tasks", p),
			Severity:    SeverityInfo,
			Path:        d.langPath,
		})
	}
}

// checkOrphanTmp reports temp files left behind by interrupted atomic writes
// next to the log and the language settings.
func (d *Doctor) checkOrphanTmp(result *Result) {
	dirs := []string{filepath.Dir(d.log.Path())}
	if d.langPath != "" && filepath.Dir(d.langPath) != dirs[0] {
		dirs = append(dirs, filepath.Dir(d.langPath))
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !fsutil.IsTmpName(e.Name()) {
				continue
			}
			result.add(Finding{
				Category:    "tmp",
				Description: fmt.Sprintf("orphan temp file: %s", e.Name()),
				Severity:    SeverityWarning,
				Path:        filepath.Join(dir, e.Name()),
			})
		}
	}
}

func formatLines(lines []int) string {
	parts := make([]string, 0, maxLinesListed)
	for i, l := range lines {
		if i == maxLinesListed {
			parts = append(parts, fmt.Sprintf("… (%d more)", len(lines)-maxLinesListed))
			break
		}
		parts = append(parts, fmt.Sprintf("%d", l))
	}
	return "line " + strings.Join(parts, ", ")
}
