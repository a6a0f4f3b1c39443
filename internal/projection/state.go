// Package projection folds the task event log into current state.
//
// The latest event per identity supplies every projected field; the first
// event supplies the list position and creation time. Notes stay on events.
package projection

import (
	"sort"
	"strings"

	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/model"
)

// MinPrefix is the shortest id prefix Resolve accepts.
const MinPrefix = 4

// Filter selects tasks by exact, case-sensitive match against their latest
// event. An empty field matches everything.
type Filter struct {
	Project string
	Status  string
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Task) bool {
	if f.Project != "" && t.Project != f.Project {
		return false
	}
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	return true
}

type entry struct {
	first   int
	history []model.TaskEvent
}

func (e *entry) latest() model.TaskEvent {
	return e.history[len(e.history)-1]
}

func (e *entry) task() model.Task {
	last := e.latest()
	return model.Task{
		ID:          last.ID,
		Project:     last.Project,
		Status:      last.Status,
		Title:       last.Title,
		Description: last.Description,
		CreatedAt:   e.history[0].Timestamp,
		UpdatedAt:   last.Timestamp,
		Events:      len(e.history),
	}
}

// State is the result of one fold over the log.
type State struct {
	byID  map[string]*entry
	order []string
	total int
}

// Fold builds State from events in log order. Later positions win, including
// events that share a timestamp.
func Fold(events []model.TaskEvent) *State {
	s := &State{byID: make(map[string]*entry)}
	for _, ev := range events {
		e, ok := s.byID[ev.ID]
		if !ok {
			e = &entry{first: len(s.order)}
			s.byID[ev.ID] = e
			s.order = append(s.order, ev.ID)
		}
		e.history = append(e.history, ev)
		s.total++
	}
	return s
}

// Len returns the number of distinct identities.
func (s *State) Len() int {
	return len(s.order)
}

// EventCount returns the number of events folded.
func (s *State) EventCount() int {
	return s.total
}

// Tasks returns the projected tasks matching f in first-seen order.
func (s *State) Tasks(f Filter) []model.Task {
	tasks := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		t := s.byID[id].task()
		if f.Match(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Task returns the projected task for id.
func (s *State) Task(id string) (model.Task, error) {
	e, ok := s.byID[id]
	if !ok {
		return model.Task{}, notFound(id)
	}
	return e.task(), nil
}

// Latest returns the most recent event for id.
func (s *State) Latest(id string) (model.TaskEvent, error) {
	e, ok := s.byID[id]
	if !ok {
		return model.TaskEvent{}, notFound(id)
	}
	return e.latest(), nil
}

// History returns every event for id in append order, or an empty slice.
func (s *State) History(id string) []model.TaskEvent {
	e, ok := s.byID[id]
	if !ok {
		return []model.TaskEvent{}
	}
	out := make([]model.TaskEvent, len(e.history))
	copy(out, e.history)
	return out
}

// Exists reports whether any event carries id.
func (s *State) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Resolve maps ref to a full id: an exact match first, then a unique prefix
// of at least MinPrefix characters.
func (s *State) Resolve(ref string) (string, error) {
	if _, ok := s.byID[ref]; ok {
		return ref, nil
	}
	if len(ref) < MinPrefix {
		return "", notFound(ref)
	}

	var matches []string
	for _, id := range s.order {
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", notFound(ref)
	case 1:
		return matches[0], nil
	default:
		return "", errclass.ErrIDAmbiguous.WithMessagef("id prefix '%s' matches %d tasks: %s",
			ref, len(matches), strings.Join(matches, ", "))
	}
}

// Suggestion is a near match for an unknown reference.
type Suggestion struct {
	Task  model.Task
	Score int
}

// Suggest returns up to max tasks that resemble ref, best first.
func (s *State) Suggest(ref string, max int) []Suggestion {
	if ref == "" || max <= 0 {
		return nil
	}
	refLower := strings.ToLower(ref)

	var out []Suggestion
	for _, id := range s.order {
		t := s.byID[id].task()
		if score := scoreMatch(t, ref, refLower); score > 0 {
			out = append(out, Suggestion{Task: t, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// scoreMatch ranks how well t matches ref. Zero means no match.
func scoreMatch(t model.Task, ref, refLower string) int {
	titleLower := strings.ToLower(t.Title)
	switch {
	case strings.HasPrefix(t.ID, ref):
		return 900
	case strings.HasPrefix(ref, t.ID):
		return 800
	case titleLower == refLower:
		return 600
	case strings.HasPrefix(titleLower, refLower):
		return 500
	case strings.Contains(titleLower, refLower):
		return 100
	case strings.Contains(t.ID, ref):
		return 50
	case len(ref) >= 2 && strings.HasPrefix(t.ID, ref[:2]):
		return 10
	}
	return 0
}

func notFound(id string) error {
	return errclass.ErrTaskNotFound.WithMessagef("task '%s' not found", id)
}
