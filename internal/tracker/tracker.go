// Package tracker is the write path: it validates requests, consults the
// current projection and appends new task events.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/logging"
	"github.com/tasklog/tasklog/pkg/model"
	"github.com/tasklog/tasklog/pkg/taskid"
	"github.com/tasklog/tasklog/pkg/textutil"
)

// Appender persists one event.
type Appender interface {
	Append(ev model.TaskEvent) error
}

// TextValidator checks free text before it is recorded, e.g. its language.
type TextValidator interface {
	Validate(text string) error
}

// Limits caps field lengths in characters. Zero disables a check.
type Limits struct {
	Title       int `json:"title" yaml:"title"`
	Description int `json:"description" yaml:"description"`
	Note        int `json:"note" yaml:"note"`
}

// DefaultLimits matches the lengths agents are told about in the
// instruction snippet.
var DefaultLimits = Limits{Title: 50, Description: 500, Note: 200}

// Options configures a Tracker.
type Options struct {
	Limits Limits
	// Gate, when set, validates title and description on create.
	Gate TextValidator
	// Now overrides the timestamp source.
	Now func() string
	// NewID overrides identity generation.
	NewID func() string
}

// Tracker records task lifecycle events.
type Tracker struct {
	log   Appender
	proj  *projection.Projector
	opts  Options
	now   func() string
	newID func() string
}

// New creates a Tracker that appends to log and reads through proj.
func New(log Appender, proj *projection.Projector, opts Options) *Tracker {
	t := &Tracker{log: log, proj: proj, opts: opts, now: opts.Now, newID: opts.NewID}
	if t.now == nil {
		t.now = func() string { return model.FormatTimestamp(time.Now()) }
	}
	if t.newID == nil {
		t.newID = taskid.New
	}
	return t
}

// CreateRequest describes a new task.
type CreateRequest struct {
	Project     string
	Title       string
	Description string
	Status      string
}

// UpdateRequest describes a status transition. Ref is an id or a unique id
// prefix. A nil Description keeps the current one.
type UpdateRequest struct {
	Ref         string
	Status      string
	Note        string
	Description *string
}

// ListRequest selects tasks. All disables the project filter.
type ListRequest struct {
	Project string
	Status  string
	All     bool
}

// Detail is one task with its full event history.
type Detail struct {
	Task    model.Task        `json:"task"`
	History []model.TaskEvent `json:"history"`
}

// Create validates req and appends the first event of a new task.
func (t *Tracker) Create(req CreateRequest) (model.TaskEvent, error) {
	status := req.Status
	if status == "" {
		status = string(model.StatusTodo)
	}
	if err := validateStatus(status); err != nil {
		return model.TaskEvent{}, err
	}
	for _, f := range [...]struct{ name, value string }{{"title", req.Title}, {"description", req.Description}} {
		if err := textutil.ValidateUTF8(f.name, f.value); err != nil {
			return model.TaskEvent{}, err
		}
	}
	if err := textutil.ValidateRequired("title", req.Title); err != nil {
		return model.TaskEvent{}, err
	}
	if err := textutil.ValidateSingleLine("title", req.Title); err != nil {
		return model.TaskEvent{}, err
	}
	if err := textutil.ValidateLength("title", req.Title, t.opts.Limits.Title); err != nil {
		return model.TaskEvent{}, err
	}
	if err := textutil.ValidateLength("description", req.Description, t.opts.Limits.Description); err != nil {
		return model.TaskEvent{}, err
	}

	if t.opts.Gate != nil {
		if err := t.opts.Gate.Validate(req.Title); err != nil {
			return model.TaskEvent{}, fieldError("title", err)
		}
		if req.Description != "" {
			if err := t.opts.Gate.Validate(req.Description); err != nil {
				return model.TaskEvent{}, fieldError("description", err)
			}
		}
	}

	ev := model.TaskEvent{
		Timestamp:   t.now(),
		ID:          t.newID(),
		Project:     req.Project,
		Status:      model.Status(status),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := t.log.Append(ev); err != nil {
		return model.TaskEvent{}, fmt.Errorf("create task: %w", err)
	}

	logging.Info("task created", map[string]any{"id": ev.ID, "project": ev.Project})
	return ev, nil
}

// Update appends a status transition for an existing task. Project and title
// carry forward from the latest event; the note applies to this event only.
func (t *Tracker) Update(req UpdateRequest) (model.TaskEvent, error) {
	if err := validateStatus(req.Status); err != nil {
		return model.TaskEvent{}, err
	}
	if err := textutil.ValidateUTF8("note", req.Note); err != nil {
		return model.TaskEvent{}, err
	}
	if err := textutil.ValidateLength("note", req.Note, t.opts.Limits.Note); err != nil {
		return model.TaskEvent{}, err
	}
	if req.Description != nil {
		if err := textutil.ValidateUTF8("description", *req.Description); err != nil {
			return model.TaskEvent{}, err
		}
		if err := textutil.ValidateLength("description", *req.Description, t.opts.Limits.Description); err != nil {
			return model.TaskEvent{}, err
		}
	}

	state, err := t.proj.State()
	if err != nil {
		return model.TaskEvent{}, err
	}
	id, err := state.Resolve(req.Ref)
	if err != nil {
		return model.TaskEvent{}, err
	}
	prev, err := state.Latest(id)
	if err != nil {
		return model.TaskEvent{}, err
	}

	description := prev.Description
	if req.Description != nil {
		description = *req.Description
	}

	ev := model.TaskEvent{
		Timestamp:   t.now(),
		ID:          id,
		Project:     prev.Project,
		Status:      model.Status(req.Status),
		Title:       prev.Title,
		Description: description,
		Note:        req.Note,
	}
	if err := t.log.Append(ev); err != nil {
		return model.TaskEvent{}, fmt.Errorf("update task: %w", err)
	}

	logging.Info("task updated", map[string]any{"id": id, "from": string(prev.Status), "to": req.Status})
	return ev, nil
}

// Get returns the projected task for ref and its history.
func (t *Tracker) Get(ref string) (*Detail, error) {
	state, err := t.proj.State()
	if err != nil {
		return nil, err
	}
	id, err := state.Resolve(ref)
	if err != nil {
		return nil, err
	}
	task, err := state.Task(id)
	if err != nil {
		return nil, err
	}
	return &Detail{Task: task, History: state.History(id)}, nil
}

// List returns current tasks matching req in first-seen order.
func (t *Tracker) List(req ListRequest) ([]model.Task, error) {
	f := projection.Filter{Project: req.Project, Status: req.Status}
	if req.All {
		f.Project = ""
	}
	return t.proj.Project(f)
}

// Suggest returns near matches for an unknown reference.
func (t *Tracker) Suggest(ref string, max int) []projection.Suggestion {
	state, err := t.proj.State()
	if err != nil {
		return nil
	}
	return state.Suggest(ref, max)
}

// AddToken is the line printed after a successful create.
func AddToken(ev model.TaskEvent) string {
	return "TASK_ADD_" + ev.ID
}

// StatusToken is the line printed after a successful update.
func StatusToken(ev model.TaskEvent) string {
	return fmt.Sprintf("TASK_%s_%s", strings.ToUpper(string(ev.Status)), ev.ID)
}

func validateStatus(status string) error {
	if model.Status(status).IsKnown() {
		return nil
	}
	names := make([]string, len(model.KnownStatuses))
	for i, s := range model.KnownStatuses {
		names[i] = string(s)
	}
	return errclass.ErrStatusInvalid.WithMessagef("unknown status '%s' (valid: %s)", status, strings.Join(names, ", "))
}

// fieldError prefixes a validator error's message with the field it rejected.
func fieldError(field string, err error) error {
	if te, ok := err.(*errclass.TaskError); ok {
		return te.WithMessagef("%s %s", field, te.Message)
	}
	return fmt.Errorf("%s %w", field, err)
}
