package projection

import (
	"fmt"

	"github.com/tasklog/tasklog/pkg/model"
)

// EventSource supplies the full event sequence in log order.
type EventSource interface {
	ReadAll() ([]model.TaskEvent, error)
}

// Projector answers state queries by re-reading its source on every call.
type Projector struct {
	src EventSource
}

// New creates a Projector over src.
func New(src EventSource) *Projector {
	return &Projector{src: src}
}

// State folds the current contents of the source.
func (p *Projector) State() (*State, error) {
	events, err := p.src.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return Fold(events), nil
}

// Project returns the current tasks matching f in first-seen order.
func (p *Projector) Project(f Filter) ([]model.Task, error) {
	s, err := p.State()
	if err != nil {
		return nil, err
	}
	return s.Tasks(f), nil
}

// Latest returns the most recent event for id.
func (p *Projector) Latest(id string) (model.TaskEvent, error) {
	s, err := p.State()
	if err != nil {
		return model.TaskEvent{}, err
	}
	return s.Latest(id)
}

// History returns every event for id in append order.
func (p *Projector) History(id string) ([]model.TaskEvent, error) {
	s, err := p.State()
	if err != nil {
		return nil, err
	}
	return s.History(id), nil
}

// Exists reports whether id has been recorded.
func (p *Projector) Exists(id string) (bool, error) {
	s, err := p.State()
	if err != nil {
		return false, err
	}
	return s.Exists(id), nil
}

// Resolve maps an id or unique id prefix to a full id.
func (p *Projector) Resolve(ref string) (string, error) {
	s, err := p.State()
	if err != nil {
		return "", err
	}
	return s.Resolve(ref)
}
