package eventlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/model"
)

// wireEvent mirrors model.TaskEvent with pointer fields so Decode can tell a
// missing key from an empty string.
type wireEvent struct {
	Timestamp   *string `json:"ts"`
	ID          *string `json:"id"`
	Project     *string `json:"project"`
	Status      *string `json:"status"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Note        *string `json:"note"`
}

// Encode serializes ev as a single JSON object without a trailing newline.
// String fields are escaped, so the result never contains a raw newline.
// Fields holding invalid UTF-8 are rejected with errclass.ErrRecordMalformed
// rather than written in a lossy form.
func Encode(ev model.TaskEvent) ([]byte, error) {
	fields := [...]struct{ key, value string }{
		{"ts", ev.Timestamp},
		{"id", ev.ID},
		{"project", ev.Project},
		{"status", string(ev.Status)},
		{"title", ev.Title},
		{"description", ev.Description},
		{"note", ev.Note},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return nil, errclass.ErrRecordMalformed.WithMessagef("field %q is not valid UTF-8", f.key)
		}
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal task event: %w", err)
	}
	return line, nil
}

// Decode parses one log line. Every field must be present and a string;
// unknown keys are ignored. Failures wrap errclass.ErrRecordMalformed.
func Decode(line []byte) (model.TaskEvent, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return model.TaskEvent{}, errclass.ErrRecordMalformed.WithMessage("not a JSON object")
	}

	var w wireEvent
	if err := json.Unmarshal(line, &w); err != nil {
		return model.TaskEvent{}, errclass.ErrRecordMalformed.WithMessage(err.Error())
	}

	missing := ""
	switch {
	case w.Timestamp == nil:
		missing = "ts"
	case w.ID == nil:
		missing = "id"
	case w.Project == nil:
		missing = "project"
	case w.Status == nil:
		missing = "status"
	case w.Title == nil:
		missing = "title"
	case w.Description == nil:
		missing = "description"
	case w.Note == nil:
		missing = "note"
	}
	if missing != "" {
		return model.TaskEvent{}, errclass.ErrRecordMalformed.WithMessagef("missing field %q", missing)
	}

	return model.TaskEvent{
		Timestamp:   *w.Timestamp,
		ID:          *w.ID,
		Project:     *w.Project,
		Status:      model.Status(*w.Status),
		Title:       *w.Title,
		Description: *w.Description,
		Note:        *w.Note,
	}, nil
}
