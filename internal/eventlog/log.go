// Package eventlog persists task events as an append-only JSONL file.
//
// Records are never rewritten or removed. Appends rely on O_APPEND with a
// single write per line; readers skip any line that does not decode, which
// covers partial lines observed while another process is appending.
package eventlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/logging"
	"github.com/tasklog/tasklog/pkg/model"
)

// Record is the outcome of reading one non-blank log line: either a decoded
// event or a skipped line with the reason it was rejected.
type Record struct {
	Line    int
	Event   model.TaskEvent
	Skipped bool
	Reason  error
}

// Log is a handle on one task log file.
type Log struct {
	path string
	mu   sync.Mutex
}

// New creates a Log for path. Nothing is touched on disk until the first Append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Append adds ev as a new line at the end of the log, creating the file and
// its parent directory when absent.
func (l *Log) Append(ev model.TaskEvent) error {
	line, err := Encode(ev)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errclass.ErrLogIO.WithMessagef("create log dir: %v", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errclass.ErrLogIO.WithMessagef("open task log: %v", err)
	}
	defer file.Close()

	// One write per record keeps concurrent appenders line-atomic.
	if _, err := file.Write(append(line, '\n')); err != nil {
		return errclass.ErrLogIO.WithMessagef("write task event: %v", err)
	}
	if err := file.Sync(); err != nil {
		return errclass.ErrLogIO.WithMessagef("sync task log: %v", err)
	}

	logging.Debug("task event appended", map[string]any{"id": ev.ID, "status": string(ev.Status)})
	return nil
}

// ReadAll returns every decodable event in append order. Malformed lines are
// dropped. A missing log reads as empty.
func (l *Log) ReadAll() ([]model.TaskEvent, error) {
	events, _, err := l.ReadEvents()
	return events, err
}

// ReadEvents is ReadAll that also reports how many malformed lines were
// dropped.
func (l *Log) ReadEvents() (events []model.TaskEvent, skipped int, err error) {
	records, err := l.Records()
	if err != nil {
		return nil, 0, err
	}

	events = make([]model.TaskEvent, 0, len(records))
	for _, r := range records {
		if r.Skipped {
			skipped++
			continue
		}
		events = append(events, r.Event)
	}
	return events, skipped, nil
}

// Records returns one Record per non-blank line in file order.
func (l *Log) Records() ([]Record, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, errclass.ErrLogIO.WithMessagef("open task log: %v", err)
	}
	defer file.Close()

	records, err := scan(file)
	if err != nil {
		return nil, errclass.ErrLogIO.WithMessagef("read task log: %v", err)
	}
	return records, nil
}

// scan reads lines with bufio.Reader rather than bufio.Scanner so that lines
// of any length and a final unterminated line are handled.
func scan(r io.Reader) ([]Record, error) {
	var records []Record
	br := bufio.NewReader(r)
	lineNo := 0

	for {
		raw, err := br.ReadBytes('\n')
		if len(raw) > 0 {
			lineNo++
			if rec, ok := decodeLine(lineNo, raw); ok {
				records = append(records, rec)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func decodeLine(lineNo int, raw []byte) (Record, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Record{}, false
	}

	ev, err := Decode(trimmed)
	if err != nil {
		logging.Debug("skip malformed task record", map[string]any{"line": lineNo, "error": err.Error()})
		return Record{Line: lineNo, Skipped: true, Reason: err}, true
	}
	return Record{Line: lineNo, Event: ev}, true
}
