package model

import "time"

// TimestampLayout is the on-disk timestamp format: RFC 3339 with the local
// UTC offset, second precision.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Status is a task lifecycle label.
type Status string

const (
	StatusInbox    Status = "inbox"
	StatusTodo     Status = "todo"
	StatusDoing    Status = "doing"
	StatusBlocked  Status = "blocked"
	StatusInReview Status = "inreview"
	StatusDone     Status = "done"
)

// KnownStatuses lists the statuses the write path accepts, in lifecycle order.
var KnownStatuses = []Status{
	StatusInbox,
	StatusTodo,
	StatusDoing,
	StatusBlocked,
	StatusInReview,
	StatusDone,
}

// IsKnown reports whether s is one of KnownStatuses.
func (s Status) IsKnown() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// TaskEvent is a single line in the task log (JSONL format).
// Project is the owning scope of the task.
type TaskEvent struct {
	Timestamp   string `json:"ts"`
	ID          string `json:"id"`
	Project     string `json:"project"`
	Status      Status `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Note        string `json:"note"`
}

// Time parses the event timestamp.
func (e TaskEvent) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, e.Timestamp)
}

// FormatTimestamp renders t in the on-disk layout using the local zone.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
