package model

// Task is the projected current state of one identity.
//
// Project, Status, Title and Description come from the latest event.
// CreatedAt is the timestamp of the first event, UpdatedAt that of the latest.
// Notes are per-event and never part of a Task.
type Task struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	Status      Status `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Events      int    `json:"events"`
}
