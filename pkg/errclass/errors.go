package errclass

import "fmt"

// TaskError is a stable, machine-readable error class.
type TaskError struct {
	Code    string
	Message string
}

func (e *TaskError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TaskError) Is(target error) bool {
	t, ok := target.(*TaskError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new TaskError with the same Code but a specific message.
func (e *TaskError) WithMessage(msg string) *TaskError {
	return &TaskError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new TaskError with a formatted message.
func (e *TaskError) WithMessagef(format string, args ...any) *TaskError {
	return &TaskError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Stable error classes.
var (
	ErrTaskNotFound    = &TaskError{Code: "E_TASK_NOT_FOUND"}
	ErrIDAmbiguous     = &TaskError{Code: "E_ID_AMBIGUOUS"}
	ErrRecordMalformed = &TaskError{Code: "E_RECORD_MALFORMED"}
	ErrLogIO           = &TaskError{Code: "E_LOG_IO"}
	ErrStatusInvalid   = &TaskError{Code: "E_STATUS_INVALID"}
	ErrFieldInvalid    = &TaskError{Code: "E_FIELD_INVALID"}
	ErrLangUnsupported = &TaskError{Code: "E_LANG_UNSUPPORTED"}
	ErrLangMismatch    = &TaskError{Code: "E_LANG_MISMATCH"}
	ErrConfigInvalid   = &TaskError{Code: "E_CONFIG_INVALID"}
)
