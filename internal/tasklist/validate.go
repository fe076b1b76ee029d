package tasklist

import (
	"strings"

	"taskgrid/internal/datemask"
	"taskgrid/internal/models"
)

// MsgTaskNameRequired is the FieldError message for an empty task name.
const MsgTaskNameRequired = "task name must not be empty"

// ReasonRequired marks a missing mandatory field in a FieldError.
const ReasonRequired = "required"

// FieldError describes why a task field was rejected.
type FieldError struct {
	Field   string
	Reason  string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Normalize trims free-text fields, formats both dates and checks them.
// The first offending field is reported as a *FieldError.
func Normalize(t models.Task) (models.Task, error) {
	t.TaskName = strings.TrimSpace(t.TaskName)
	t.TaskType = strings.TrimSpace(t.TaskType)
	t.Responsible = strings.TrimSpace(t.Responsible)

	if t.TaskName == "" {
		return t, &FieldError{Field: "taskName", Reason: ReasonRequired, Message: MsgTaskNameRequired}
	}

	var err error
	if t.StartDate, err = normalizeDate("startDate", t.StartDate); err != nil {
		return t, err
	}
	if t.EndDate, err = normalizeDate("endDate", t.EndDate); err != nil {
		return t, err
	}
	return t, nil
}

func normalizeDate(field, raw string) (string, error) {
	res := datemask.FormatAndValidate(raw)
	if !res.OK() {
		return res.Value, &FieldError{Field: field, Reason: res.Validity.String(), Message: res.Message}
	}
	return res.Value, nil
}
