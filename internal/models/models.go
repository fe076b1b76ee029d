package models

import "time"

// Task represents a single row of the task grid.
type Task struct {
	ID          int64     `json:"id"`
	TaskName    string    `json:"taskName"`
	TaskType    string    `json:"taskType"`
	Responsible string    `json:"responsible"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskType is an entry of the task type catalog shown in the type select.
type TaskType struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllTaskTypes is the select key meaning "do not filter by type".
const AllTaskTypes = "0"

// FilterCriteria holds the optional grid filters. An empty field is not applied.
type FilterCriteria struct {
	TaskName    string `form:"taskName" json:"taskName,omitempty"`
	TaskType    string `form:"taskType" json:"taskType,omitempty"`
	Responsible string `form:"responsible" json:"responsible,omitempty"`
	StartDate   string `form:"startDate" json:"startDate,omitempty"`
	EndDate     string `form:"endDate" json:"endDate,omitempty"`
}

// ColumnVisibility controls which grid columns are displayed.
type ColumnVisibility struct {
	TaskName    bool `json:"taskName"`
	TaskType    bool `json:"taskType"`
	Responsible bool `json:"responsible"`
	StartDate   bool `json:"startDate"`
	EndDate     bool `json:"endDate"`
}

// AllColumns returns a visibility set with every column shown.
func AllColumns() ColumnVisibility {
	return ColumnVisibility{
		TaskName:    true,
		TaskType:    true,
		Responsible: true,
		StartDate:   true,
		EndDate:     true,
	}
}

// ViewMode is the grid-wide interaction mode.
type ViewMode string

const (
	Viewing ViewMode = "viewing"
	Editing ViewMode = "editing"
)

// TaskUpdate carries a partial task change. Nil fields are left untouched.
type TaskUpdate struct {
	TaskName    *string `json:"taskName"`
	TaskType    *string `json:"taskType"`
	Responsible *string `json:"responsible"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// Apply returns t with the non-nil fields of u applied.
func (u TaskUpdate) Apply(t Task) Task {
	if u.TaskName != nil {
		t.TaskName = *u.TaskName
	}
	if u.TaskType != nil {
		t.TaskType = *u.TaskType
	}
	if u.Responsible != nil {
		t.Responsible = *u.Responsible
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		t.EndDate = *u.EndDate
	}
	return t
}
