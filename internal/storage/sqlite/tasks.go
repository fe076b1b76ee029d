package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"taskgrid/internal/models"
	"taskgrid/internal/tasklist"
)

// MsgUnknownTaskType is the FieldError message for a type missing from the catalog.
const MsgUnknownTaskType = "unknown task type"

const taskColumns = `id, task_name, task_type, responsible, start_date, end_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.TaskName, &t.TaskType, &t.Responsible, &t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CreateTask validates and inserts a new task. Dates are stored in their
// formatted DD.MM.YYYY form.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	t, err := s.prepareTask(ctx, t)
	if err != nil {
		return models.Task{}, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(task_name, task_type, responsible, start_date, end_date) VALUES(?, ?, ?, ?, ?)`,
		t.TaskName, t.TaskType, t.Responsible, t.StartDate, t.EndDate)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	s.logger.Debug("task created", slog.Int64("id", id))
	return s.GetTask(ctx, id)
}

// UpdateTask applies a partial change to a task and validates the result.
func (s *Store) UpdateTask(ctx context.Context, id int64, changes models.TaskUpdate) (models.Task, error) {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	t, err := s.prepareTask(ctx, changes.Apply(current))
	if err != nil {
		return models.Task{}, err
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET task_name = ?, task_type = ?, responsible = ?, start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.TaskName, t.TaskType, t.Responsible, t.StartDate, t.EndDate, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountTasks returns the number of stored tasks.
func (s *Store) CountTasks(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// prepareTask normalises the task and checks that its type exists.
func (s *Store) prepareTask(ctx context.Context, t models.Task) (models.Task, error) {
	t, err := tasklist.Normalize(t)
	if err != nil {
		return models.Task{}, err
	}
	if t.TaskType == "" {
		return t, nil
	}

	if _, err := s.GetTaskType(ctx, t.TaskType); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Task{}, &tasklist.FieldError{
				Field:   "taskType",
				Reason:  "unknown",
				Message: MsgUnknownTaskType,
			}
		}
		return models.Task{}, err
	}
	return t, nil
}
