package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"taskgrid/internal/models"
)

var (
	// ErrInvalid is returned for missing or malformed catalog values.
	ErrInvalid = errors.New("invalid task type")
	// ErrDuplicate is returned when a task type code already exists.
	ErrDuplicate = errors.New("task type already exists")
	// ErrReservedCode is returned for the code used as the "all types" filter key.
	ErrReservedCode = errors.New("task type code is reserved")
	// ErrTaskTypeInUse is returned when deleting a type still referenced by tasks.
	ErrTaskTypeInUse = errors.New("task type is used by existing tasks")
)

// ListTaskTypes returns the catalog ordered by code.
func (s *Store) ListTaskTypes(ctx context.Context) ([]models.TaskType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name, created_at, updated_at FROM task_types ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("list task types: %w", err)
	}
	defer rows.Close()

	types := []models.TaskType{}
	for rows.Next() {
		var tt models.TaskType
		if err := rows.Scan(&tt.Code, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task type: %w", err)
		}
		types = append(types, tt)
	}
	return types, rows.Err()
}

// GetTaskType fetches a single task type by code.
func (s *Store) GetTaskType(ctx context.Context, code string) (models.TaskType, error) {
	var tt models.TaskType
	err := s.db.QueryRowContext(ctx, `SELECT code, name, created_at, updated_at FROM task_types WHERE code = ?`, code).
		Scan(&tt.Code, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskType{}, fmt.Errorf("task type %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return models.TaskType{}, fmt.Errorf("get task type: %w", err)
	}
	return tt, nil
}

// CreateTaskType adds a catalog entry.
func (s *Store) CreateTaskType(ctx context.Context, code, name string) (models.TaskType, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return models.TaskType{}, fmt.Errorf("%w: code and name must not be empty", ErrInvalid)
	}
	if code == models.AllTaskTypes {
		return models.TaskType{}, fmt.Errorf("code %q: %w", code, ErrReservedCode)
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO task_types(code, name) VALUES(?, ?)`, code, name); err != nil {
		if isConstraint(err) {
			return models.TaskType{}, fmt.Errorf("code %q: %w", code, ErrDuplicate)
		}
		return models.TaskType{}, fmt.Errorf("insert task type: %w", err)
	}
	return s.GetTaskType(ctx, code)
}

// UpdateTaskType renames a catalog entry.
func (s *Store) UpdateTaskType(ctx context.Context, code, name string) (models.TaskType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.TaskType{}, fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE task_types SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`, name, code)
	if err != nil {
		return models.TaskType{}, fmt.Errorf("update task type: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.TaskType{}, err
	}
	if affected == 0 {
		return models.TaskType{}, fmt.Errorf("task type %q: %w", code, ErrNotFound)
	}
	return s.GetTaskType(ctx, code)
}

// DeleteTaskType removes an unused catalog entry.
func (s *Store) DeleteTaskType(ctx context.Context, code string) error {
	var used int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE task_type = ?`, code).Scan(&used); err != nil {
		return fmt.Errorf("count tasks of type: %w", err)
	}
	if used > 0 {
		return fmt.Errorf("task type %q: %w", code, ErrTaskTypeInUse)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM task_types WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete task type: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task type %q: %w", code, ErrNotFound)
	}
	return nil
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
