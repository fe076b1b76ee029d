// Package seed fills an empty store with task types and sample tasks from a
// YAML document.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"taskgrid/internal/models"
)

// Data is the seed document layout.
type Data struct {
	TaskTypes []TaskType `yaml:"task_types"`
	Tasks     []Task     `yaml:"tasks"`
}

// TaskType is one catalog entry of the seed document.
type TaskType struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Task is one task row of the seed document.
type Task struct {
	TaskName    string `yaml:"task_name"`
	TaskType    string `yaml:"task_type"`
	Responsible string `yaml:"responsible"`
	StartDate   string `yaml:"start_date"`
	EndDate     string `yaml:"end_date"`
}

// Defaults is used when no seed file is configured.
var Defaults = Data{
	TaskTypes: []TaskType{
		{Code: "1", Name: "Development"},
		{Code: "2", Name: "Testing"},
		{Code: "3", Name: "Documentation"},
	},
}

// Target is the subset of the store the seeder writes to.
type Target interface {
	ListTaskTypes(ctx context.Context) ([]models.TaskType, error)
	CreateTaskType(ctx context.Context, code, name string) (models.TaskType, error)
	CountTasks(ctx context.Context) (int, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
}

// Decode parses a seed document. Unknown keys are rejected.
func Decode(r io.Reader) (Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Data{}, fmt.Errorf("decode seed: %w", err)
	}
	return d, nil
}

// LoadFile reads and decodes the seed file at path.
func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Apply writes d into the target. Task types are only added to an empty
// catalog and tasks only to an empty task list, so restarting against a
// persistent database does not duplicate rows.
func Apply(ctx context.Context, target Target, d Data, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	types, err := target.ListTaskTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		for _, tt := range d.TaskTypes {
			if _, err := target.CreateTaskType(ctx, tt.Code, tt.Name); err != nil {
				return fmt.Errorf("seed task type %q: %w", tt.Code, err)
			}
		}
		logger.Info("seeded task types", slog.Int("count", len(d.TaskTypes)))
	}

	count, err := target.CountTasks(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i, t := range d.Tasks {
		_, err := target.CreateTask(ctx, models.Task{
			TaskName:    t.TaskName,
			TaskType:    t.TaskType,
			Responsible: t.Responsible,
			StartDate:   t.StartDate,
			EndDate:     t.EndDate,
		})
		if err != nil {
			return fmt.Errorf("seed task #%d: %w", i+1, err)
		}
	}
	if len(d.Tasks) > 0 {
		logger.Info("seeded tasks", slog.Int("count", len(d.Tasks)))
	}
	return nil
}
