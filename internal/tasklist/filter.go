// Package tasklist holds the grid logic that does not depend on transport or
// storage: filtering, CSV export and the edit/view state.
package tasklist

import (
	"strings"

	"taskgrid/internal/models"
)

type predicate func(models.Task) bool

func contains(field func(models.Task) string, substr string) predicate {
	return func(t models.Task) bool {
		return strings.Contains(field(t), substr)
	}
}

// predicates builds the active filters. Empty criteria and the all-types
// sentinel are skipped.
func predicates(c models.FilterCriteria) []predicate {
	var preds []predicate
	if c.TaskName != "" {
		preds = append(preds, contains(func(t models.Task) string { return t.TaskName }, c.TaskName))
	}
	if c.Responsible != "" {
		preds = append(preds, contains(func(t models.Task) string { return t.Responsible }, c.Responsible))
	}
	if c.TaskType != "" && c.TaskType != models.AllTaskTypes {
		preds = append(preds, contains(func(t models.Task) string { return t.TaskType }, c.TaskType))
	}
	if c.StartDate != "" {
		preds = append(preds, contains(func(t models.Task) string { return t.StartDate }, c.StartDate))
	}
	if c.EndDate != "" {
		preds = append(preds, contains(func(t models.Task) string { return t.EndDate }, c.EndDate))
	}
	return preds
}

// Active reports whether any criterion would restrict the result.
func Active(c models.FilterCriteria) bool {
	return len(predicates(c)) > 0
}

// Filter returns the tasks matching every active criterion, in input order.
// Matching is a case-sensitive substring test. With no active criteria the
// input slice is returned as is.
func Filter(tasks []models.Task, c models.FilterCriteria) []models.Task {
	preds := predicates(c)
	if len(preds) == 0 {
		return tasks
	}

	out := make([]models.Task, 0, len(tasks))
next:
	for _, t := range tasks {
		for _, p := range preds {
			if !p(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}
