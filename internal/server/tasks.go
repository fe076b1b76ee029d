package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskgrid/internal/models"
	"taskgrid/internal/tasklist"
)

type taskRequest struct {
	TaskName    *string `json:"taskName"`
	TaskType    *string `json:"taskType"`
	Responsible *string `json:"responsible"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

func (r taskRequest) update() models.TaskUpdate {
	return models.TaskUpdate{
		TaskName:    r.TaskName,
		TaskType:    r.TaskType,
		Responsible: r.Responsible,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// filteredTasks loads all tasks and applies the filter from the query string.
func (s *Server) filteredTasks(c *gin.Context) ([]models.Task, int, bool) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return nil, 0, false
	}

	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return nil, 0, false
	}
	if tasklist.Active(criteria) {
		s.metrics.FilterRequests.Inc()
	}
	return tasklist.Filter(tasks, criteria), len(tasks), true
}

// handleListTasks returns the tasks matching the query filters.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, total, ok := s.filteredTasks(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks, "total": total})
}

// requireEditing rejects task changes outside edit mode.
func (s *Server) requireEditing(c *gin.Context) bool {
	if !s.view.Editing() {
		s.fail(c, tasklist.ErrViewing)
		return false
	}
	return true
}

// handleCreateTask adds a row to the grid.
func (s *Server) handleCreateTask(c *gin.Context) {
	if !s.requireEditing(c) {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), req.update().Apply(models.Task{}))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.TaskChanges.WithLabelValues("create").Inc()
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask changes the supplied fields of a task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	if !s.requireEditing(c) {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), id, req.update())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.TaskChanges.WithLabelValues("update").Inc()
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if !s.requireEditing(c) {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.TaskChanges.WithLabelValues("delete").Inc()
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleExportTasks streams the filtered tasks as a CSV attachment.
func (s *Server) handleExportTasks(c *gin.Context) {
	tasks, _, ok := s.filteredTasks(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+tasklist.ExportFilename+`"`)
	c.Data(http.StatusOK, tasklist.ExportContentType, tasklist.ExportCSV(tasks))

	s.metrics.Exports.Inc()
	s.metrics.ExportedRows.Add(float64(len(tasks)))
}
