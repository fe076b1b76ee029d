package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type taskTypeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// handleListTaskTypes returns the options of the task type select.
func (s *Server) handleListTaskTypes(c *gin.Context) {
	types, err := s.store.ListTaskTypes(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"taskTypes": types})
}

// handleCreateTaskType adds a catalog entry.
func (s *Server) handleCreateTaskType(c *gin.Context) {
	var req taskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	tt, err := s.store.CreateTaskType(c.Request.Context(), req.Code, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"taskType": tt})
}

// handleUpdateTaskType renames a catalog entry.
func (s *Server) handleUpdateTaskType(c *gin.Context) {
	var req taskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	tt, err := s.store.UpdateTaskType(c.Request.Context(), c.Param("code"), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"taskType": tt})
}

// handleDeleteTaskType removes a catalog entry no task refers to.
func (s *Server) handleDeleteTaskType(c *gin.Context) {
	if err := s.store.DeleteTaskType(c.Request.Context(), c.Param("code")); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
