package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskgrid/internal/models"
)

type modeRequest struct {
	EditMode *bool `json:"editMode"`
}

// handleGetView returns the mode, column visibility and allowed actions.
func (s *Server) handleGetView(c *gin.Context) {
	respondSuccess(c, http.StatusOK, s.view.State())
}

// handleSetMode toggles edit mode.
func (s *Server) handleSetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.EditMode == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "editMode is required"})
		return
	}

	state, err := s.view.SetEditMode(c.Request.Context(), *req.EditMode)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, state)
}

// handleSetColumns applies the settings dialog. Columns omitted from the
// body are shown.
func (s *Server) handleSetColumns(c *gin.Context) {
	columns := models.AllColumns()
	if err := c.ShouldBindJSON(&columns); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	state, err := s.view.SetColumns(c.Request.Context(), columns)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, state)
}
