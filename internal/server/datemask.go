package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskgrid/internal/datemask"
)

type dateMaskRequest struct {
	Value string `json:"value"`
	// Keystroke applies a single input event instead of formatting the
	// whole value.
	Keystroke bool `json:"keystroke"`
}

// handleDateMask formats and validates a date field value.
func (s *Server) handleDateMask(c *gin.Context) {
	var req dateMaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	var res datemask.Result
	if req.Keystroke {
		res.Value = datemask.Mask(req.Value)
		res.Validity, res.Message = datemask.Validate(res.Value)
	} else {
		res = datemask.FormatAndValidate(req.Value)
	}
	s.metrics.DateChecks.WithLabelValues(res.Validity.String()).Inc()

	if res.Message != "" {
		res.Message = s.tr.Translate(c.GetHeader("Accept-Language"), res.Message)
	}
	respondSuccess(c, http.StatusOK, res)
}
