package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskgrid/internal/i18n"
)

// handleHello renders the greeting of the hello dialog.
func (s *Server) handleHello(c *gin.Context) {
	recipient := c.DefaultQuery("recipient", "World")
	lang := c.GetHeader("Accept-Language")
	respondSuccess(c, http.StatusOK, gin.H{
		"message":  s.tr.Translate(lang, i18n.Greeting, recipient),
		"language": s.tr.Language(lang).String(),
	})
}
