package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// webappDirs are the bundle folders served as-is when present.
var webappDirs = []string{"assets", "controller", "view", "i18n", "css"}

// mountStatic serves the compiled grid frontend from the configured directory.
func (s *Server) mountStatic() {
	if s.staticDir == "" {
		s.logger.Warn("static directory not configured; API only mode")
		return
	}

	info, err := os.Stat(s.staticDir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", "path", s.staticDir, "error", err)
		return
	}

	indexPath := filepath.Join(s.staticDir, "index.html")
	if !exists(indexPath) {
		s.logger.Warn("index.html not found", "path", indexPath)
	} else {
		s.engine.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})
		s.engine.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
				return
			}
			c.File(indexPath)
		})
	}

	for _, name := range webappDirs {
		dir := filepath.Join(s.staticDir, name)
		if exists(dir) {
			s.engine.StaticFS("/"+name, gin.Dir(dir, false))
		}
	}

	for _, name := range []string{"favicon.ico", "manifest.json", "Component.js"} {
		file := filepath.Join(s.staticDir, name)
		if exists(file) {
			s.engine.StaticFile("/"+name, file)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
