package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskgrid/internal/i18n"
	"taskgrid/internal/metrics"
	"taskgrid/internal/models"
	"taskgrid/internal/storage/sqlite"
	"taskgrid/internal/tasklist"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Options carries the optional parts of the server.
type Options struct {
	StaticDir   string
	Metrics     *metrics.Metrics
	MetricsPath string
}

// Server provides HTTP handlers for the task grid backend.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	view      *tasklist.View
	tr        *i18n.Translator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, view *tasklist.View, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New("taskgrid")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	// Access log for every route but the health probe.
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:    router,
		store:     store,
		view:      view,
		tr:        i18n.New(),
		metrics:   opts.Metrics,
		logger:    logger,
		staticDir: opts.StaticDir,
	}

	if view.Editing() {
		srv.metrics.EditMode.Set(1)
	}
	view.OnModeChange(srv.modeChanged)

	srv.registerRoutes(opts.MetricsPath)
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes(metricsPath string) {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/hello", s.handleHello)
		api.POST("/date-mask", s.handleDateMask)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.GET("/export", s.handleExportTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
		}

		types := api.Group("/task-types")
		{
			types.GET("", s.handleListTaskTypes)
			types.POST("", s.handleCreateTaskType)
			types.PUT(":code", s.handleUpdateTaskType)
			types.DELETE(":code", s.handleDeleteTaskType)
		}

		view := api.Group("/view")
		{
			view.GET("", s.handleGetView)
			view.PUT("/mode", s.handleSetMode)
			view.PUT("/columns", s.handleSetColumns)
		}
	}

	if metricsPath != "" {
		s.engine.GET(metricsPath, gin.WrapH(s.metrics.Handler()))
	}

	s.mountStatic()
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) modeChanged(mode models.ViewMode) {
	if mode == models.Editing {
		s.metrics.EditMode.Set(1)
	} else {
		s.metrics.EditMode.Set(0)
	}
	s.logger.Info("view mode changed", slog.String("mode", string(mode)))
}

// requestID propagates or assigns a request identifier.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// fail maps domain errors to HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	var fe *tasklist.FieldError
	switch {
	case errors.As(err, &fe):
		s.respondFieldError(c, fe)
	case errors.Is(err, sqlite.ErrNotFound):
		s.respondError(c, http.StatusNotFound, err)
	case errors.Is(err, tasklist.ErrViewing),
		errors.Is(err, tasklist.ErrEditing),
		errors.Is(err, sqlite.ErrDuplicate),
		errors.Is(err, sqlite.ErrTaskTypeInUse):
		s.respondError(c, http.StatusConflict, err)
	case errors.Is(err, sqlite.ErrInvalid),
		errors.Is(err, sqlite.ErrReservedCode):
		s.respondError(c, http.StatusBadRequest, err)
	default:
		s.respondError(c, http.StatusInternalServerError, err)
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(c.Request.Context(), level, "request failed",
		slog.String("path", c.FullPath()),
		slog.String(requestIDKey, c.GetString(requestIDKey)),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondFieldError returns a localised validation error for one field.
func (s *Server) respondFieldError(c *gin.Context, fe *tasklist.FieldError) {
	msg := s.tr.Translate(c.GetHeader("Accept-Language"), fe.Message)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":    msg,
		"field":    fe.Field,
		"validity": fe.Reason,
	})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
