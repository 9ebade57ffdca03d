// Package server exposes resolution over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/harrison/modelout/internal/config"
	"github.com/harrison/modelout/internal/fileutil"
	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/logger"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/registry"
)

// HistoryStore records and lists resolutions. A nil store disables history.
type HistoryStore interface {
	Record(ctx context.Context, rec *history.Resolution) error
	List(ctx context.Context, limit int) ([]*history.Resolution, error)
}

// Options configures a Server
type Options struct {
	Registry    *registry.Registry
	Defaults    config.DefaultsConfig
	History     HistoryStore
	Logger      logger.Logger
	Glob        fileutil.GlobFunc
	ReadTimeout time.Duration
}

// Server is the modelout HTTP API
type Server struct {
	app      *fiber.App
	reg      *registry.Registry
	defaults config.DefaultsConfig
	history  HistoryStore
	log      logger.Logger
	glob     fileutil.GlobFunc
}

// New builds the Fiber app and registers every route
func New(opts Options) *Server {
	s := &Server{
		reg:      opts.Registry,
		defaults: opts.Defaults,
		history:  opts.History,
		log:      opts.Logger,
		glob:     opts.Glob,
	}
	if s.reg == nil {
		s.reg = registry.Default()
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "modelout",
		DisableStartupMessage: true,
		ReadTimeout:           opts.ReadTimeout,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	s.registerRoutes()
	return s
}

// App returns the underlying Fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.log.LogInfo(fmt.Sprintf("Listening on %s", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorResponse is the JSON body of every error
type errorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	SearchPath string   `json:"search_path,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// StatusFor maps a resolution error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidParameter), errors.Is(err, models.ErrUnsupportedModel):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNoMatch):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrAmbiguousMatch), errors.Is(err, models.ErrMultipleStaticFiles):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrMissingForecastEncoding):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Error: "request", Message: fe.Message})
	}

	code := StatusFor(err)
	body := errorResponse{Error: models.ErrorKind(err), Message: err.Error()}
	if body.Error == "" {
		body.Error = "internal"
		s.log.LogError(fmt.Sprintf("%s %s: %v", c.Method(), c.Path(), err))
	}

	var re *models.ResolveError
	if errors.As(err, &re) {
		body.SearchPath = re.SearchPath
		body.Candidates = re.Candidates
	}
	return c.Status(code).JSON(body)
}
