package server

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/resolver"
)

var validate = validator.New()

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "modelout",
		})
	})

	v1 := s.app.Group("/api/v1")
	v1.Get("/profiles", s.listProfiles)
	v1.Get("/resolve", s.resolve)
	v1.Get("/history", s.listHistory)
}

type profileResponse struct {
	Models  []models.ModelProfile `json:"models"`
	Formats []string              `json:"formats"`
}

func (s *Server) listProfiles(c *fiber.Ctx) error {
	return c.JSON(profileResponse{
		Models:  s.reg.Profiles(),
		Formats: s.reg.Formats(),
	})
}

type resolveResponse struct {
	ID      string                   `json:"id"`
	Request models.ResolutionRequest `json:"request"`
	Result  *models.ResolutionResult `json:"result"`
}

func (s *Server) resolve(c *fiber.Ctx) error {
	req := models.ResolutionRequest{
		Model:      c.Query("model"),
		Format:     c.Query("format", s.defaults.Format),
		RootDir:    c.Query("root"),
		SubDirHint: c.Query("sub"),
		ValidTime:  c.Query("valid_time"),
		Domain:     c.Query("domain", s.defaults.Domain),
	}

	start := time.Now()
	r, err := resolver.New(s.reg, req, resolver.WithGlob(s.glob), resolver.WithLogger(s.log))
	var result *models.ResolutionResult
	if err == nil {
		req = r.Request()
		result, err = r.Resolve()
	}
	s.log.LogResolution(req, result, err)

	id := c.GetRespHeader(fiber.HeaderXRequestID)
	if s.history != nil {
		rec := history.NewResolution(history.SourceServer, req, result, err, time.Since(start))
		if id != "" {
			rec.ID = id
		}
		if herr := s.history.Record(c.UserContext(), rec); herr != nil {
			s.log.LogWarn("Failed to record resolution: " + herr.Error())
		}
	}

	if err != nil {
		return err
	}
	return c.JSON(resolveResponse{ID: id, Request: req, Result: result})
}

type historyQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

func (s *Server) listHistory(c *fiber.Ctx) error {
	if s.history == nil {
		return fiber.NewError(fiber.StatusNotFound, "history is disabled")
	}

	q := historyQuery{Limit: 20}
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	records, err := s.history.List(c.UserContext(), q.Limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*history.Resolution{}
	}
	return c.JSON(fiber.Map{"resolutions": records})
}
