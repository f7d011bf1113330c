// Package handlers wires the HTTP surface: project CRUD, configuration
// upserts and the calculation endpoints.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"station-sizing/internal/api/models"
	"station-sizing/internal/engine"
	"station-sizing/internal/repository"
)

// Handler carries the engine and repositories shared by all endpoints.
// Repositories are nil when the service runs without a database; in that
// mode only the standalone calculation endpoints are mounted.
type Handler struct {
	Engine   *engine.Engine
	Log      zerolog.Logger
	Projects *repository.ProjectRepository
	Pv       *repository.PvConfigRepository
	Fleets   *repository.FleetConfigRepository
	Prices   *repository.PriceRepository
	Results  *repository.ResultRepository
}

func New(eng *engine.Engine, log zerolog.Logger, db *repository.DB) *Handler {
	h := &Handler{Engine: eng, Log: log}
	if db != nil {
		h.Projects = repository.NewProjectRepository(db)
		h.Pv = repository.NewPvConfigRepository(db)
		h.Fleets = repository.NewFleetConfigRepository(db)
		h.Prices = repository.NewPriceRepository(db)
		h.Results = repository.NewResultRepository(db)
	}
	return h
}

func (h *Handler) persistenceEnabled() bool {
	return h.Projects != nil
}

// RegisterRoutes mounts all endpoints under /api/v1.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.POST("/v2g/calculate", h.CalculateV2g)

	if !h.persistenceEnabled() {
		return
	}
	api.POST("/projects", h.CreateProject)
	api.GET("/projects", h.ListProjects)
	api.GET("/projects/:id", h.GetProject)
	api.PUT("/projects/:id", h.UpdateProject)
	api.DELETE("/projects/:id", h.DeleteProject)

	api.PUT("/projects/:id/pv-config", h.UpsertPvConfig)
	api.PUT("/projects/:id/fleet-config", h.UpsertFleetConfig)
	api.PUT("/projects/:id/prices", h.ReplacePrices)
	api.GET("/projects/:id/prices", h.ListPrices)

	api.POST("/projects/:id/load-curve", h.ProjectLoadCurve)
	api.POST("/projects/:id/sizing", h.ProjectSizing)
	api.POST("/projects/:id/v2g", h.ProjectV2g)
}

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: "invalid project id",
		}})
		return 0, false
	}
	return id, true
}

// respondError maps the error taxonomy onto HTTP statuses: missing or
// malformed input is a 400, a missing row a 404, anything else a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case engine.IsInputError(err):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "MISSING_INPUT",
			Message: err.Error(),
		}})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		}})
	default:
		h.Log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		}})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	}})
}
