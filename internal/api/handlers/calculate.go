package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"station-sizing/internal/api/models"
	"station-sizing/internal/engine"
	"station-sizing/internal/model"
	"station-sizing/internal/repository"
)

// CalculateV2g handles POST /api/v1/v2g/calculate: the standalone V2G
// computation with every input in the request body.
func (h *Handler) CalculateV2g(c *gin.Context) {
	var req models.V2gCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.Engine.ComputeV2G(req.ToEngine())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FromV2GResult(result))
}

// loadProjectInputs gathers the persisted fleet config and tariff of a
// project and converts them to core values. Missing rows become typed input
// errors so the boundary answers 400, matching the manual-entry endpoints.
func (h *Handler) loadProjectInputs(ctx context.Context, projectID int64) (model.FleetConfig, model.WeeklySchedule, []model.TouPeriod, string, error) {
	fleetRec, err := h.Fleets.GetByProjectID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.FleetConfig{}, nil, nil, "", engine.NewInputError("fleetConfig",
				"fleet configuration is required, configure it on the parameters page")
		}
		return model.FleetConfig{}, nil, nil, "", err
	}
	priceRows, err := h.Prices.ListByProjectID(ctx, projectID)
	if err != nil {
		return model.FleetConfig{}, nil, nil, "", err
	}
	if len(priceRows) == 0 {
		return model.FleetConfig{}, nil, nil, "", engine.NewInputError("touPrices",
			"TOU electricity prices are required, configure them on the parameters page")
	}
	fleet, weekly := fleetRec.ToModel(h.Log)
	country := priceRows[0].Country
	if country == "" {
		country = "CN"
	}
	return fleet, weekly, repository.PricesToModel(priceRows, h.Log), country, nil
}

// ProjectLoadCurve handles POST /api/v1/projects/:id/load-curve.
func (h *Handler) ProjectLoadCurve(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	fleet, weekly, tous, _, err := h.loadProjectInputs(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.Engine.ComputeLoadCurve(fleet, weekly, tous)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FromLoadCurveResult(result))
}

// ProjectSizing handles POST /api/v1/projects/:id/sizing. The result is also
// persisted for report generation.
func (h *Handler) ProjectSizing(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req models.SizingCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	project, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	pv, err := h.Pv.GetByProjectID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(c, engine.NewInputError("pvConfig",
				"PV system configuration is required, configure it on the parameters page"))
			return
		}
		h.respondError(c, err)
		return
	}
	fleet, weekly, tous, country, err := h.loadProjectInputs(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.Engine.ComputeSizing(engine.SizingInputs{
		Station: model.StationConfig{
			PvPeakPowerKw:  pv.InstalledCapacityKw,
			TransformerKva: project.TransformerCapacityKva,
			Country:        country,
		},
		Fleet:    fleet,
		Schedule: weekly,
		Tous:     tous,
	}, req.ToEngine())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := models.FromSizingResult(result)
	if payload, err := json.Marshal(response); err == nil {
		saveErr := h.Results.Save(ctx, &repository.CalculationResult{
			ProjectID:  id,
			ResultType: "sizing",
			Payload:    string(payload),
		})
		if saveErr != nil {
			h.Log.Warn().Err(saveErr).Int64("project_id", id).Msg("failed to persist sizing result")
		}
	}
	c.JSON(http.StatusOK, response)
}

// ProjectV2g handles POST /api/v1/projects/:id/v2g: the same computation as
// the standalone endpoint, inputs loaded from persistence.
func (h *Handler) ProjectV2g(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	fleet, weekly, tous, _, err := h.loadProjectInputs(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.Engine.ComputeV2G(engine.V2GRequest{
		Fleet:    fleet,
		Schedule: weekly,
		Tous:     tous,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := models.FromV2GResult(result)
	if payload, err := json.Marshal(response); err == nil {
		saveErr := h.Results.Save(ctx, &repository.CalculationResult{
			ProjectID:  id,
			ResultType: "v2g",
			Payload:    string(payload),
		})
		if saveErr != nil {
			h.Log.Warn().Err(saveErr).Int64("project_id", id).Msg("failed to persist v2g result")
		}
	}
	c.JSON(http.StatusOK, response)
}
