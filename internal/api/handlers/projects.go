package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"station-sizing/internal/api/models"
	"station-sizing/internal/model"
	"station-sizing/internal/repository"
)

func toClockRanges(in []models.TimeRangeEntry) []model.ClockRange {
	out := make([]model.ClockRange, 0, len(in))
	for _, r := range in {
		if r.Start == "" || r.End == "" {
			continue
		}
		out = append(out, model.ClockRange{Start: r.Start, End: r.End})
	}
	return out
}

// CreateProject handles POST /api/v1/projects.
func (h *Handler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p := &repository.Project{
		Name:                   req.Name,
		TransformerCapacityKva: req.TransformerCapacityKva,
	}
	if err := h.Projects.Create(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ProjectResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		TransformerCapacityKva: p.TransformerCapacityKva,
	})
}

// ListProjects handles GET /api/v1/projects.
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.Projects.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, models.ProjectResponse{
			ID:                     p.ID,
			Name:                   p.Name,
			TransformerCapacityKva: p.TransformerCapacityKva,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetProject handles GET /api/v1/projects/:id.
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.Projects.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		TransformerCapacityKva: p.TransformerCapacityKva,
	})
}

// UpdateProject handles PUT /api/v1/projects/:id.
func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p := &repository.Project{
		ID:                     id,
		Name:                   req.Name,
		TransformerCapacityKva: req.TransformerCapacityKva,
	}
	if err := h.Projects.Update(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		TransformerCapacityKva: p.TransformerCapacityKva,
	})
}

// DeleteProject handles DELETE /api/v1/projects/:id.
func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.Projects.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertPvConfig handles PUT /api/v1/projects/:id/pv-config.
func (h *Handler) UpsertPvConfig(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req models.PvConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cfg := &repository.PvConfig{
		ProjectID:           id,
		InstalledCapacityKw: req.InstalledCapacityKw,
	}
	if err := h.Pv.Upsert(c.Request.Context(), cfg); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cfg.ID})
}

// UpsertFleetConfig handles PUT /api/v1/projects/:id/fleet-config.
func (h *Handler) UpsertFleetConfig(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req models.FleetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	weekly, err := repository.EncodeWeeklySchedule(models.ToWeeklySchedule(req.WeeklySchedule))
	if err != nil {
		badRequest(c, err)
		return
	}
	special, err := repository.EncodeSpecialDates(models.ToSpecialDates(req.SpecialDates))
	if err != nil {
		badRequest(c, err)
		return
	}
	enableTimeControl := true
	if req.EnableTimeControl != nil {
		enableTimeControl = *req.EnableTimeControl
	}
	cfg := &repository.FleetConfig{
		ProjectID:            id,
		VehicleCount:         req.VehicleCount,
		BatteryCapacityKwh:   req.BatteryCapacityKwh,
		EnableTimeControl:    enableTimeControl,
		WeeklySchedule:       weekly,
		SpecialDates:         special,
		FastChargers:         req.FastChargers,
		SlowChargers:         req.SlowChargers,
		UltraFastChargers:    req.UltraFastChargers,
		FastChargersV2g:      req.FastChargersV2g,
		SlowChargersV2g:      req.SlowChargersV2g,
		UltraFastChargersV2g: req.UltraFastChargersV2g,
	}
	if err := h.Fleets.Upsert(c.Request.Context(), cfg); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cfg.ID})
}

// ReplacePrices handles PUT /api/v1/projects/:id/prices. The whole batch is
// swapped atomically.
func (h *Handler) ReplacePrices(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req models.PriceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rows := make([]repository.ElectricityPrice, 0, len(req.Prices))
	for _, p := range req.Prices {
		blob, err := repository.EncodeClockRanges(toClockRanges(p.TimeRanges))
		if err != nil {
			badRequest(c, err)
			return
		}
		country := p.Country
		if country == "" {
			country = "CN"
		}
		rows = append(rows, repository.ElectricityPrice{
			PeriodType: p.PeriodType,
			TimeRanges: blob,
			Price:      p.Price,
			Country:    country,
		})
	}
	if err := h.Prices.ReplaceForProject(c.Request.Context(), id, rows); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows)})
}

// ListPrices handles GET /api/v1/projects/:id/prices.
func (h *Handler) ListPrices(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	prices, err := h.Prices.ListByProjectID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]models.TouPriceEntry, 0, len(prices))
	for _, p := range prices {
		ranges := repository.DecodeClockRanges(p.TimeRanges, h.Log)
		entries := make([]models.TimeRangeEntry, 0, len(ranges))
		for _, r := range ranges {
			entries = append(entries, models.TimeRangeEntry{Start: r.Start, End: r.End})
		}
		out = append(out, models.TouPriceEntry{
			PeriodType: p.PeriodType,
			TimeRanges: entries,
			Price:      p.Price,
		})
	}
	c.JSON(http.StatusOK, out)
}
