package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-sizing/internal/api/models"
	"station-sizing/internal/config"
	"station-sizing/internal/engine"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	eng := engine.New(config.Default(), zerolog.Nop())
	New(eng, zerolog.Nop(), nil).RegisterRoutes(router)
	return router
}

const v2gRequestBody = `{
	"vehicleCount": 1,
	"batteryCapacityKwh": 100,
	"enableTimeControl": true,
	"weeklySchedule": [
		{"day": "Monday", "isOperating": true, "chargeableRanges": [
			{"start": "08:00", "end": "10:00", "minSoc": 50},
			{"start": "18:00", "end": "20:00", "minSoc": 90}
		]}
	],
	"fastChargers": 1,
	"fastChargersV2g": 1,
	"touPrices": [
		{"periodType": "peak", "price": 1.2, "timeRanges": [{"start": "18:00", "end": "20:15"}]},
		{"periodType": "valley", "price": 0.3, "timeRanges": [{"start": "20:15", "end": "18:00"}]}
	]
}`

func TestCalculateV2gEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/v2g/calculate", strings.NewReader(v2gRequestBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	// shopspring/decimal marshals as quoted strings by default.
	body := rec.Body.String()
	assert.Contains(t, body, `"peakDischargePowerKw":"102"`)
	assert.Contains(t, body, `"weeklyArbitrageRevenue":"-36"`)
	assert.Contains(t, body, `"dischargePowerRatio":"0.85"`)
	assert.Contains(t, body, `"calculationSteps"`)
}

func TestCalculateV2gMissingTariff(t *testing.T) {
	router := newTestRouter()

	body := `{"vehicleCount": 1, "batteryCapacityKwh": 100, "fastChargers": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/v2g/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_INPUT", resp.Error.Code)
}

func TestCalculateV2gRejectsBadJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/v2g/calculate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectRoutesDisabledWithoutDatabase(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
