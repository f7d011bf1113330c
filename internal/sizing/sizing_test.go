package sizing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"station-sizing/internal/config"
)

func TestSelectTransformer(t *testing.T) {
	cfg := config.Default()

	// Smallest standard size covering the peak.
	got := SelectTransformer(decimal.NewFromInt(1200), "CN", cfg)
	assert.True(t, got.Equal(decimal.NewFromInt(1250)), "got %s", got)

	// Beyond the largest standard size, the largest is returned.
	got = SelectTransformer(decimal.NewFromInt(3500), "CN", cfg)
	assert.True(t, got.Equal(decimal.NewFromInt(3150)), "got %s", got)

	// Exact match picks itself.
	got = SelectTransformer(decimal.NewFromInt(630), "CN", cfg)
	assert.True(t, got.Equal(decimal.NewFromInt(630)), "got %s", got)

	// Unknown country falls back to the CN list.
	got = SelectTransformer(decimal.NewFromInt(1200), "FR", cfg)
	assert.True(t, got.Equal(decimal.NewFromInt(1250)), "got %s", got)

	// JP has its own ladder.
	got = SelectTransformer(decimal.NewFromInt(1200), "JP", cfg)
	assert.True(t, got.Equal(decimal.NewFromInt(1500)), "got %s", got)
}

func TestSelectEssModel(t *testing.T) {
	cfg := config.Default()

	// 180 kW / 400 kWh: both models need 2 units; (100,215) wins on total
	// capacity (430 vs 522).
	m, units := SelectEssModel(decimal.NewFromInt(180), decimal.NewFromInt(400), "CN", cfg)
	assert.Equal(t, 2, units)
	assert.Equal(t, config.EssModel{PowerKw: 100, CapacityKwh: 215}, m)

	// Zero requirements still install one unit.
	m, units = SelectEssModel(decimal.Zero, decimal.Zero, "CN", cfg)
	assert.Equal(t, 1, units)
	assert.Equal(t, config.EssModel{PowerKw: 100, CapacityKwh: 215}, m)
}

func TestSize(t *testing.T) {
	cfg := config.Default()
	s := Size(decimal.NewFromInt(180), decimal.NewFromInt(400), "CN", cfg)

	assert.Equal(t, 2, s.Units)
	assert.True(t, s.RatedPowerKw.Equal(decimal.NewFromInt(200)))
	assert.True(t, s.CapacityKwh.Equal(decimal.NewFromInt(430)))
	// Rounded values always cover the calculated requirements.
	assert.True(t, s.RatedPowerKw.GreaterThanOrEqual(s.CalculatedPowerKw))
	assert.True(t, s.CapacityKwh.GreaterThanOrEqual(s.CalculatedCapacityKwh))
}

func TestEssPowerChain(t *testing.T) {
	cfg := config.Default()

	maxPower := EssMaxPower(decimal.NewFromInt(1000), cfg)
	assert.True(t, maxPower.Equal(decimal.NewFromInt(800)), "got %s", maxPower)

	rated := EssRatedPower(maxPower, decimal.NewFromInt(300))
	assert.True(t, rated.Equal(decimal.NewFromInt(500)), "got %s", rated)

	// PV larger than the need floors at zero.
	rated = EssRatedPower(decimal.NewFromInt(100), decimal.NewFromInt(300))
	assert.True(t, rated.IsZero())
}

func TestValidateTransformer(t *testing.T) {
	warning := ValidateTransformer(decimal.NewFromInt(500), decimal.NewFromInt(400))
	assert.Contains(t, warning, "exceeds transformer capacity")
	assert.Contains(t, warning, "100")

	assert.Empty(t, ValidateTransformer(decimal.NewFromInt(400), decimal.NewFromInt(400)))
}
