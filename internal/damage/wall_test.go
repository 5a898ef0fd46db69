package damage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/risk"
)

func TestWallReplacementCosts(t *testing.T) {
	m := NewWallModel(risk.Current())
	nan := math.NaN()

	tests := []struct {
		name   string
		length float64
		height float64
		want   float64
	}{
		{"both present", 40, 5, 40 * 5 * 2500},
		{"length missing", nan, 5, 80 * 5 * 2500},
		{"height missing", 40, nan, 40 * 20 * 2500},
		{"height zero", 40, 0, 40 * 20 * 2500},
		{"both missing", nan, nan, 80 * 20 * 2500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ReplacementCosts(tt.length, tt.height))
		})
	}
}

func TestDampeningFactor(t *testing.T) {
	tests := []struct {
		category string
		want     float64
	}{
		{"Grosser Einfluss auf NS", 1},
		{"Mittelerer Einfluss auf NS", 0.25},
		{"Kleiner Einfluss auf NS", 0.1},
		{"Kein Einfluss auf NS", 0.01},
		{"Winkelstützmauer hmax <= 1.5m", 0.01},
		{"", 1},
		{"etwas anderes", 1},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, DampeningFactor(tt.category))
		})
	}
}

func TestWallNumberOfDeaths(t *testing.T) {
	m := NewWallModel(risk.Current())

	// 60 m wall with full consequence: 0.3 * 1.74 * 1 * 60/30.
	assert.InEpsilon(t, 0.3*1.74*2, m.NumberOfDeaths("Grosser Einfluss auf NS", 60), 1e-12)

	// Dampened category scales linearly.
	assert.InEpsilon(t, 0.3*1.74*0.25*2, m.NumberOfDeaths("Mittelerer Einfluss auf NS", 60), 1e-12)

	// Missing length substitutes the 80 m default.
	assert.InEpsilon(t, 0.3*1.74*80.0/30, m.NumberOfDeaths("Grosser Einfluss auf NS", math.NaN()), 1e-12)
}

func TestWallVictimCosts(t *testing.T) {
	m := NewWallModel(risk.Current())

	deaths := 0.3 * 1.74 * 2
	want := 7_000_000 * (deaths + 0.01*deaths)
	assert.InEpsilon(t, want, m.VictimCosts("Grosser Einfluss auf NS", 60), 1e-12)
}

func TestWallCosts_DowntimeNaNDoesNotPoisonTotal(t *testing.T) {
	m := NewWallModel(risk.Current())

	c := m.Costs(40, 5, "Kleiner Einfluss auf NS", math.NaN(), 0.95)
	assert.True(t, math.IsNaN(c.Downtime))

	total := c.Total()
	assert.False(t, math.IsNaN(total))
	assert.InEpsilon(t, c.Replacement+c.Victims+c.VehicleLoss, total, 1e-12)
}
