package damage

import (
	"github.com/infrarisk-ch/kuba-risk-cli/internal/risk"
)

// Wall dimension defaults, substituted for missing values only.
const (
	defaultWallLength = 80
	defaultWallHeight = 20
)

// Wall casualty model constants: base event rate, exposure scaling, vehicle
// spacing shared with the bridge model.
const (
	wallDeathBase     = 0.3
	wallDeathExposure = 1.74
)

// dampeningFactors scales the casualty estimate by the recorded consequence
// of collapse. The category texts are the inventory's own, including its
// spelling of the middle category.
var dampeningFactors = map[string]float64{
	"Grosser Einfluss auf NS":       1,
	"Mittelerer Einfluss auf NS":    0.25,
	"Kleiner Einfluss auf NS":       0.1,
	"Kein Einfluss auf NS":          0.01,
	"Winkelstützmauer hmax <= 1.5m": 0.01,
}

// DampeningFactor returns the consequence-of-collapse scaling. Unrecognized
// or empty categories assume full consequence.
func DampeningFactor(consequenceOfCollapse string) float64 {
	if f, ok := dampeningFactors[consequenceOfCollapse]; ok {
		return f
	}
	return 1
}

// WallModel prices the collapse of one support structure.
type WallModel struct {
	CostPerSquareMeter float64
}

// NewWallModel builds the cost model for the given formula set.
func NewWallModel(fs *risk.FormulaSet) WallModel {
	return WallModel{CostPerSquareMeter: fs.WallCostPerSquareMeter}
}

// ReplacementCosts prices rebuilding the visible wall face. Missing, zero or
// NaN dimensions substitute the 80 m / 20 m defaults.
func (m WallModel) ReplacementCosts(length, averageHeight float64) float64 {
	return orDefault(length, defaultWallLength) *
		orDefault(averageHeight, defaultWallHeight) *
		m.CostPerSquareMeter
}

// NumberOfDeaths computes the expected deaths from the wall length and the
// dampening of the recorded consequence category.
func (m WallModel) NumberOfDeaths(consequenceOfCollapse string, length float64) float64 {
	l := orDefault(length, defaultWallLength)
	return wallDeathBase * wallDeathExposure *
		DampeningFactor(consequenceOfCollapse) *
		l / vehicleSpacingMeters
}

// VictimCosts prices the expected casualties of the collapse.
func (m WallModel) VictimCosts(consequenceOfCollapse string, length float64) float64 {
	return victimCosts(m.NumberOfDeaths(consequenceOfCollapse, length))
}

// VehicleLossCosts prices the vehicles alongside the wall at collapse time.
func (m WallModel) VehicleLossCosts(length, percentageOfCars float64) float64 {
	return vehicleLossCosts(orDefault(length, defaultWallLength), percentageOfCars)
}

// DowntimeCosts prices the detour traffic while the wall is rebuilt.
func (m WallModel) DowntimeCosts(aadt, percentageOfCars float64) float64 {
	return downtimeCosts(aadt, percentageOfCars)
}

// Costs assembles all four components for one support structure.
func (m WallModel) Costs(length, averageHeight float64, consequenceOfCollapse string, aadt, percentageOfCars float64) Components {
	return Components{
		Replacement: m.ReplacementCosts(length, averageHeight),
		Victims:     m.VictimCosts(consequenceOfCollapse, length),
		VehicleLoss: m.VehicleLossCosts(length, percentageOfCars),
		Downtime:    m.DowntimeCosts(aadt, percentageOfCars),
	}
}
