package damage

import (
	"github.com/infrarisk-ch/kuba-risk-cli/internal/risk"
)

// Bridge dimension defaults, substituted for missing values only.
const (
	defaultBridgeLength = 200
	defaultBridgeWidth  = 30
)

// Occupancy model constants ("m" and "s_k" in the engineering standard).
const (
	bridgeOccupancy   = 15
	bridgeRiskScaling = 1
)

// casualtyRate is the pair of probability constants driving the expected
// deaths on a collapsing bridge: the chance a vehicle is on the structure
// and the chance of a fatal outcome.
type casualtyRate struct {
	k float64
	u float64
}

// casualtyRates by bridge type family. Plate bridges share the generic
// viaduct row; unrecognized families use it as well.
var casualtyRates = map[risk.BridgeFamily]casualtyRate{
	risk.FamilyPlate:      {0.001, 0.6},
	risk.FamilyBeam:       {0.001, 0.2},
	risk.FamilyArch:       {0.001, 0.6},
	risk.FamilyFrame:      {0.001, 0.3},
	risk.FamilySuspension: {0.01, 0.3},
	risk.FamilyOther:      {0.001, 0.1},
}

var defaultCasualtyRate = casualtyRate{0.001, 0.6}

// BridgeModel prices the collapse of one bridge. The cost constant varies by
// formula revision and is injected from the active formula set.
type BridgeModel struct {
	CostPerSquareMeter float64
}

// NewBridgeModel builds the cost model for the given formula set.
func NewBridgeModel(fs *risk.FormulaSet) BridgeModel {
	return BridgeModel{CostPerSquareMeter: fs.BridgeCostPerSquareMeter}
}

// ReplacementCosts prices rebuilding the deck area. Missing, zero or NaN
// dimensions substitute the 200 m / 30 m defaults.
func (m BridgeModel) ReplacementCosts(length, width float64) float64 {
	return orDefault(length, defaultBridgeLength) *
		orDefault(width, defaultBridgeWidth) *
		m.CostPerSquareMeter
}

// NumberOfDeaths computes the expected deaths from the type family casualty
// rates. A bridge over road or rail endangers third parties underneath, so
// the figure doubles for traffic crossings.
func (m BridgeModel) NumberOfDeaths(typeCode int, crossing risk.Crossing) float64 {
	rate := defaultCasualtyRate
	if family, ok := risk.ClassifyBridgeType(typeCode); ok {
		rate = casualtyRates[family]
	}
	deaths := rate.k * rate.u * bridgeOccupancy * bridgeRiskScaling
	if crossing == risk.CrossingTraffic {
		deaths *= 2
	}
	return deaths
}

// VictimCosts prices the expected casualties of the collapse.
func (m BridgeModel) VictimCosts(typeCode int, crossing risk.Crossing) float64 {
	return victimCosts(m.NumberOfDeaths(typeCode, crossing))
}

// VehicleLossCosts prices the vehicles on the deck at collapse time.
func (m BridgeModel) VehicleLossCosts(length, percentageOfCars float64) float64 {
	return vehicleLossCosts(orDefault(length, defaultBridgeLength), percentageOfCars)
}

// DowntimeCosts prices the detour traffic while the bridge is rebuilt.
func (m BridgeModel) DowntimeCosts(aadt, percentageOfCars float64) float64 {
	return downtimeCosts(aadt, percentageOfCars)
}

// Costs assembles all four components for one bridge.
func (m BridgeModel) Costs(length, width float64, typeCode int, crossing risk.Crossing, aadt, percentageOfCars float64) Components {
	return Components{
		Replacement: m.ReplacementCosts(length, width),
		Victims:     m.VictimCosts(typeCode, crossing),
		VehicleLoss: m.VehicleLossCosts(length, percentageOfCars),
		Downtime:    m.DowntimeCosts(aadt, percentageOfCars),
	}
}
