// Package damage implements the collapse cost model: replacement, victim,
// vehicle loss and downtime components, summed into the total damage cost
// that the risk score multiplies with the collapse probability.
package damage

import "math"

// ValueOfStatisticalLife is the fixed monetary figure pricing one expected
// casualty, in CHF.
const ValueOfStatisticalLife = 7_000_000

const (
	// Assumed spacing between vehicles on the structure at collapse time.
	vehicleSpacingMeters = 30

	carValue   = 15_000
	truckValue = 250_000

	// Detour pricing for the downtime component.
	detourLengthKm = 20
	roadTypeFactor = 1
	carCostPerKm   = 1.7
	truckCostPerKm = 1.93

	injuriesPerDeath = 1.0
	injuryCostWeight = 0.01
)

// Components holds the four cost components of one structure, in CHF.
// Individual components may be NaN when their inputs were unusable.
type Components struct {
	Replacement float64 `json:"replacement"`
	Victims     float64 `json:"victims"`
	VehicleLoss float64 `json:"vehicle_loss"`
	Downtime    float64 `json:"downtime"`
}

// Total sums the components. NaN components contribute nothing; the total is
// always a real number.
func (c Components) Total() float64 {
	total := 0.0
	for _, v := range []float64{c.Replacement, c.Victims, c.VehicleLoss, c.Downtime} {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// victimCosts prices the expected casualties. Injuries are modeled as equal
// in number to deaths and weighted at one percent of a death.
func victimCosts(deaths float64) float64 {
	injuries := deaths * injuriesPerDeath
	return ValueOfStatisticalLife * (deaths + injuryCostWeight*injuries)
}

// vehicleLossCosts prices the vehicles on the structure at collapse time:
// one vehicle per spacing interval, valued by the car/truck mix.
func vehicleLossCosts(length, percentageOfCars float64) float64 {
	percentageOfTrucks := 1 - percentageOfCars
	return length / vehicleSpacingMeters *
		(percentageOfCars*carValue + percentageOfTrucks*truckValue)
}

// downtimeCosts prices one day of detour traffic over the fixed detour
// length.
func downtimeCosts(aadt, percentageOfCars float64) float64 {
	percentageOfTrucks := 1 - percentageOfCars
	return aadt * detourLengthKm * roadTypeFactor *
		(percentageOfCars*carCostPerKm + percentageOfTrucks*truckCostPerKm)
}

// orDefault substitutes the default only for missing, zero or NaN values.
// Implausible real values pass through untouched.
func orDefault(v, def float64) float64 {
	if math.IsNaN(v) || v == 0 {
		return def
	}
	return v
}
