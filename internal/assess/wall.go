package assess

import (
	"math"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/damage"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/risk"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/traffic"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/zone"
)

// WallScorer computes one assessment record per support structure.
type WallScorer struct {
	Formulas    *risk.FormulaSet
	Costs       damage.WallModel
	Traffic     *traffic.Resolver
	Zones       zone.Source
	CurrentYear int
}

// NewWallScorer wires the support structure pipeline for one formula
// revision.
func NewWallScorer(fs *risk.FormulaSet, tr *traffic.Resolver, zones zone.Source) *WallScorer {
	return &WallScorer{
		Formulas:    fs,
		Costs:       damage.NewWallModel(fs),
		Traffic:     tr,
		Zones:       zones,
		CurrentYear: time.Now().Year(),
	}
}

// Score runs the full factor, probability and cost chain for one wall. The
// two contract violations of the factor tables (an undefined type table cell
// and an out-of-range precipitation zone id) surface as errors; the partial
// record accompanies them into the diagnostic log.
func (s *WallScorer) Score(w *model.SupportStructure) (model.WallAssessment, error) {
	fs := s.Formulas

	zoneName, zoneKnown := s.Zones.ZoneFor(w.E, w.N)

	age, ageKnown := model.Age(w.YearOfConstruction, s.CurrentYear)

	k1 := fs.WallHumanErrorFactor(w.YearOfConstruction)
	k4 := fs.WallConditionFactor(w.ConditionClass)
	k9 := fs.WallMaterialFactor(w.WallType)
	k14 := fs.VisibleAreaFactor(s.visibleArea(w))
	k15 := fs.HeightFactor(w.MaxHeight)

	a := model.WallAssessment{
		Number: w.Number,
		Name:   w.DisplayName(),

		YearOfConstruction: optIntString(w.YearOfConstruction),
		Age:                ageString(age, ageKnown),
		ConditionClass:     optIntString(w.ConditionClass),
		WallType:           w.WallType,
		Function:           w.FunctionText,
		PrecipitationZone:  zoneString(zoneName, zoneKnown),

		HumanErrorFactor:  k1.Or(1),
		ConditionFactor:   k4.Or(1),
		MaterialFactor:    k9.Or(1),
		VisibleAreaFactor: k14.Or(1),
		HeightFactor:      k15.Or(1),
	}

	k8, err := fs.WallTypeFactor(w.WallType, w.FunctionText)
	if err != nil {
		return a, err
	}
	a.TypeFactor = k8.Or(1)

	k17, err := s.precipitationFactor(zoneName, zoneKnown)
	if err != nil {
		return a, err
	}
	a.PrecipitationZoneFactor = k17.Or(1)

	probability := risk.ProbabilityOfCollapse(fs.WallBaseProbability(),
		k1, k4, k8, k9, k14, k15, k17)
	a.ProbabilityOfCollapse = probability

	td := s.Traffic.Resolve(w.Axis)
	costs := s.Costs.Costs(w.Length, w.MaxHeight, w.ConsequenceOfCollapse, td.AADT, td.PercentageOfCars)
	total := costs.Total()

	a.Axis = td.Axis
	a.AADT = td.AADT
	a.PercentageOfCars = td.PercentageOfCars
	a.ReplacementCosts = costs.Replacement
	a.VictimCosts = costs.Victims
	a.VehicleLossCosts = costs.VehicleLoss
	a.DowntimeCosts = costs.Downtime
	a.DamageCosts = total
	a.Risk = probability * total

	return a, nil
}

// visibleArea prefers the inventory's own area figure and falls back to
// length times maximum height.
func (s *WallScorer) visibleArea(w *model.SupportStructure) (float64, bool) {
	if !math.IsNaN(w.VisibleArea) && w.VisibleArea > 0 {
		return w.VisibleArea, true
	}
	return risk.VisibleArea(w.Length, w.MaxHeight)
}

// precipitationFactor parses the resolved zone id. An unresolvable zone is
// an unknown factor; a zone id outside the table's range is a contract
// violation and errors.
func (s *WallScorer) precipitationFactor(zoneName string, zoneKnown bool) (risk.Factor, error) {
	if !zoneKnown {
		return risk.Factor{Name: risk.FactorPrecipitationZone}, nil
	}
	id, err := strconv.Atoi(zoneName)
	if err != nil {
		return risk.Factor{}, eris.Wrapf(err, "assess: parse precipitation zone %q", zoneName)
	}
	return s.Formulas.PrecipitationZoneFactor(id)
}
