package assess

import (
	"math"
	"strconv"
	"time"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/damage"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/risk"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/traffic"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/zone"
)

// BridgeScorer computes one assessment record per bridge.
type BridgeScorer struct {
	Formulas    *risk.FormulaSet
	Costs       damage.BridgeModel
	Traffic     *traffic.Resolver
	Zones       zone.Source
	CurrentYear int
}

// NewBridgeScorer wires the bridge pipeline for one formula revision.
func NewBridgeScorer(fs *risk.FormulaSet, tr *traffic.Resolver, zones zone.Source) *BridgeScorer {
	return &BridgeScorer{
		Formulas:    fs,
		Costs:       damage.NewBridgeModel(fs),
		Traffic:     tr,
		Zones:       zones,
		CurrentYear: time.Now().Year(),
	}
}

// Score runs the full factor, probability and cost chain for one bridge.
func (s *BridgeScorer) Score(b *model.Bridge) (model.BridgeAssessment, error) {
	fs := s.Formulas

	zoneName, zoneKnown := s.Zones.ZoneFor(b.E, b.N)

	var normYearPtr *int
	if y, ok := risk.NormYear(b.NormText); ok {
		normYearPtr = &y
	}

	age, ageKnown := model.Age(b.YearOfConstruction, s.CurrentYear)
	span := fs.SpanForCalculation(b.LargestSpan, b.Span, b.Length)
	crossing := risk.ClassifyCrossing(b.FunctionText)

	k1 := fs.HumanErrorFactor(normYearPtr, b.YearOfConstruction)
	k3 := fs.StaticalDeterminacyFactor(b.TypeCode)
	k4 := fs.ConditionFactor(b.ConditionClass, age, ageKnown)
	k6 := fs.OverpassFactor(crossing)
	k7 := fs.StaticCalculationFactor(span)
	k8 := fs.BridgeTypeFactor(b.TypeCode)
	k9 := fs.MaterialFactor(b.MaterialCode)
	k11 := fs.RobustnessFactor(b.YearOfConstruction)
	k13 := fs.EarthquakeFactor(risk.EarthquakeInput{
		ZoneName:           zoneName,
		YearOfConstruction: b.YearOfConstruction,
		CheckPassed:        b.EarthquakeCheckPassed,
		TypeCode:           b.TypeCode,
		Name:               b.Name,
		SkewDegrees:        b.SkewDegrees,
	})

	probability := risk.ProbabilityOfCollapse(1, k1, k3, k4, k6, k7, k8, k9, k11, k13)

	td := s.Traffic.Resolve(b.Axis)
	costs := s.Costs.Costs(b.Length, b.Width, b.TypeCode, crossing, td.AADT, td.PercentageOfCars)
	total := costs.Total()

	a := model.BridgeAssessment{
		Number: b.Number,
		Name:   b.DisplayName(),

		NormYear:           b.NormText,
		YearOfConstruction: optIntString(b.YearOfConstruction),
		Age:                ageString(age, ageKnown),
		Span:               floatString(span),
		Type:               b.TypeText,
		Material:           b.MaterialText,
		Function:           b.FunctionText,
		EarthquakeZone:     zoneString(zoneName, zoneKnown),
		MaintenanceDate:    maintenanceString(b),

		HumanErrorFactor:          k1.Or(1),
		StaticalDeterminacyFactor: k3.Or(1),
		ConditionFactor:           k4.Or(1),
		OverpassFactor:            k6.Or(1),
		StaticCalculationFactor:   k7.Or(1),
		BridgeTypeFactor:          k8.Or(1),
		MaterialFactor:            k9.Or(1),
		RobustnessFactor:          k11.Or(1),
		EarthquakeFactor:          k13.Or(1),

		ProbabilityOfCollapse: probability,

		Axis:             td.Axis,
		AADT:             td.AADT,
		PercentageOfCars: td.PercentageOfCars,

		ReplacementCosts: costs.Replacement,
		VictimCosts:      costs.Victims,
		VehicleLossCosts: costs.VehicleLoss,
		DowntimeCosts:    costs.Downtime,
		DamageCosts:      total,

		Risk: probability * total,
	}
	return a, nil
}

func optIntString(v *int) string {
	if v == nil {
		return model.UnknownName
	}
	return strconv.Itoa(*v)
}

func ageString(age int, known bool) string {
	if !known {
		return model.UnknownName
	}
	return strconv.Itoa(age)
}

func floatString(v float64) string {
	if math.IsNaN(v) {
		return model.UnknownName
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func zoneString(name string, known bool) string {
	if !known {
		return model.UnknownName
	}
	return name
}

func maintenanceString(b *model.Bridge) string {
	if !b.HasMaintenanceDate() {
		return ""
	}
	return b.MaintenanceAcceptance.Format("2006-01-02")
}
