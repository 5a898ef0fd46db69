package risk

import (
	"math"
	"strconv"
	"strings"
)

// Factor names as they appear in diagnostics and output records.
const (
	FactorHumanError          = "K1"
	FactorStaticalDeterminacy = "K3"
	FactorCondition           = "K4"
	FactorOverpass            = "K6"
	FactorStaticCalculation   = "K7"
	FactorBridgeType          = "K8"
	FactorMaterial            = "K9"
	FactorRobustness          = "K11"
	FactorEarthquake          = "K13"
)

// NormYear extracts the norm generation year from the load norm text.
// Texts look like "1956, SIA 160" or "1913/15, Eisenbeton"; a text without a
// year prefix yields false.
func NormYear(normText string) (int, bool) {
	segments := strings.Split(normText, ",")
	if len(segments) < 2 {
		return 0, false
	}
	year := strings.TrimSpace(segments[0])
	if slash := strings.IndexByte(year, '/'); slash >= 0 {
		year = year[:slash]
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HumanErrorFactor computes K1. The relevant year is the norm year, falling
// back to the year of construction; with both unknown the table's worst
// bracket applies.
func (fs *FormulaSet) HumanErrorFactor(normYear, yearOfConstruction *int) Factor {
	relevantYear := normYear
	if relevantYear == nil {
		relevantYear = yearOfConstruction
	}
	if relevantYear == nil {
		return known(FactorHumanError, fs.humanErrorUnknown)
	}
	return known(FactorHumanError, lookupYear(fs.humanErrorBrackets, *relevantYear))
}

// StaticalDeterminacyFactor computes K3. Only single-span and continuous
// girders are covered by the standard; other types are undeterminable.
func (fs *FormulaSet) StaticalDeterminacyFactor(typeCode int) Factor {
	switch typeCode {
	case 1111:
		return known(FactorStaticalDeterminacy, fs.singleSpanFactor)
	case 1112:
		return known(FactorStaticalDeterminacy, fs.continuousSpanFactor)
	default:
		return unknown(FactorStaticalDeterminacy)
	}
}

// ConditionFactor computes Pf×K4 as 0.7·H1(condition class) + 0.3·H2(age).
// Unknown classes and unknown or negative ages (future construction dates
// occur in the inventory) use the worst bucket of the respective table.
func (fs *FormulaSet) ConditionFactor(conditionClass *int, age int, ageKnown bool) Factor {
	h1 := fs.conditionH1[3]
	if conditionClass != nil {
		switch {
		case *conditionClass < 3:
			h1 = fs.conditionH1[0]
		case *conditionClass < 4:
			h1 = fs.conditionH1[1]
		case *conditionClass < 5:
			h1 = fs.conditionH1[2]
		}
	}

	h2 := fs.ageH2Unknown
	if ageKnown && age >= 0 {
		for _, b := range fs.ageH2 {
			if age <= b.UpTo {
				h2 = b.Value
				break
			}
		}
	}

	return known(FactorCondition, 0.7*h1+0.3*h2)
}

// OverpassFactor computes K6 from the crossing kind. Unknown crossings get
// the water-crossing worst case.
func (fs *FormulaSet) OverpassFactor(crossing Crossing) Factor {
	switch crossing {
	case CrossingWater, CrossingUnknown:
		return known(FactorOverpass, fs.overpassWater)
	case CrossingTraffic:
		return known(FactorOverpass, fs.overpassTraffic)
	default:
		return known(FactorOverpass, fs.overpassNature)
	}
}

// SpanForCalculation resolves the span used by K7 through the fallback chain
// largest span → span → length → 25 m default.
func (fs *FormulaSet) SpanForCalculation(largestSpan, span, length float64) float64 {
	for _, v := range []float64{largestSpan, span, length} {
		if !math.IsNaN(v) && v > 0 {
			return v
		}
	}
	return fs.defaultSpan
}

// StaticCalculationFactor computes K7 from the resolved span.
func (fs *FormulaSet) StaticCalculationFactor(span float64) Factor {
	var h3 float64
	switch {
	case span < 6:
		h3 = fs.spanH3[0]
	case span < 12:
		h3 = fs.spanH3[1]
	case span < 18:
		h3 = fs.spanH3[2]
	default:
		h3 = fs.spanH3[3]
	}
	return known(FactorStaticCalculation, fs.staticCalcBase+fs.staticCalcScale*h3)
}

// BridgeTypeFactor computes K8 from the type family.
func (fs *FormulaSet) BridgeTypeFactor(typeCode int) Factor {
	family, ok := ClassifyBridgeType(typeCode)
	if !ok {
		return known(FactorBridgeType, fs.bridgeTypeDefault)
	}
	return known(FactorBridgeType, fs.bridgeTypeFactors[family])
}

// MaterialFactor computes K9 from the material family.
func (fs *FormulaSet) MaterialFactor(materialCode int) Factor {
	family, ok := ClassifyMaterial(materialCode)
	if !ok {
		return known(FactorMaterial, fs.materialDefault)
	}
	return known(FactorMaterial, fs.materialFactors[family])
}

// RobustnessFactor computes K11. The current calibration supersedes the old
// year-of-construction ramp with a fixed value.
func (fs *FormulaSet) RobustnessFactor(yearOfConstruction *int) Factor {
	if fs.robustnessFixed {
		return known(FactorRobustness, fs.robustnessValue)
	}
	if yearOfConstruction == nil {
		return known(FactorRobustness, fs.robustnessUnknown)
	}
	return known(FactorRobustness, lookupYear(fs.robustnessRamp, *yearOfConstruction))
}

// EarthquakeInput carries the attributes driving K13.
type EarthquakeInput struct {
	ZoneName           string // empty when the structure has no zone
	YearOfConstruction *int
	CheckPassed        bool
	TypeCode           int
	Name               string
	SkewDegrees        float64 // NaN when unknown
}

// EarthquakeFactor computes K13. A passed earthquake assessment exempts the
// structure entirely. Otherwise a structural vulnerability factor applies for
// the type codes it is defined for, and the zone × construction-year
// escalation table covers the rest. Structures built after the modern norm
// year are exempt from the escalation.
func (fs *FormulaSet) EarthquakeFactor(in EarthquakeInput) Factor {
	if in.CheckPassed {
		return known(FactorEarthquake, 1)
	}

	if h4, ok := fs.structuralVulnerability(in); ok {
		return known(FactorEarthquake, h4)
	}

	year := 0
	if in.YearOfConstruction != nil {
		year = *in.YearOfConstruction
	}
	if year >= fs.earthquakeModernYear {
		return known(FactorEarthquake, 1)
	}

	row := 2
	switch {
	case year < 1970:
		row = 0
	case year < 1989:
		row = 1
	}

	return known(FactorEarthquake, fs.earthquakeTable[row][zoneGroup(in.ZoneName)])
}

// structuralVulnerability computes the H4 override where determinable.
func (fs *FormulaSet) structuralVulnerability(in EarthquakeInput) (float64, bool) {
	switch in.TypeCode {
	case 1121, 1122:
		return fs.frameVulnerability, true
	}

	highSkew := !math.IsNaN(in.SkewDegrees) && in.SkewDegrees > fs.skewAttentionDegrees
	rampNamed := strings.Contains(strings.ToLower(in.Name), "rampe")
	if in.TypeCode == 1113 || rampNamed || highSkew {
		if !math.IsNaN(in.SkewDegrees) && in.SkewDegrees > fs.skewDoubleDegrees {
			return fs.highSkewVulnerability, true
		}
		return fs.gerberVulnerability, true
	}

	return 0, false
}

// zoneGroup maps a zone name to the escalation table column. Structures
// without a resolvable zone are assumed to sit in Z2.
func zoneGroup(zoneName string) int {
	switch zoneName {
	case "Z1a", "Z1b":
		return 0
	case "Z3a", "Z3b":
		return 2
	default:
		return 1
	}
}

// lookupYear returns the value of the first bracket the year falls under.
// The last bracket is an open upper bound.
func lookupYear(brackets []yearBracket, year int) float64 {
	for _, b := range brackets {
		if year < b.Before {
			return b.Value
		}
	}
	return brackets[len(brackets)-1].Value
}
