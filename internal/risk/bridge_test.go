package risk

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestNormYear(t *testing.T) {
	tests := []struct {
		text string
		year int
		ok   bool
	}{
		{"1956, SIA 160", 1956, true},
		{"1913/15, Eisenbeton", 1913, true},
		{"2003, SIA 261", 2003, true},
		{"SIA 160", 0, false},
		{"", 0, false},
		{"unbekannt, SIA", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			year, ok := NormYear(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.year, year)
			}
		})
	}
}

func TestHumanErrorFactor_Current(t *testing.T) {
	fs := Current()

	tests := []struct {
		name     string
		normYear *int
		year     *int
		want     float64
	}{
		{"both unknown", nil, nil, 9},
		{"pre-1967 norm", intp(1950), nil, 9},
		{"1967 norm", intp(1967), nil, 6},
		{"1975 norm", intp(1975), nil, 4},
		{"1980 norm", intp(1980), nil, 2},
		{"1990 norm", intp(1990), nil, 1},
		{"modern norm", intp(2010), nil, 0.5},
		{"construction year fallback", nil, intp(1990), 1},
		{"norm year wins", intp(1970), intp(2010), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fs.HumanErrorFactor(tt.normYear, tt.year)
			require.True(t, f.Known)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestHumanErrorFactor_LegacyScale(t *testing.T) {
	fs := Legacy()
	assert.Equal(t, 90.0, fs.HumanErrorFactor(nil, nil).Value)
	assert.Equal(t, 10.0, fs.HumanErrorFactor(intp(1990), nil).Value)
	assert.Equal(t, 5.0, fs.HumanErrorFactor(intp(2010), nil).Value)
}

func TestStaticalDeterminacyFactor(t *testing.T) {
	fs := Current()

	f := fs.StaticalDeterminacyFactor(1111)
	require.True(t, f.Known)
	assert.Equal(t, 1.0, f.Value)

	f = fs.StaticalDeterminacyFactor(1112)
	require.True(t, f.Known)
	assert.Equal(t, 0.014, f.Value)

	f = fs.StaticalDeterminacyFactor(1193)
	assert.False(t, f.Known)
	assert.Equal(t, 1.0, f.Or(1))
}

func TestConditionFactor_ExhaustiveTable(t *testing.T) {
	fs := Current()

	h1 := func(class *int) float64 {
		switch {
		case class == nil:
			return 3e-5
		case *class < 3:
			return 1e-6
		case *class < 4:
			return 3e-6
		case *class < 5:
			return 1e-5
		default:
			return 3e-5
		}
	}
	h2 := map[int]float64{
		1:  1.128e-6,
		2:  2.112e-6 * 1.87,
		5:  5.067e-6 * 4.49,
		10: 9.712e-6 * 8.61,
		15: 1.612e-5 * 14.29,
		20: 2.066e-5 * 18.31,
		30: 3.148e-5 * 27.91,
		40: 4.025e-5 * 35.68,
		50: 5.102e-5 * 45.22,
		60: 6.079e-5 * 53.89,
		70: 7.235e-5 * 64.13,
		80: 8.117e-5 * 71.95,
		90: 9.095e-5 * 80.62,
	}

	classes := []*int{nil, intp(1), intp(2), intp(3), intp(4), intp(5)}
	for _, class := range classes {
		for age, wantH2 := range h2 {
			name := fmt.Sprintf("class=%v age=%d", class, age)
			t.Run(name, func(t *testing.T) {
				f := fs.ConditionFactor(class, age, true)
				require.True(t, f.Known)
				assert.InEpsilon(t, 0.7*h1(class)+0.3*wantH2, f.Value, 1e-12)
			})
		}
	}

	// Unknown and negative ages use the worst bucket.
	worst := 0.7*h1(intp(2)) + 0.3*1.019e-4*90.31
	f := fs.ConditionFactor(intp(2), 0, false)
	assert.InEpsilon(t, worst, f.Value, 1e-12)
	f = fs.ConditionFactor(intp(2), -3, true)
	assert.InEpsilon(t, worst, f.Value, 1e-12)

	// Old structures beyond the last bucket also use the worst value.
	f = fs.ConditionFactor(intp(2), 120, true)
	assert.InEpsilon(t, worst, f.Value, 1e-12)
}

func TestOverpassFactor(t *testing.T) {
	fs := Current()

	assert.Equal(t, 8.7, fs.OverpassFactor(CrossingWater).Value)
	assert.Equal(t, 8.7, fs.OverpassFactor(CrossingUnknown).Value)
	assert.Equal(t, 5.0, fs.OverpassFactor(CrossingTraffic).Value)
	assert.Equal(t, 1.0, fs.OverpassFactor(CrossingNature).Value)
}

func TestClassifyCrossing(t *testing.T) {
	tests := []struct {
		text string
		want Crossing
	}{
		{"Überquert Fluss", CrossingWater},
		{"Überquert Gewässer", CrossingWater},
		{"Überquert Strasse / Weg", CrossingTraffic},
		{"Überquert Bahnanlage", CrossingTraffic},
		{"Überquert Natur", CrossingNature},
		{"Überquert Leitungen", CrossingNature},
		{"", CrossingUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCrossing(tt.text))
		})
	}
}

func TestSpanForCalculation_FallbackChain(t *testing.T) {
	fs := Current()
	nan := math.NaN()

	assert.Equal(t, 42.0, fs.SpanForCalculation(42, 10, 50))
	assert.Equal(t, 10.0, fs.SpanForCalculation(nan, 10, 50))
	assert.Equal(t, 50.0, fs.SpanForCalculation(nan, nan, 50))
	assert.Equal(t, 50.0, fs.SpanForCalculation(0, 0, 50))
	assert.Equal(t, 25.0, fs.SpanForCalculation(nan, nan, nan))
}

func TestStaticCalculationFactor_Current(t *testing.T) {
	fs := Current()

	tests := []struct {
		span float64
		want float64
	}{
		{3, 0.7 + 5*0.0023},
		{8, 0.7 + 5*0.0047},
		{15, 0.7 + 5*0.0291},
		{25, 0.7 + 5*0.0238},
	}
	for _, tt := range tests {
		f := fs.StaticCalculationFactor(tt.span)
		require.True(t, f.Known)
		assert.InEpsilon(t, tt.want, f.Value, 1e-12)
	}
}

func TestBridgeTypeFactor_Current(t *testing.T) {
	fs := Current()

	tests := []struct {
		typeCode int
		want     float64
	}{
		{1193, 0.6},  // plate
		{1111, 0.6},  // beam
		{1124, 1.6},  // arch
		{1121, 0.4},  // frame
		{1132, 17.5}, // suspension
		{119, 5},     // other
		{9999, 0.4},  // unrecognized
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("type %d", tt.typeCode), func(t *testing.T) {
			assert.Equal(t, tt.want, fs.BridgeTypeFactor(tt.typeCode).Value)
		})
	}
}

func TestMaterialFactor_Current(t *testing.T) {
	fs := Current()

	tests := []struct {
		code int
		want float64
	}{
		{1121, 1},    // concrete
		{1125, 1},    // prestressed concrete
		{1141, 5.67}, // steel
		{1111, 6.67}, // masonry
		{117, 6.67},  // timber
		{1152, 1},    // composite
		{1162, 6.67}, // other
		{4242, 6.67}, // unrecognized
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("material %d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, fs.MaterialFactor(tt.code).Value)
		})
	}
}

func TestRobustnessFactor(t *testing.T) {
	// Current calibration is a fixed override, regardless of year.
	fs := Current()
	assert.Equal(t, 1.0, fs.RobustnessFactor(nil).Value)
	assert.Equal(t, 1.0, fs.RobustnessFactor(intp(1950)).Value)

	// Legacy still uses the construction-year ramp.
	legacy := Legacy()
	assert.Equal(t, 5.0, legacy.RobustnessFactor(nil).Value)
	assert.Equal(t, 5.0, legacy.RobustnessFactor(intp(1960)).Value)
	assert.Equal(t, 3.3, legacy.RobustnessFactor(intp(1975)).Value)
	assert.Equal(t, 1.0, legacy.RobustnessFactor(intp(2010)).Value)
}

func TestEarthquakeFactor_CheckPassedWins(t *testing.T) {
	fs := Current()
	f := fs.EarthquakeFactor(EarthquakeInput{
		ZoneName:           "Z3b",
		YearOfConstruction: intp(1950),
		CheckPassed:        true,
		TypeCode:           1121,
		SkewDegrees:        math.NaN(),
	})
	assert.Equal(t, 1.0, f.Value)
}

func TestEarthquakeFactor_StructuralVulnerability(t *testing.T) {
	fs := Current()
	nan := math.NaN()

	// Frame types use the frame vulnerability.
	f := fs.EarthquakeFactor(EarthquakeInput{ZoneName: "Z2", YearOfConstruction: intp(1950), TypeCode: 1121, SkewDegrees: nan})
	assert.InEpsilon(t, 5.0/12, f.Value, 1e-12)

	// Gerber girders get 3.
	f = fs.EarthquakeFactor(EarthquakeInput{ZoneName: "Z2", YearOfConstruction: intp(1950), TypeCode: 1113, SkewDegrees: nan})
	assert.Equal(t, 3.0, f.Value)

	// Ramp-named bridges get 3.
	f = fs.EarthquakeFactor(EarthquakeInput{ZoneName: "Z2", YearOfConstruction: intp(1950), TypeCode: 1193, Name: "Rampe Nord", SkewDegrees: nan})
	assert.Equal(t, 3.0, f.Value)

	// High skew escalates to 3, extreme skew doubles to 6.
	f = fs.EarthquakeFactor(EarthquakeInput{ZoneName: "Z2", YearOfConstruction: intp(1950), TypeCode: 1193, SkewDegrees: 80})
	assert.Equal(t, 3.0, f.Value)
	f = fs.EarthquakeFactor(EarthquakeInput{ZoneName: "Z2", YearOfConstruction: intp(1950), TypeCode: 1113, SkewDegrees: 120})
	assert.Equal(t, 6.0, f.Value)
}

func TestEarthquakeFactor_ZoneYearTable(t *testing.T) {
	fs := Current()
	nan := math.NaN()

	tests := []struct {
		zone string
		year int
		want float64
	}{
		{"Z1a", 1950, 2},
		{"Z2", 1950, 3},
		{"Z3b", 1950, 4},
		{"Z1b", 1980, 1.5},
		{"Z2", 1980, 2},
		{"Z3a", 1980, 3},
		{"Z1a", 1995, 1.2},
		{"Z2", 1995, 1.5},
		{"Z3a", 1995, 2},
		{"Z2", 2005, 1}, // modern code exemption
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %d", tt.zone, tt.year), func(t *testing.T) {
			f := fs.EarthquakeFactor(EarthquakeInput{
				ZoneName:           tt.zone,
				YearOfConstruction: intp(tt.year),
				TypeCode:           1193,
				SkewDegrees:        nan,
			})
			assert.Equal(t, tt.want, f.Value)
		})
	}

	// No resolvable zone assumes Z2.
	f := fs.EarthquakeFactor(EarthquakeInput{YearOfConstruction: intp(1950), TypeCode: 1193, SkewDegrees: nan})
	assert.Equal(t, 3.0, f.Value)

	// Unknown construction year uses the oldest (worst) bracket.
	f = fs.EarthquakeFactor(EarthquakeInput{ZoneName: "Z2", TypeCode: 1193, SkewDegrees: nan})
	assert.Equal(t, 3.0, f.Value)
}

func TestProbabilityOfCollapse_NeutralizesUnknown(t *testing.T) {
	p := ProbabilityOfCollapse(1,
		known("K1", 2),
		unknown("K3"),
		known("K4", 0.5),
	)
	assert.Equal(t, 1.0, p)
}

func TestProbabilityOfCollapse_Monotonicity(t *testing.T) {
	base := []Factor{
		known("K1", 2), known("K4", 1e-5), known("K7", 0.8), known("K8", 0.6),
	}
	p1 := ProbabilityOfCollapse(1, base...)

	// Increasing any single factor never decreases the product.
	for i := range base {
		raised := make([]Factor, len(base))
		copy(raised, base)
		raised[i].Value *= 1.5
		assert.GreaterOrEqual(t, ProbabilityOfCollapse(1, raised...), p1)
	}
}

func TestForRevision(t *testing.T) {
	fs, err := ForRevision("")
	require.NoError(t, err)
	assert.Equal(t, RevisionCurrent, fs.Tag)

	fs, err = ForRevision(RevisionLegacy)
	require.NoError(t, err)
	assert.Equal(t, RevisionLegacy, fs.Tag)

	_, err = ForRevision("1999-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formula revision")
}
