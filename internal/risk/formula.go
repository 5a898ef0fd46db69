package risk

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Formula set tags. The engine has been recalibrated against the engineering
// standard several times; every table or constant that changed between
// calibrations lives in FormulaSet so a revision can be swapped without
// touching the aggregation pipeline.
const (
	RevisionCurrent = "2024-04"
	RevisionLegacy  = "2022-10"
)

// yearBracket maps construction/norm years below Before to a factor value.
type yearBracket struct {
	Before int
	Value  float64
}

// ageBucket maps ages up to and including UpTo to a hazard value.
type ageBucket struct {
	UpTo  int
	Value float64
}

// wallCell is one cell of the wall-type K8 table. The legacy revision carries
// an undefined cell; reading it is a contract violation.
type wallCell struct {
	Value   float64
	Defined bool
}

// FormulaSet holds every revision-dependent table and constant of the scoring
// engine. Obtain one via Current, Legacy or ForRevision; tweak documented
// open-question constants via ApplyOverrides.
type FormulaSet struct {
	Tag string

	// Bridge factor tables.
	humanErrorBrackets []yearBracket
	humanErrorUnknown  float64

	singleSpanFactor     float64
	continuousSpanFactor float64

	conditionH1        [4]float64 // class <3, <4, <5, else; unknown uses the worst
	ageH2              []ageBucket
	ageH2Unknown       float64

	overpassWater   float64
	overpassTraffic float64
	overpassNature  float64

	spanH3          [4]float64 // span <6, <12, <18, else
	staticCalcBase  float64
	staticCalcScale float64
	defaultSpan     float64

	bridgeTypeFactors map[BridgeFamily]float64
	bridgeTypeDefault float64

	materialFactors map[MaterialFamily]float64
	materialDefault float64

	robustnessFixed   bool
	robustnessValue   float64
	robustnessRamp    []yearBracket
	robustnessUnknown float64

	// K13: rows are construction-year brackets (<1970, <1989, <2003),
	// columns are zone groups (Z1, Z2, Z3). Years from 2003 on are exempt.
	earthquakeTable      [3][3]float64
	earthquakeModernYear int

	frameVulnerability    float64
	gerberVulnerability   float64
	highSkewVulnerability float64
	skewAttentionDegrees  float64
	skewDoubleDegrees     float64

	// Wall factor tables.
	wallBaseProbability    float64
	wallHumanErrorUnknown  float64
	wallHumanErrorBrackets []yearBracket
	wallConditionFactors   [6]float64 // index by class 1..5; 0 = unknown
	wallTypeTable          [4][2]wallCell
	wallMaterialConcrete   float64
	wallMaterialOther      float64
	visibleAreaBuckets     []ageBucket // keyed by m² (reuses the bucket shape)
	visibleAreaSmall       float64
	visibleAreaUnknown     float64
	heightBuckets          []ageBucket
	heightUnknown          float64
	precipitationFactors   map[int]float64

	// Cost constants.
	BridgeCostPerSquareMeter float64
	WallCostPerSquareMeter   float64
}

// Current returns the pinned default formula set.
func Current() *FormulaSet {
	fs := base()
	fs.Tag = RevisionCurrent

	fs.humanErrorBrackets = []yearBracket{
		{1967, 9}, {1973, 6}, {1979, 4}, {1985, 2}, {2003, 1},
		{1 << 30, 0.5},
	}
	fs.humanErrorUnknown = 9

	fs.staticCalcBase = 0.7
	fs.staticCalcScale = 5

	fs.bridgeTypeFactors = map[BridgeFamily]float64{
		FamilyPlate:      0.6,
		FamilyBeam:       0.6,
		FamilyArch:       1.6,
		FamilyFrame:      0.4,
		FamilySuspension: 17.5,
		FamilyOther:      5,
	}
	fs.bridgeTypeDefault = 0.4

	fs.materialDefault = 6.67

	fs.robustnessFixed = true
	fs.robustnessValue = 1

	// Legacy disagreement: the undefined cladding/valley-side cell is pinned
	// to 1.0 here, matching the most recent wall calibration.
	fs.wallTypeTable[2][0] = wallCell{Value: 1, Defined: true}

	fs.BridgeCostPerSquareMeter = 5500

	return fs
}

// Legacy returns the previous calibration, kept for result comparison runs.
func Legacy() *FormulaSet {
	fs := base()
	fs.Tag = RevisionLegacy

	fs.humanErrorBrackets = []yearBracket{
		{1967, 90}, {1973, 60}, {1979, 40}, {1985, 20}, {2003, 10},
		{1 << 30, 5},
	}
	fs.humanErrorUnknown = 90

	fs.staticCalcBase = 1.0
	fs.staticCalcScale = 1

	fs.bridgeTypeFactors = map[BridgeFamily]float64{
		FamilyPlate:      1,
		FamilyBeam:       0.6,
		FamilyArch:       1.6,
		FamilyFrame:      0.4,
		FamilySuspension: 17.5,
		FamilyOther:      5,
	}
	fs.bridgeTypeDefault = 1

	fs.materialDefault = 1

	fs.robustnessFixed = false
	fs.robustnessRamp = []yearBracket{
		{1968, 5}, {1973, 4.5}, {1980, 3.3}, {1986, 1.4}, {2003, 1.2},
		{1 << 30, 1},
	}
	fs.robustnessUnknown = 5

	// The legacy wall table carries an undefined cladding/valley-side cell.
	fs.wallTypeTable[2][0] = wallCell{}

	fs.BridgeCostPerSquareMeter = 5000

	return fs
}

// base returns the tables shared by every revision.
func base() *FormulaSet {
	return &FormulaSet{
		singleSpanFactor:     1,
		continuousSpanFactor: 0.014,

		conditionH1: [4]float64{1e-6, 3e-6, 1e-5, 3e-5},
		ageH2: []ageBucket{
			{1, 1.128e-6},
			{2, 2.112e-6 * 1.87},
			{5, 5.067e-6 * 4.49},
			{10, 9.712e-6 * 8.61},
			{15, 1.612e-5 * 14.29},
			{20, 2.066e-5 * 18.31},
			{30, 3.148e-5 * 27.91},
			{40, 4.025e-5 * 35.68},
			{50, 5.102e-5 * 45.22},
			{60, 6.079e-5 * 53.89},
			{70, 7.235e-5 * 64.13},
			{80, 8.117e-5 * 71.95},
			{90, 9.095e-5 * 80.62},
		},
		ageH2Unknown: 1.019e-4 * 90.31,

		overpassWater:   8.7,
		overpassTraffic: 5,
		overpassNature:  1,

		spanH3:      [4]float64{0.0023, 0.0047, 0.0291, 0.0238},
		defaultSpan: 25,

		materialFactors: map[MaterialFamily]float64{
			MaterialConcrete:      1,
			MaterialSteel:         5.67,
			MaterialMasonryTimber: 6.67,
			MaterialComposite:     1,
			MaterialOther:         6.67,
		},

		earthquakeTable: [3][3]float64{
			{2, 3, 4},     // built before 1970
			{1.5, 2, 3},   // before 1989
			{1.2, 1.5, 2}, // before 2003
		},
		earthquakeModernYear: 2003,

		frameVulnerability:    5.0 / 12,
		gerberVulnerability:   3,
		highSkewVulnerability: 6,
		skewAttentionDegrees:  75,
		skewDoubleDegrees:     100,

		wallBaseProbability:   1e-5,
		wallHumanErrorUnknown: 30,
		wallHumanErrorBrackets: []yearBracket{
			{1900, 30}, {1930, 20}, {1970, 10}, {1990, 5}, {1 << 30, 1},
		},
		wallConditionFactors: [6]float64{300, 1, 1, 10, 100, 300},
		wallTypeTable: [4][2]wallCell{
			{{1, true}, {2, true}},     // gravity
			{{1.4, true}, {1, true}},   // cantilever
			{{}, {1, true}},            // cladding; [0] is revision-dependent
			{{2.8, true}, {2.8, true}}, // other
		},
		wallMaterialConcrete: 1,
		wallMaterialOther:    2,
		visibleAreaBuckets: []ageBucket{
			{20, 1}, {100, 1.2}, {500, 1.4}, {1000, 1.8},
		},
		visibleAreaSmall:   2,
		visibleAreaUnknown: 2,
		heightBuckets: []ageBucket{
			{2, 1}, {5, 1.2}, {10, 1.5},
		},
		heightUnknown: 2,
		precipitationFactors: map[int]float64{
			1: 1.09, 2: 1.09, 3: 1.15, 4: 1, 5: 1.12, 6: 1.5, 7: 1.12, 8: 1.03,
		},

		WallCostPerSquareMeter: 2500,
	}
}

// ForRevision returns the formula set for the given tag.
func ForRevision(tag string) (*FormulaSet, error) {
	switch tag {
	case "", RevisionCurrent:
		return Current(), nil
	case RevisionLegacy:
		return Legacy(), nil
	default:
		return nil, eris.Errorf("risk: unknown formula revision %q", tag)
	}
}

// Overrides carries the calibration constants that the source standard leaves
// ambiguous. Each field patches one documented open question; nil fields keep
// the revision default.
type Overrides struct {
	// Replacement cost per m² of bridge deck. The standard documents three
	// candidate figures; the current revision pins 5500 CHF.
	BridgeCostPerSquareMeter *float64 `yaml:"bridge_cost_per_square_meter"`
	// K1 value for walls with an unknown construction year. Revisions
	// disagreed between 30 and "treat like pre-1900".
	WallHumanErrorUnknown *float64 `yaml:"wall_human_error_unknown"`
	// Cladding-wall valley-side cell of the wall K8 table, undefined in the
	// legacy calibration.
	WallCladdingValleyFactor *float64 `yaml:"wall_cladding_valley_factor"`
}

// LoadOverrides reads an override file. A missing path yields empty overrides.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return &Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "risk: read overrides %s", path)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, eris.Wrap(err, "risk: parse overrides")
	}
	return &o, nil
}

// ApplyOverrides patches the formula set in place.
func (fs *FormulaSet) ApplyOverrides(o *Overrides) {
	if o == nil {
		return
	}
	if o.BridgeCostPerSquareMeter != nil {
		fs.BridgeCostPerSquareMeter = *o.BridgeCostPerSquareMeter
	}
	if o.WallHumanErrorUnknown != nil {
		fs.wallHumanErrorUnknown = *o.WallHumanErrorUnknown
	}
	if o.WallCladdingValleyFactor != nil {
		fs.wallTypeTable[2][0] = wallCell{Value: *o.WallCladdingValleyFactor, Defined: true}
	}
}
