package risk

import (
	"math"

	"github.com/rotisserie/eris"
)

// Wall factor names.
const (
	FactorWallHumanError    = "K1"
	FactorWallCondition     = "K4"
	FactorWallType          = "K8"
	FactorWallMaterial      = "K9"
	FactorVisibleArea       = "K14"
	FactorHeight            = "K15"
	FactorPrecipitationZone = "K17"
)

// WallBaseProbability is the fixed failure base rate the wall K-factor
// product scales.
func (fs *FormulaSet) WallBaseProbability() float64 {
	return fs.wallBaseProbability
}

// WallHumanErrorFactor computes K1 for walls. The inventory encodes unknown
// years as absent, 0 or -1; those resolve to the configured unknown default.
func (fs *FormulaSet) WallHumanErrorFactor(yearOfConstruction *int) Factor {
	if yearOfConstruction == nil {
		return known(FactorWallHumanError, fs.wallHumanErrorUnknown)
	}
	return known(FactorWallHumanError, lookupYear(fs.wallHumanErrorBrackets, *yearOfConstruction))
}

// WallConditionFactor computes K4 for walls. Unknown classes use the worst
// value.
func (fs *FormulaSet) WallConditionFactor(conditionClass *int) Factor {
	if conditionClass == nil || *conditionClass < 1 || *conditionClass > 5 {
		return known(FactorWallCondition, fs.wallConditionFactors[0])
	}
	return known(FactorWallCondition, fs.wallConditionFactors[*conditionClass])
}

// WallTypeFactor computes K8 from the wall class and the side of the road
// the wall serves. Reading an undefined cell of the table is a contract
// violation and surfaces as an error rather than a silent default.
func (fs *FormulaSet) WallTypeFactor(wallType, functionText string) (Factor, error) {
	row := ClassifyWall(wallType)
	col := 0
	if IsOnSlopeSide(functionText) {
		col = 1
	}
	cell := fs.wallTypeTable[row][col]
	if !cell.Defined {
		return Factor{}, eris.Errorf(
			"risk: wall type table cell [%d][%d] is undefined in revision %s (wall type %q)",
			row, col, fs.Tag, wallType)
	}
	return known(FactorWallType, cell.Value), nil
}

// WallMaterialFactor computes K9: concrete construction against the rest.
func (fs *FormulaSet) WallMaterialFactor(wallType string) Factor {
	if concreteWallTypes[wallType] {
		return known(FactorWallMaterial, fs.wallMaterialConcrete)
	}
	return known(FactorWallMaterial, fs.wallMaterialOther)
}

// VisibleArea multiplies length and average height, or reports unknown.
func VisibleArea(length, averageHeight float64) (float64, bool) {
	if math.IsNaN(length) || math.IsNaN(averageHeight) {
		return 0, false
	}
	return length * averageHeight, true
}

// VisibleAreaFactor computes K14 from the visible wall area in m².
func (fs *FormulaSet) VisibleAreaFactor(visibleArea float64, areaKnown bool) Factor {
	if !areaKnown {
		return known(FactorVisibleArea, fs.visibleAreaUnknown)
	}
	if visibleArea < 5 {
		return known(FactorVisibleArea, fs.visibleAreaSmall)
	}
	for _, b := range fs.visibleAreaBuckets {
		if visibleArea <= float64(b.UpTo) {
			return known(FactorVisibleArea, b.Value)
		}
	}
	return known(FactorVisibleArea, fs.visibleAreaUnknown)
}

// HeightFactor computes K15 from the maximum wall height.
func (fs *FormulaSet) HeightFactor(maxHeight float64) Factor {
	if math.IsNaN(maxHeight) || maxHeight <= 0 {
		return known(FactorHeight, fs.heightUnknown)
	}
	for _, b := range fs.heightBuckets {
		if maxHeight < float64(b.UpTo) {
			return known(FactorHeight, b.Value)
		}
	}
	return known(FactorHeight, fs.heightUnknown)
}

// PrecipitationZoneFactor computes K17. The table covers exactly the zone ids
// 1..8; anything else means an upstream data assumption broke, which must
// surface instead of being patched over.
func (fs *FormulaSet) PrecipitationZoneFactor(zone int) (Factor, error) {
	v, ok := fs.precipitationFactors[zone]
	if !ok {
		return Factor{}, eris.Errorf("risk: precipitation zone %d outside the defined range 1..8", zone)
	}
	return known(FactorPrecipitationZone, v), nil
}
