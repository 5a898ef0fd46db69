// Package model defines the inventory entities and the flat assessment
// records produced by the risk engine.
package model

import (
	"math"
	"time"
)

// UnknownName is substituted for structures without a descriptive name.
const UnknownName = "unknown"

// maintenanceSentinel marks rows where the inventory carries the placeholder
// acceptance date 1900-01-01 instead of a real one.
var maintenanceSentinel = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Bridge is one row of the bridge inventory. Optional floats use NaN as the
// missing sentinel; optional ints use nil pointers.
type Bridge struct {
	Number int
	Name   string

	// LV95 projected coordinates; NaN when the inventory row has none.
	E float64
	N float64

	NormText           string
	YearOfConstruction *int
	Span               float64
	LargestSpan        float64
	Length             float64
	Width              float64
	TypeCode           int
	TypeText           string
	MaterialCode       int
	MaterialText       string
	ConditionClass     *int
	FunctionText       string
	Axis               string
	SkewDegrees        float64

	EarthquakeCheckPassed bool
	MaintenanceAcceptance time.Time
}

// SupportStructure is one row of the retaining/support wall inventory.
type SupportStructure struct {
	Number int
	Name   string

	E float64
	N float64

	YearOfConstruction    *int
	ConditionClass        *int
	WallType              string
	FunctionText          string
	VisibleArea           float64
	MaxHeight             float64
	Length                float64
	ConsequenceOfCollapse string
	Axis                  string
}

// HasPoint reports whether the bridge carries usable coordinates.
func (b *Bridge) HasPoint() bool {
	return !math.IsNaN(b.E) && !math.IsNaN(b.N)
}

// DisplayName returns the bridge name, or the unknown placeholder.
func (b *Bridge) DisplayName() string {
	if b.Name == "" {
		return UnknownName
	}
	return b.Name
}

// HasPoint reports whether the support structure carries usable coordinates.
func (s *SupportStructure) HasPoint() bool {
	return !math.IsNaN(s.E) && !math.IsNaN(s.N)
}

// DisplayName returns the structure name, or the unknown placeholder.
func (s *SupportStructure) DisplayName() string {
	if s.Name == "" {
		return UnknownName
	}
	return s.Name
}

// HasMaintenanceDate reports whether the bridge has a real maintenance
// acceptance date. The inventory uses 1900-01-01 as "none".
func (b *Bridge) HasMaintenanceDate() bool {
	return !b.MaintenanceAcceptance.IsZero() &&
		!b.MaintenanceAcceptance.Equal(maintenanceSentinel)
}

// Age returns the structure age in years, or false when the year of
// construction is unknown. Future construction years yield negative ages;
// the factor tables treat those as unknown-equivalent worst case.
func Age(yearOfConstruction *int, currentYear int) (int, bool) {
	if yearOfConstruction == nil {
		return 0, false
	}
	return currentYear - *yearOfConstruction, true
}
