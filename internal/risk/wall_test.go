package risk

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallHumanErrorFactor(t *testing.T) {
	fs := Current()

	tests := []struct {
		name string
		year *int
		want float64
	}{
		{"unknown", nil, 30},
		{"pre-1900", intp(1880), 30},
		{"1900", intp(1900), 20},
		{"1950", intp(1950), 10},
		{"1975", intp(1975), 5},
		{"1995", intp(1995), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fs.WallHumanErrorFactor(tt.year).Value)
		})
	}
}

func TestWallConditionFactor(t *testing.T) {
	fs := Current()

	want := map[int]float64{1: 1, 2: 1, 3: 10, 4: 100, 5: 300}
	for class, value := range want {
		assert.Equal(t, value, fs.WallConditionFactor(intp(class)).Value, "class %d", class)
	}
	assert.Equal(t, 300.0, fs.WallConditionFactor(nil).Value)
	assert.Equal(t, 300.0, fs.WallConditionFactor(intp(0)).Value)
	assert.Equal(t, 300.0, fs.WallConditionFactor(intp(9)).Value)
}

func TestWallTypeFactor(t *testing.T) {
	fs := Current()

	tests := []struct {
		wallType string
		function string
		want     float64
	}{
		{"Schwergewichtsmauer in Beton", "", 1},
		{"Schwergewichtsmauer in Beton", "Stützt Strasse / Weg", 2},
		{"Winkelstützmauer", "", 1.4},
		{"Winkelstützmauer", "Schützt Natur", 1},
		{"", "", 1.4}, // empty type is treated as a cantilever wall
		{"Verkleidungsmauer", "Stützt Verkehrswege", 1},
		{"Nagelwand", "", 2.8},
		{"Nagelwand", "Trägt Strasse / Weg", 2.8},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.wallType, tt.function), func(t *testing.T) {
			f, err := fs.WallTypeFactor(tt.wallType, tt.function)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestWallTypeFactor_UndefinedLegacyCell(t *testing.T) {
	// The legacy table never defined the cladding wall valley-side cell.
	legacy := Legacy()
	_, err := legacy.WallTypeFactor("Verkleidungsmauer", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined in revision 2022-10")

	// The current calibration pins it to 1.
	f, err := Current().WallTypeFactor("Verkleidungsmauer", "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Value)
}

func TestWallMaterialFactor(t *testing.T) {
	fs := Current()

	assert.Equal(t, 1.0, fs.WallMaterialFactor("Schwergewichtsmauer in Beton").Value)
	assert.Equal(t, 1.0, fs.WallMaterialFactor("Spritzbeton").Value)
	assert.Equal(t, 2.0, fs.WallMaterialFactor("Trockenmauer").Value)
	assert.Equal(t, 2.0, fs.WallMaterialFactor("").Value)
}

func TestVisibleArea(t *testing.T) {
	area, ok := VisibleArea(30, 4)
	require.True(t, ok)
	assert.Equal(t, 120.0, area)

	_, ok = VisibleArea(math.NaN(), 4)
	assert.False(t, ok)
	_, ok = VisibleArea(30, math.NaN())
	assert.False(t, ok)
}

func TestVisibleAreaFactor(t *testing.T) {
	fs := Current()

	tests := []struct {
		area float64
		want float64
	}{
		{4, 2},
		{5, 1},
		{20, 1},
		{21, 1.2},
		{100, 1.2},
		{500, 1.4},
		{501, 1.8},
		{1000, 1.8},
		{1001, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("area %.0f", tt.area), func(t *testing.T) {
			assert.Equal(t, tt.want, fs.VisibleAreaFactor(tt.area, true).Value)
		})
	}
	assert.Equal(t, 2.0, fs.VisibleAreaFactor(0, false).Value)
}

func TestHeightFactor(t *testing.T) {
	fs := Current()

	tests := []struct {
		height float64
		want   float64
	}{
		{1.5, 1},
		{2, 1.2},
		{4.9, 1.2},
		{5, 1.5},
		{9.9, 1.5},
		{10, 2},
		{25, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("height %.1f", tt.height), func(t *testing.T) {
			assert.Equal(t, tt.want, fs.HeightFactor(tt.height).Value)
		})
	}
	assert.Equal(t, 2.0, fs.HeightFactor(math.NaN()).Value)
	assert.Equal(t, 2.0, fs.HeightFactor(0).Value)
}

func TestPrecipitationZoneFactor(t *testing.T) {
	fs := Current()

	want := map[int]float64{
		1: 1.09, 2: 1.09, 3: 1.15, 4: 1, 5: 1.12, 6: 1.5, 7: 1.12, 8: 1.03,
	}
	for zone, value := range want {
		f, err := fs.PrecipitationZoneFactor(zone)
		require.NoError(t, err, "zone %d", zone)
		assert.Equal(t, value, f.Value, "zone %d", zone)
	}

	for _, zone := range []int{0, 9, -1, 42} {
		_, err := fs.PrecipitationZoneFactor(zone)
		require.Error(t, err, "zone %d", zone)
		assert.Contains(t, err.Error(), "outside the defined range")
	}
}

func TestWallBaseProbability(t *testing.T) {
	assert.Equal(t, 1e-5, Current().WallBaseProbability())
	assert.Equal(t, 1e-5, Legacy().WallBaseProbability())
}

func TestClassifyWall(t *testing.T) {
	tests := []struct {
		wallType string
		want     WallClass
	}{
		{"Schwergewichtsmauer in Mauerwerk", WallGravity},
		{"Steinkorbmauer", WallGravity},
		{"Winkelstützmauer mit Querträger(n)", WallCantilever},
		{"", WallCantilever},
		{"Verkleidungsmauer", WallCladding},
		{"Verankerte Verkleidungsmauer", WallCladding},
		{"Nagelwand", WallOther},
		{"Pfahlwand", WallOther},
	}
	for _, tt := range tests {
		t.Run(tt.wallType, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWall(tt.wallType))
		})
	}
}
