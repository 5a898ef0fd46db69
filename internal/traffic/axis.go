package traffic

import "strings"

// canonicalAxes maps the historical axis spellings found in the inventory to
// the canonical axis names the survey table uses. The same physical road
// appears under national-road numbering, compact spellings and older labels.
var canonicalAxes = map[string]string{
	"N01": "A 1", "N1": "A 1", "A1": "A 1",
	"N02": "A 2", "N2": "A 2", "A2": "A 2",
	"N03": "A 3", "N3": "A 3", "A3": "A 3",
	"N04": "A 4", "N4": "A 4", "A4": "A 4",
	"N05": "A 5", "N5": "A 5", "A5": "A 5",
	"N06": "A 6", "N6": "A 6", "A6": "A 6",
	"N07": "A 7", "N7": "A 7", "A7": "A 7",
	"N08": "A 8", "N8": "A 8", "A8": "A 8",
	"N09": "A 9", "N9": "A 9", "A9": "A 9",
	"N12": "A 12", "A12": "A 12",
	"N13": "A 13", "A13": "A 13",
	"N14": "A 14", "A14": "A 14",
	"N15": "A 15", "A15": "A 15",
	"N16": "A 16", "A16": "A 16",
	"N18": "A 18", "A18": "A 18",
	"N20": "A 20", "A20": "A 20",
	"N28": "A 28", "A28": "A 28",
}

// NormalizeAxis resolves a free-form axis label to its canonical survey name.
// Labels that already are canonical pass through; suffixed labels such as
// "N06.11" normalize on their road prefix.
func NormalizeAxis(axis string) (string, bool) {
	axis = strings.TrimSpace(axis)
	if axis == "" {
		return "", false
	}
	if canonical, ok := canonicalAxes[axis]; ok {
		return canonical, true
	}
	if dot := strings.IndexByte(axis, '.'); dot > 0 {
		if canonical, ok := canonicalAxes[axis[:dot]]; ok {
			return canonical, true
		}
	}
	// Already-canonical names map to themselves.
	for _, canonical := range canonicalAxes {
		if axis == canonical {
			return canonical, true
		}
	}
	return "", false
}
