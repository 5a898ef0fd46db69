package inventory

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// header maps column labels to their index in the sheet's first row.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, label := range row {
		h[strings.TrimSpace(label)] = i
	}
	return h
}

// cell returns the trimmed cell under the given label, or "".
func (h header) cell(row []string, label string) string {
	i, ok := h[strings.TrimSpace(label)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// require fails when any of the given labels is missing from the sheet.
func (h header) require(labels ...string) error {
	for _, label := range labels {
		if _, ok := h[strings.TrimSpace(label)]; !ok {
			return eris.Errorf("inventory: column %q not found", label)
		}
	}
	return nil
}

// parseFloat reads an optional float cell. Empty, unparsable and the "\"
// placeholder all yield NaN.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == `\` {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseYear reads an optional year cell. Zero and -1 are unknown sentinels.
func parseYear(s string) *int {
	v := parseFloat(s)
	if math.IsNaN(v) {
		return nil
	}
	y := int(v)
	if y <= 0 {
		return nil
	}
	return &y
}

// parseClass reads an optional condition class cell.
func parseClass(s string) *int {
	v := parseFloat(s)
	if math.IsNaN(v) {
		return nil
	}
	c := int(v)
	return &c
}

// parseCode reads a categorical code cell; unusable cells yield 0, which no
// code table maps.
func parseCode(s string) int {
	v := parseFloat(s)
	if math.IsNaN(v) {
		return 0
	}
	return int(v)
}

// dateLayouts lists the acceptance date formats seen in exports.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "2006-01-02 15:04:05"}

// parseDate reads an optional date cell.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseCheckPassed reads the earthquake assessment cell.
func parseCheckPassed(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "erfüllt" || s == "ja" || s == "true" || s == "1"
}
