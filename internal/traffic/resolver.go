// Package traffic resolves inventory traffic-axis identifiers to average
// annual daily traffic and the car/truck split, backed by the monthly
// traffic survey workbook.
package traffic

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/sheet"
)

// Survey table layout. The workbook header rows are unlabeled, so columns
// are addressed by position.
const (
	axisColumn       = 4
	firstMonthColumn = 6
	lastMonthColumn  = 17

	// Heavy-vehicle counts sit a fixed number of rows below the total
	// counts of the same station.
	heavyVehicleRowOffset = 4
)

// Fallback values for axes the survey does not cover.
const (
	FallbackAADT             = 5000.0
	FallbackPercentageOfCars = 0.95
)

// Data is one resolved traffic assignment.
type Data struct {
	Axis             string
	AADT             float64
	PercentageOfCars float64
}

// Resolver answers axis lookups against a loaded survey table.
type Resolver struct {
	rows   [][]string
	byAxis map[string][]int
	log    *zap.Logger
}

// NewResolver indexes the raw survey rows by canonical axis name.
func NewResolver(rows [][]string) *Resolver {
	byAxis := make(map[string][]int)
	for i, row := range rows {
		if len(row) <= axisColumn {
			continue
		}
		axis := strings.TrimSpace(row[axisColumn])
		if axis == "" {
			continue
		}
		byAxis[axis] = append(byAxis[axis], i)
	}
	return &Resolver{
		rows:   rows,
		byAxis: byAxis,
		log:    zap.L().With(zap.String("component", "traffic")),
	}
}

// Load reads the survey workbook and builds a resolver over it.
func Load(path string) (*Resolver, error) {
	rows, err := sheet.Read(path, sheet.Options{})
	if err != nil {
		return nil, err
	}
	return NewResolver(rows), nil
}

// Resolve maps an axis label to traffic data. Unmapped axes and axes without
// usable survey rows resolve to the fixed fallback.
func (r *Resolver) Resolve(axis string) Data {
	canonical, ok := NormalizeAxis(axis)
	if !ok {
		return Data{Axis: axis, AADT: FallbackAADT, PercentageOfCars: FallbackPercentageOfCars}
	}

	aadt, percentageOfCars := r.surveyMeans(canonical)
	if math.IsNaN(aadt) {
		r.log.Debug("no usable survey data for axis, using fallback",
			zap.String("axis", canonical))
		return Data{Axis: canonical, AADT: FallbackAADT, PercentageOfCars: FallbackPercentageOfCars}
	}
	if math.IsNaN(percentageOfCars) {
		percentageOfCars = FallbackPercentageOfCars
	}
	return Data{Axis: canonical, AADT: aadt, PercentageOfCars: percentageOfCars}
}

// surveyMeans computes the AADT as the mean over matching rows of each row's
// twelve-month mean, and the car share from the heavy-vehicle rows at the
// fixed offset. Mean-of-means keeps stations with partial coverage from
// dominating the average.
func (r *Resolver) surveyMeans(canonical string) (aadt, percentageOfCars float64) {
	indices := r.byAxis[canonical]
	if len(indices) == 0 {
		return math.NaN(), math.NaN()
	}

	var totalMeans, heavyMeans []float64
	for _, i := range indices {
		if m, ok := rowMean(r.rows[i]); ok {
			totalMeans = append(totalMeans, m)
		}
		if j := i + heavyVehicleRowOffset; j < len(r.rows) {
			if m, ok := rowMean(r.rows[j]); ok {
				heavyMeans = append(heavyMeans, m)
			}
		}
	}

	total := mean(totalMeans)
	heavy := mean(heavyMeans)
	if math.IsNaN(total) || total == 0 {
		return math.NaN(), math.NaN()
	}
	if math.IsNaN(heavy) {
		return total, math.NaN()
	}
	return total, 1 - heavy/total
}

// rowMean averages the twelve month columns of one survey row, skipping
// cells that do not parse as numbers.
func rowMean(row []string) (float64, bool) {
	var sum float64
	var n int
	for col := firstMonthColumn; col <= lastMonthColumn && col < len(row); col++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
