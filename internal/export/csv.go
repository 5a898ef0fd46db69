// Package export writes assessment results to CSV and formats amounts for
// terminal output.
package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
)

// bridgeColumns defines the ordered bridge CSV output columns.
var bridgeColumns = []string{
	"number",
	"name",
	"norm_year",
	"year_of_construction",
	"age",
	"span",
	"type",
	"material",
	"function",
	"earthquake_zone",
	"maintenance_date",
	"k1_human_error",
	"k3_statical_determinacy",
	"k4_condition",
	"k6_overpass",
	"k7_static_calculation",
	"k8_bridge_type",
	"k9_material",
	"k11_robustness",
	"k13_earthquake",
	"probability_of_collapse",
	"axis",
	"aadt",
	"percentage_of_cars",
	"replacement_costs",
	"victim_costs",
	"vehicle_loss_costs",
	"downtime_costs",
	"damage_costs",
	"risk",
}

// wallColumns defines the ordered support structure CSV output columns.
var wallColumns = []string{
	"number",
	"name",
	"year_of_construction",
	"age",
	"condition_class",
	"wall_type",
	"function",
	"precipitation_zone",
	"k1_human_error",
	"k4_condition",
	"k8_type",
	"k9_material",
	"k14_visible_area",
	"k15_height",
	"k17_precipitation_zone",
	"probability_of_collapse",
	"axis",
	"aadt",
	"percentage_of_cars",
	"replacement_costs",
	"victim_costs",
	"vehicle_loss_costs",
	"downtime_costs",
	"damage_costs",
	"risk",
}

// WriteBridgeCSV writes bridge assessments to a CSV file.
func WriteBridgeCSV(items []model.BridgeAssessment, outputPath string) error {
	rows := make([][]string, len(items))
	for i, a := range items {
		rows[i] = bridgeRow(a)
	}
	return writeCSV(outputPath, bridgeColumns, rows)
}

// WriteWallCSV writes support structure assessments to a CSV file.
func WriteWallCSV(items []model.WallAssessment, outputPath string) error {
	rows := make([][]string, len(items))
	for i, a := range items {
		rows[i] = wallRow(a)
	}
	return writeCSV(outputPath, wallColumns, rows)
}

func writeCSV(outputPath string, columns []string, rows [][]string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

func bridgeRow(a model.BridgeAssessment) []string {
	return []string{
		strconv.Itoa(a.Number),
		a.Name,
		a.NormYear,
		a.YearOfConstruction,
		a.Age,
		a.Span,
		a.Type,
		a.Material,
		a.Function,
		a.EarthquakeZone,
		a.MaintenanceDate,
		num(a.HumanErrorFactor),
		num(a.StaticalDeterminacyFactor),
		num(a.ConditionFactor),
		num(a.OverpassFactor),
		num(a.StaticCalculationFactor),
		num(a.BridgeTypeFactor),
		num(a.MaterialFactor),
		num(a.RobustnessFactor),
		num(a.EarthquakeFactor),
		num(a.ProbabilityOfCollapse),
		a.Axis,
		num(a.AADT),
		num(a.PercentageOfCars),
		num(a.ReplacementCosts),
		num(a.VictimCosts),
		num(a.VehicleLossCosts),
		num(a.DowntimeCosts),
		num(a.DamageCosts),
		num(a.Risk),
	}
}

func wallRow(a model.WallAssessment) []string {
	return []string{
		strconv.Itoa(a.Number),
		a.Name,
		a.YearOfConstruction,
		a.Age,
		a.ConditionClass,
		a.WallType,
		a.Function,
		a.PrecipitationZone,
		num(a.HumanErrorFactor),
		num(a.ConditionFactor),
		num(a.TypeFactor),
		num(a.MaterialFactor),
		num(a.VisibleAreaFactor),
		num(a.HeightFactor),
		num(a.PrecipitationZoneFactor),
		num(a.ProbabilityOfCollapse),
		a.Axis,
		num(a.AADT),
		num(a.PercentageOfCars),
		num(a.ReplacementCosts),
		num(a.VictimCosts),
		num(a.VehicleLossCosts),
		num(a.DowntimeCosts),
		num(a.DamageCosts),
		num(a.Risk),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
