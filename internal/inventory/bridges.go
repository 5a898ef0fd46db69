package inventory

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/sheet"
)

// BridgeSheetName is the workbook sheet carrying the merged bridge export.
const BridgeSheetName = "Alle Brücken mit Zusatzinfos"

// LoadBridges reads the bridge workbook. Rows without an inventory number
// are skipped; all other fields degrade to their unknown sentinels.
func LoadBridges(path string) ([]model.Bridge, error) {
	rows, err := sheet.Read(path, sheet.Options{Name: BridgeSheetName})
	if err != nil {
		// Single-sheet exports omit the sheet name.
		rows, err = sheet.Read(path, sheet.Options{})
		if err != nil {
			return nil, eris.Wrapf(err, "inventory: read bridges %s", path)
		}
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("inventory: bridge sheet in %s is empty", path)
	}

	h := newHeader(rows[0])
	if err := h.require(labelNumber, labelEast, labelNorth); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "inventory"))
	bridges := make([]model.Bridge, 0, len(rows)-1)
	var skipped int
	for _, row := range rows[1:] {
		number := parseCode(h.cell(row, labelNumber))
		if number == 0 {
			skipped++
			continue
		}
		bridges = append(bridges, model.Bridge{
			Number:                number,
			Name:                  h.cell(row, labelName),
			E:                     parseFloat(h.cell(row, labelEast)),
			N:                     parseFloat(h.cell(row, labelNorth)),
			NormText:              h.cell(row, labelNormYear),
			YearOfConstruction:    parseYear(h.cell(row, labelYear)),
			Span:                  parseFloat(h.cell(row, labelSpan)),
			LargestSpan:           parseFloat(h.cell(row, labelLargestSpan)),
			Length:                parseFloat(h.cell(row, labelLength)),
			Width:                 parseFloat(h.cell(row, labelWidth)),
			TypeCode:              parseCode(h.cell(row, labelTypeCode)),
			TypeText:              h.cell(row, labelTypeText),
			MaterialCode:          parseCode(h.cell(row, labelMaterialCode)),
			MaterialText:          h.cell(row, labelMaterialText),
			ConditionClass:        parseClass(h.cell(row, labelConditionClass)),
			FunctionText:          h.cell(row, labelFunctionText),
			Axis:                  h.cell(row, labelAxis),
			SkewDegrees:           parseFloat(h.cell(row, labelSkew)),
			EarthquakeCheckPassed: parseCheckPassed(h.cell(row, labelEarthquakeCheck)),
			MaintenanceAcceptance: parseDate(h.cell(row, labelMaintenanceDate)),
		})
	}
	log.Info("bridges loaded",
		zap.String("path", path),
		zap.Int("bridges", len(bridges)),
		zap.Int("skipped", skipped))
	return bridges, nil
}
