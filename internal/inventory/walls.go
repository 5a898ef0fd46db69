package inventory

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/sheet"
)

// LoadWalls reads the support structure workbook.
func LoadWalls(path string) ([]model.SupportStructure, error) {
	rows, err := sheet.Read(path, sheet.Options{})
	if err != nil {
		return nil, eris.Wrapf(err, "inventory: read support structures %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("inventory: support structure sheet in %s is empty", path)
	}

	h := newHeader(rows[0])
	if err := h.require(labelAllBridgesNumber, labelWallEast, labelWallNorth); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "inventory"))
	walls := make([]model.SupportStructure, 0, len(rows)-1)
	var skipped int
	for _, row := range rows[1:] {
		number := parseCode(h.cell(row, labelAllBridgesNumber))
		if number == 0 {
			skipped++
			continue
		}
		walls = append(walls, model.SupportStructure{
			Number:                number,
			Name:                  h.cell(row, labelName),
			E:                     parseFloat(h.cell(row, labelWallEast)),
			N:                     parseFloat(h.cell(row, labelWallNorth)),
			YearOfConstruction:    parseYear(h.cell(row, labelYear)),
			ConditionClass:        parseClass(h.cell(row, labelWallCondition)),
			WallType:              h.cell(row, labelWallType),
			FunctionText:          h.cell(row, labelFunctionText),
			VisibleArea:           parseFloat(h.cell(row, labelWallArea)),
			MaxHeight:             parseFloat(h.cell(row, labelWallMaxHeight)),
			Length:                parseFloat(h.cell(row, labelWallLength)),
			ConsequenceOfCollapse: h.cell(row, labelWallConsequence),
			Axis:                  h.cell(row, labelAxis),
		})
	}
	log.Info("support structures loaded",
		zap.String("path", path),
		zap.Int("structures", len(walls)),
		zap.Int("skipped", skipped))
	return walls, nil
}
