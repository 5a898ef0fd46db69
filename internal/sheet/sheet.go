// Package sheet reads the Excel workbooks the inventory exports come in:
// structure inventories, condition surveys and the traffic census.
package sheet

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Options selects the worksheet and the rows to read.
type Options struct {
	Index    int    // default 0
	Name     string // if set, overrides Index
	SkipRows int    // number of leading rows to drop
}

// Read returns the rows of a worksheet as string slices. Cell values are
// rendered the way Excel displays them, so numeric columns come back as
// text and are parsed by the caller.
func Read(path string, opts Options) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open %s", path)
	}

	ws, err := worksheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range ws.Rows {
		if i < opts.SkipRows {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func worksheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.Name != "" {
		ws, ok := f.Sheet[opts.Name]
		if !ok {
			return nil, eris.Errorf("sheet: worksheet %q not found", opts.Name)
		}
		return ws, nil
	}
	if opts.Index >= len(f.Sheets) {
		return nil, eris.Errorf("sheet: worksheet index %d out of range (file has %d sheets)", opts.Index, len(f.Sheets))
	}
	return f.Sheets[opts.Index], nil
}
