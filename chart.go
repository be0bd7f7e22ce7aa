package sheetcore

import (
	"fmt"

	"github.com/aerissecure/sheetcore/sheet"
)

// DataRange addresses the block of cells a chart is built from. An empty
// Sheet means the sheet the chart is placed on.
type DataRange struct {
	Sheet string
	Start string // "A1"
	End   string // "C4"
}

func (r DataRange) String() string {
	return fmt.Sprintf("'%s'!%s:%s", r.Sheet, r.Start, r.End)
}

// ChartData snapshots a range for a chart's cached series data. caller is the
// sheet the chart is placed on. The returned DataRange has its sheet resolved.
func (d *Document) ChartData(caller string, r DataRange) ([][]*sheet.CellData, DataRange, error) {
	if r.Sheet == "" {
		r.Sheet = caller
	}
	ws := d.Sheet(r.Sheet)
	if ws == nil {
		return nil, r, fmt.Errorf("chart data sheet %q: %w", r.Sheet, ErrInvalidArgument)
	}
	start, err := sheet.ParseCoord(r.Start)
	if err != nil {
		return nil, r, err
	}
	end, err := sheet.ParseCoord(r.End)
	if err != nil {
		return nil, r, err
	}
	data, err := ws.Extract(start, end)
	if err != nil {
		return nil, r, fmt.Errorf("chart data %s: %w", r, err)
	}
	return data, r, nil
}

// NewChartWorkbook builds the standalone workbook embedded next to a chart:
// one sheet with rows written from A1 downwards.
func NewChartWorkbook(rows [][]*sheet.DataCell, opts ...Option) (*Document, error) {
	d, err := New(opts...)
	if err != nil {
		return nil, err
	}
	ws, err := d.AddSheet("Sheet1")
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := ws.SetRow(sheet.Coord{Row: i + 1, Col: 1}.String(), row, nil); err != nil {
			return nil, fmt.Errorf("chart row %d: %w", i+1, err)
		}
	}
	return d, nil
}
