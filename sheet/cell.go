package sheet

import (
	"sort"

	"github.com/aerissecure/sheetcore/styles"
)

// DataType is the declared type of a cell value.
type DataType int

const (
	TypeText DataType = iota
	TypeNumber
	TypeDate
)

func (t DataType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeNumber:
		return "number"
	case TypeDate:
		return "date"
	}
	return "unknown"
}

// DataCell is the input of a cell write. An empty Value clears the cell.
// StyleID takes precedence over Style; with neither, the environment default
// style is used.
type DataCell struct {
	Value     string
	Type      DataType
	StyleID   *uint32
	Style     *styles.Descriptor
	Hyperlink *HyperlinkProperties
}

// Cell is a stored cell. For text cells Value holds the decimal shared-string
// index; number and date cells hold the literal value.
type Cell struct {
	Row     int
	Col     int
	Type    DataType
	Value   string
	StyleID uint32
	Link    *Hyperlink
}

// Coord returns the cell coordinate.
func (c *Cell) Coord() Coord {
	return Coord{Row: c.Row, Col: c.Col}
}

// RowProperties are applied to a row by SetRow.
type RowProperties struct {
	Height *float64 // points
	Hidden bool
}

// Row owns the cells stored at one row index.
type Row struct {
	Index  int
	Height *float64
	Hidden bool

	cells map[int]*Cell
}

func newRow(index int) *Row {
	return &Row{Index: index, cells: make(map[int]*Cell)}
}

// Cell returns the cell at col or nil.
func (r *Row) Cell(col int) *Cell {
	return r.cells[col]
}

// Cells returns the row's cells ordered by column.
func (r *Row) Cells() []*Cell {
	out := make([]*Cell, 0, len(r.cells))
	for _, c := range r.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Col < out[j].Col })
	return out
}

// Len returns the number of stored cells.
func (r *Row) Len() int {
	return len(r.cells)
}

// ColumnProperties are applied by SetColumn. BestFit and an explicit Width
// are mutually exclusive; when BestFit is set Width is ignored.
type ColumnProperties struct {
	Width   *float64 // characters
	Hidden  bool
	BestFit bool
}

// Column is a column width/visibility record.
type Column struct {
	Index   int
	Width   *float64
	Hidden  bool
	BestFit bool
}
