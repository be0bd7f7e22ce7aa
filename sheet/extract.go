package sheet

import (
	"fmt"
)

// CellData is a typed, format-resolved cell value produced by Extract.
type CellData struct {
	Value        string
	Type         DataType
	NumberFormat string
}

// Extract projects the inclusive rectangle start..end into a rows x cols
// array. Slots of cells that are not stored stay nil, which is distinct from
// a stored empty string.
func (g *Grid) Extract(start, end Coord) ([][]*CellData, error) {
	if err := start.validate(); err != nil {
		return nil, err
	}
	if err := end.validate(); err != nil {
		return nil, err
	}
	if end.Row < start.Row || end.Col < start.Col {
		return nil, fmt.Errorf("range %s:%s is reversed: %w", start, end, ErrInvalidArgument)
	}

	rows := end.Row - start.Row + 1
	cols := end.Col - start.Col + 1
	out := make([][]*CellData, rows)
	for i := range out {
		out[i] = make([]*CellData, cols)
		row, ok := g.rows[start.Row+i]
		if !ok {
			continue
		}
		for j := range out[i] {
			cell, ok := row.cells[start.Col+j]
			if !ok {
				continue
			}
			cd, err := g.cellData(cell)
			if err != nil {
				return nil, err
			}
			out[i][j] = cd
		}
	}
	return out, nil
}

// ExtractRange is Extract over an A1 range reference.
func (g *Grid) ExtractRange(ref string) ([][]*CellData, error) {
	r, err := ParseMergeRange(ref)
	if err != nil {
		return nil, err
	}
	return g.Extract(r.TopLeft, r.BottomRight)
}

func (g *Grid) cellData(c *Cell) (*CellData, error) {
	text, err := g.Text(c)
	if err != nil {
		return nil, err
	}
	d, err := g.env.Styles.StyleForID(c.StyleID)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", c.Coord(), err)
	}
	return &CellData{Value: text, Type: c.Type, NumberFormat: d.NumberFormat}, nil
}
