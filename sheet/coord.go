package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Grid limits of the target format.
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// Coord is a 1-based cell coordinate.
type Coord struct {
	Row int
	Col int
}

// ParseCoord parses an A1-style reference such as "B12" or "$B$12".
func ParseCoord(ref string) (Coord, error) {
	norm := strings.ToUpper(strings.TrimSpace(ref))
	if bare := strings.TrimLeft(norm, "$"); bare == "" || bare[0] < 'A' || bare[0] > 'Z' {
		return Coord{}, fmt.Errorf("cell reference %q: missing column: %w", ref, ErrInvalidArgument)
	}
	cr, err := reference.ParseCellReference(norm)
	if err != nil {
		return Coord{}, fmt.Errorf("cell reference %q: %v: %w", ref, err, ErrInvalidArgument)
	}
	c := Coord{Row: int(cr.RowIdx), Col: int(cr.ColumnIdx) + 1}
	if err := c.validate(); err != nil {
		return Coord{}, fmt.Errorf("cell reference %q: %w", ref, err)
	}
	return c, nil
}

// ColumnIndex converts column letters ("A", "AB") to a 1-based index.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" || strings.Trim(letters, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return 0, fmt.Errorf("column %q: %w", letters, ErrInvalidArgument)
	}
	col := int(reference.ColumnToIndex(letters)) + 1
	if col > MaxColumns {
		return 0, fmt.Errorf("column %q beyond %d: %w", letters, MaxColumns, ErrInvalidArgument)
	}
	return col, nil
}

func (c Coord) validate() error {
	if c.Row < 1 || c.Row > MaxRows {
		return fmt.Errorf("row %d outside 1..%d: %w", c.Row, MaxRows, ErrInvalidArgument)
	}
	if c.Col < 1 || c.Col > MaxColumns {
		return fmt.Errorf("column %d outside 1..%d: %w", c.Col, MaxColumns, ErrInvalidArgument)
	}
	return nil
}

// String formats the coordinate in A1 notation.
func (c Coord) String() string {
	if c.Col < 1 {
		return "?" + strconv.Itoa(c.Row)
	}
	return reference.IndexToColumn(uint32(c.Col-1)) + strconv.Itoa(c.Row)
}

// MergeRange is an inclusive rectangle of cells.
type MergeRange struct {
	TopLeft     Coord
	BottomRight Coord
}

// ParseMergeRange parses "A1:C3". A single reference yields a one-cell range.
// The first corner must be the top-left one.
func ParseMergeRange(ref string) (MergeRange, error) {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, ":") {
		c, err := ParseCoord(ref)
		if err != nil {
			return MergeRange{}, err
		}
		return MergeRange{TopLeft: c, BottomRight: c}, nil
	}
	from, to, err := reference.ParseRangeReference(strings.ToUpper(ref))
	if err != nil {
		return MergeRange{}, fmt.Errorf("range reference %q: %v: %w", ref, err, ErrInvalidArgument)
	}
	r := MergeRange{
		TopLeft:     Coord{Row: int(from.RowIdx), Col: int(from.ColumnIdx) + 1},
		BottomRight: Coord{Row: int(to.RowIdx), Col: int(to.ColumnIdx) + 1},
	}
	if err := r.TopLeft.validate(); err != nil {
		return MergeRange{}, fmt.Errorf("range reference %q: %w", ref, err)
	}
	if err := r.BottomRight.validate(); err != nil {
		return MergeRange{}, fmt.Errorf("range reference %q: %w", ref, err)
	}
	if r.BottomRight.Row < r.TopLeft.Row || r.BottomRight.Col < r.TopLeft.Col {
		return MergeRange{}, fmt.Errorf("range reference %q is reversed: %w", ref, ErrInvalidArgument)
	}
	return r, nil
}

// Contains reports whether c lies inside the closed rectangle.
func (r MergeRange) Contains(c Coord) bool {
	return c.Row >= r.TopLeft.Row && c.Row <= r.BottomRight.Row &&
		c.Col >= r.TopLeft.Col && c.Col <= r.BottomRight.Col
}

func (r MergeRange) String() string {
	return r.TopLeft.String() + ":" + r.BottomRight.String()
}
