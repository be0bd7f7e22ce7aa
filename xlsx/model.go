package xlsx

import (
	"fmt"
)

// Intermediate representation of the HTML preview.

// Pixel values are floats to allow fractional widths/heights.

// CellStyle is the subset of a cell format the preview can express in CSS.
// It is comparable and doubles as the key of the generated css classes.
type CellStyle struct {
	FontFamily      string  // e.g. "Calibri"
	FontSizePt      float64 // original size in points
	FontColor       string  // "RRGGBB"
	Bold            bool
	Italic          bool
	Underline       bool
	BackgroundColor string // "RRGGBB"
	BorderColor     string // first edge with a style, left to bottom
	HorizontalAlign string // left|center|right|justify
	VerticalAlign   string // top|middle|bottom
	WrapText        bool
}

func (s CellStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontSizePt: %g, FontColor: %s, Bold: %t, Italic: %t, Underline: %t, BackgroundColor: %s, BorderColor: %s, HorizontalAlign: %s, VerticalAlign: %s, WrapText: %t",
		s.FontFamily, s.FontSizePt, s.FontColor, s.Bold, s.Italic, s.Underline, s.BackgroundColor, s.BorderColor, s.HorizontalAlign, s.VerticalAlign, s.WrapText)
}

// RenderCell is a single cell, or the master cell of a merged range.
type RenderCell struct {
	Ref     string // e.g. "A1"
	Value   string
	Link    string // href, empty without a hyperlink
	Tooltip string
	ColSpan int // 1 if not merged
	RowSpan int // 1 if not merged
	Style   CellStyle
}

func (c RenderCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %s, Link: %s, ColSpan: %d, RowSpan: %d, Style: %s", c.Ref, c.Value, c.Link, c.ColSpan, c.RowSpan, c.Style)
}

// RenderRow is one row of a sheet.
type RenderRow struct {
	HeightPx float64
	Hidden   bool
	Cells    []*RenderCell // len == column count of the sheet; nil for blank or covered cells
	Covered  []bool        // true where a merged range hides the slot
}

// RenderSheet is one worksheet.
type RenderSheet struct {
	Name      string
	ColWidths []float64 // px per column
	ColHidden []bool
	Rows      []RenderRow
}

func (s RenderSheet) String() string {
	return fmt.Sprintf("Name: %s, ColWidths: %v, ColHidden: %v, Rows: %d", s.Name, s.ColWidths, s.ColHidden, len(s.Rows))
}

// WorkbookModel holds every sheet of a document.
type WorkbookModel struct {
	Sheets []RenderSheet
}
