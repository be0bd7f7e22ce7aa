// Package xlsx renders a document model into an HTML table preview.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/aerissecure/sheetcore/sheet"
	"github.com/aerissecure/sheetcore/styles"
)

// ptToPx converts points to CSS pixels.
const ptToPx = 1.333

// Options control the geometry of the preview.
type Options struct {
	PxPerChar          float64 // column width unit to px
	DefaultColumnChars float64
	DefaultRowHeightPt float64
}

// targetResolver is implemented by relationship parts that can report the
// target of an external hyperlink.
type targetResolver interface {
	Target(id string) (string, bool)
}

type mergeSpan struct {
	rowSpan, colSpan int
}

// BuildWorkbookModel projects worksheets into the preview representation.
func BuildWorkbookModel(sheets []*sheet.Worksheet, opts Options) (WorkbookModel, error) {
	var model WorkbookModel
	for _, ws := range sheets {
		rs, err := buildSheet(ws, opts)
		if err != nil {
			return WorkbookModel{}, fmt.Errorf("sheet %q: %w", ws.Name(), err)
		}
		model.Sheets = append(model.Sheets, rs)
	}
	return model, nil
}

func buildSheet(ws *sheet.Worksheet, opts Options) (RenderSheet, error) {
	maxRows, maxCols := extent(ws)
	rs := RenderSheet{
		Name:      ws.Name(),
		ColWidths: make([]float64, maxCols),
		ColHidden: make([]bool, maxCols),
		Rows:      make([]RenderRow, maxRows),
	}

	for c := range rs.ColWidths {
		rs.ColWidths[c] = opts.DefaultColumnChars * opts.PxPerChar
		col := ws.Column(c + 1)
		if col == nil {
			continue
		}
		if col.Width != nil {
			rs.ColWidths[c] = *col.Width * opts.PxPerChar
		}
		rs.ColHidden[c] = col.Hidden
	}

	// master cells keyed by 0-based row/col; covered cells are skipped
	masters := make(map[[2]int]mergeSpan)
	covered := make(map[[2]int]bool)
	for _, mr := range ws.Merges().ListRanges() {
		top, left := mr.TopLeft.Row-1, mr.TopLeft.Col-1
		bottom, right := mr.BottomRight.Row-1, mr.BottomRight.Col-1
		masters[[2]int{top, left}] = mergeSpan{rowSpan: bottom - top + 1, colSpan: right - left + 1}
		for r := top; r <= bottom; r++ {
			for c := left; c <= right; c++ {
				if r != top || c != left {
					covered[[2]int{r, c}] = true
				}
			}
		}
	}

	for i := range rs.Rows {
		rr := &rs.Rows[i]
		rr.Cells = make([]*RenderCell, maxCols)
		rr.Covered = make([]bool, maxCols)
		rr.HeightPx = opts.DefaultRowHeightPt * ptToPx
		if row := ws.Row(i + 1); row != nil {
			rr.Hidden = row.Hidden
			if row.Height != nil {
				rr.HeightPx = *row.Height * ptToPx
			}
		}
	}

	for key := range covered {
		rs.Rows[key[0]].Covered[key[1]] = true
	}

	for _, row := range ws.Rows() {
		for _, cell := range row.Cells() {
			key := [2]int{cell.Row - 1, cell.Col - 1}
			if covered[key] {
				continue
			}
			rc, err := renderCell(ws, cell)
			if err != nil {
				return RenderSheet{}, err
			}
			if span, ok := masters[key]; ok {
				rc.RowSpan, rc.ColSpan = span.rowSpan, span.colSpan
			}
			rs.Rows[key[0]].Cells[key[1]] = rc
		}
	}

	// a merged range without a value still needs its spanning cell
	var blank *CellStyle
	for key, span := range masters {
		if rs.Rows[key[0]].Cells[key[1]] != nil {
			continue
		}
		if blank == nil {
			d, err := ws.Env().Styles.StyleForID(ws.Env().Styles.CellStyleID(ws.Env().Default))
			if err != nil {
				return RenderSheet{}, err
			}
			st := cellStyle(d)
			blank = &st
		}
		rs.Rows[key[0]].Cells[key[1]] = &RenderCell{
			Ref:     sheet.Coord{Row: key[0] + 1, Col: key[1] + 1}.String(),
			ColSpan: span.colSpan,
			RowSpan: span.rowSpan,
			Style:   *blank,
		}
	}
	return rs, nil
}

// extent returns the number of rows and columns the preview needs to show
// every cell, column record and merged range.
func extent(ws *sheet.Worksheet) (rows, cols int) {
	for _, row := range ws.Rows() {
		rows = max(rows, row.Index)
		for _, c := range row.Cells() {
			cols = max(cols, c.Col)
		}
	}
	for _, c := range ws.Columns() {
		cols = max(cols, c.Index)
	}
	for _, mr := range ws.Merges().ListRanges() {
		rows = max(rows, mr.BottomRight.Row)
		cols = max(cols, mr.BottomRight.Col)
	}
	return rows, cols
}

func renderCell(ws *sheet.Worksheet, cell *sheet.Cell) (*RenderCell, error) {
	value, err := ws.Text(cell)
	if err != nil {
		return nil, err
	}
	d, err := ws.Env().Styles.StyleForID(cell.StyleID)
	if err != nil {
		return nil, err
	}
	rc := &RenderCell{
		Ref:     cell.Coord().String(),
		Value:   value,
		ColSpan: 1,
		RowSpan: 1,
		Style:   cellStyle(d),
	}
	if l := cell.Link; l != nil {
		rc.Tooltip = l.Tooltip
		switch {
		case l.Location != "":
			rc.Link = "#" + l.Location
		case l.RelationshipID != "":
			if tr, ok := ws.Parts().(targetResolver); ok {
				rc.Link, _ = tr.Target(l.RelationshipID)
			}
		}
	}
	return rc, nil
}

func cellStyle(d styles.Descriptor) CellStyle {
	st := CellStyle{
		FontFamily: d.Font.Name,
		FontSizePt: d.Font.Size,
		FontColor:  normalizeColor(d.Font.Color),
		Bold:       d.Font.Bold,
		Italic:     d.Font.Italic,
		Underline:  d.Font.Underline || d.Font.DoubleUnderline,
		WrapText:   d.WrapText,
	}
	if d.Fill.Pattern == styles.PatternSolid {
		st.BackgroundColor = normalizeColor(d.Fill.Foreground)
	}
	for _, e := range []styles.BorderEdge{d.Border.Left, d.Border.Right, d.Border.Top, d.Border.Bottom} {
		if e.Style != styles.BorderNone && e.Color != "" {
			st.BorderColor = normalizeColor(e.Color)
			break
		}
	}
	switch d.Horizontal {
	case styles.HAlignLeft:
		st.HorizontalAlign = "left"
	case styles.HAlignCenter:
		st.HorizontalAlign = "center"
	case styles.HAlignRight:
		st.HorizontalAlign = "right"
	case styles.HAlignJustify:
		st.HorizontalAlign = "justify"
	case styles.HAlignNone:
	}
	switch d.Vertical {
	case styles.VAlignTop:
		st.VerticalAlign = "top"
	case styles.VAlignMiddle:
		st.VerticalAlign = "middle"
	case styles.VAlignBottom:
		st.VerticalAlign = "bottom"
	case styles.VAlignNone:
	}
	return st
}

// normalizeColor converts an 8-digit ARGB hex (as used in XLSX) to a 6-digit RGB string.
// Other lengths are returned unchanged.
func normalizeColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}
