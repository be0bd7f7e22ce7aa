package sheet

import (
	"fmt"
	"strconv"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetcore/sharedstrings"
)

// Worksheet is a named grid together with its merged ranges. All worksheets of
// a document share one Env.
type Worksheet struct {
	*Grid

	name   string
	merges MergeSet
}

// NewWorksheet creates an empty worksheet. parts receives the relationships of
// external hyperlinks and may be nil for sheets that only link internally.
func NewWorksheet(name string, env *Env, parts PartStore) *Worksheet {
	w := &Worksheet{name: name, Grid: NewGrid(env, parts)}
	w.log = env.Log.With(zap.String("sheet", name))
	return w
}

// Name returns the sheet name.
func (w *Worksheet) Name() string {
	return w.name
}

// Parts returns the relationship part of the sheet.
func (w *Worksheet) Parts() PartStore {
	return w.parts
}

// Merges returns the merged-range set of the sheet.
func (w *Worksheet) Merges() *MergeSet {
	return &w.merges
}

// MergeCells parses ref ("A1:C3") and adds it to the merge set. It returns
// false, without error, when the range overlaps an existing one.
func (w *Worksheet) MergeCells(ref string) (bool, error) {
	if w.frozen {
		return false, ErrReadOnly
	}
	r, err := ParseMergeRange(ref)
	if err != nil {
		return false, err
	}
	ok := w.merges.TryAddRange(r)
	if !ok {
		w.log.Debug("Merge range rejected", zap.Stringer("range", r))
	}
	return ok, nil
}

// Save projects the sheet into its SpreadsheetML part. Cells, rows and
// columns are written in ascending order.
func (w *Worksheet) Save() *sml.Worksheet {
	ws := sml.NewWorksheet()

	if cols := w.Columns(); len(cols) > 0 {
		xc := &sml.CT_Cols{}
		for _, c := range cols {
			xc.Col = append(xc.Col, colXML(c))
		}
		ws.Cols = []*sml.CT_Cols{xc}
	}

	if ws.SheetData == nil {
		ws.SheetData = sml.NewCT_SheetData()
	}
	for _, r := range w.Rows() {
		ws.SheetData.Row = append(ws.SheetData.Row, rowXML(r))
	}

	if w.merges.Len() > 0 {
		ws.MergeCells = &sml.CT_MergeCells{CountAttr: unioffice.Uint32(uint32(w.merges.Len()))}
		for _, r := range w.merges.ListRanges() {
			ws.MergeCells.MergeCell = append(ws.MergeCells.MergeCell, &sml.CT_MergeCell{RefAttr: r.String()})
		}
	}

	if links := w.Hyperlinks(); len(links) > 0 {
		ws.Hyperlinks = &sml.CT_Hyperlinks{}
		for _, l := range links {
			ws.Hyperlinks.Hyperlink = append(ws.Hyperlinks.Hyperlink, hyperlinkXML(l))
		}
	}
	return ws
}

func colXML(c *Column) *sml.CT_Col {
	x := &sml.CT_Col{MinAttr: uint32(c.Index), MaxAttr: uint32(c.Index)}
	if c.Width != nil {
		x.WidthAttr = unioffice.Float64(*c.Width)
		x.CustomWidthAttr = unioffice.Bool(true)
	}
	if c.Hidden {
		x.HiddenAttr = unioffice.Bool(true)
	}
	if c.BestFit {
		x.BestFitAttr = unioffice.Bool(true)
	}
	return x
}

func rowXML(r *Row) *sml.CT_Row {
	x := sml.NewCT_Row()
	x.RAttr = unioffice.Uint32(uint32(r.Index))
	if r.Height != nil {
		x.HtAttr = unioffice.Float64(*r.Height)
		x.CustomHeightAttr = unioffice.Bool(true)
	}
	if r.Hidden {
		x.HiddenAttr = unioffice.Bool(true)
	}
	for _, c := range r.Cells() {
		x.C = append(x.C, cellXML(c))
	}
	return x
}

func cellXML(c *Cell) *sml.CT_Cell {
	x := sml.NewCT_Cell()
	x.RAttr = unioffice.String(c.Coord().String())
	x.SAttr = unioffice.Uint32(c.StyleID)
	x.V = unioffice.String(c.Value)
	switch c.Type {
	case TypeText:
		x.TAttr = sml.ST_CellTypeS
	case TypeNumber:
		x.TAttr = sml.ST_CellTypeN
	case TypeDate:
		x.TAttr = sml.ST_CellTypeD
	}
	return x
}

func hyperlinkXML(l *Hyperlink) *sml.CT_Hyperlink {
	x := sml.NewCT_Hyperlink()
	x.RefAttr = l.Ref
	if l.RelationshipID != "" {
		x.IdAttr = unioffice.String(l.RelationshipID)
	}
	if l.Location != "" {
		x.LocationAttr = unioffice.String(l.Location)
	}
	if l.Tooltip != "" {
		x.TooltipAttr = unioffice.String(l.Tooltip)
	}
	return x
}

// Load populates an empty worksheet from an existing part. strRemap and
// styleRemap translate the part's shared-string and cell-format indices into
// the ids of the document environment, as returned by the table loaders.
//
// Hyperlinks with an in-document location are kept. External hyperlinks are
// dropped because their targets live in the source package's relationship part.
func (w *Worksheet) Load(x *sml.Worksheet, strRemap []int, styleRemap []uint32) error {
	if w.frozen {
		return ErrReadOnly
	}
	if x == nil {
		return nil
	}

	for _, cols := range x.Cols {
		for _, xc := range cols.Col {
			w.loadCols(xc)
		}
	}

	if x.SheetData != nil {
		for _, xr := range x.SheetData.Row {
			if err := w.loadRow(xr, strRemap, styleRemap); err != nil {
				return err
			}
		}
	}

	if x.MergeCells != nil {
		for _, mc := range x.MergeCells.MergeCell {
			r, err := ParseMergeRange(mc.RefAttr)
			if err != nil {
				return err
			}
			if !w.merges.TryAddRange(r) {
				w.log.Warn("Overlapping merge range skipped", zap.Stringer("range", r))
			}
		}
	}

	if x.Hyperlinks != nil {
		for _, xh := range x.Hyperlinks.Hyperlink {
			w.loadHyperlink(xh)
		}
	}
	return nil
}

func (w *Worksheet) loadCols(xc *sml.CT_Col) {
	for i := xc.MinAttr; i <= xc.MaxAttr && i <= MaxColumns; i++ {
		if i == 0 {
			continue
		}
		c := &Column{Index: int(i)}
		if xc.WidthAttr != nil && (xc.CustomWidthAttr == nil || *xc.CustomWidthAttr) {
			width := *xc.WidthAttr
			c.Width = &width
		}
		if xc.HiddenAttr != nil {
			c.Hidden = *xc.HiddenAttr
		}
		if xc.BestFitAttr != nil {
			c.BestFit = *xc.BestFitAttr
		}
		w.cols[c.Index] = c
	}
}

func (w *Worksheet) loadRow(xr *sml.CT_Row, strRemap []int, styleRemap []uint32) error {
	if xr.RAttr == nil {
		return fmt.Errorf("row without index: %w", ErrInvalidArgument)
	}
	at := Coord{Row: int(*xr.RAttr), Col: 1}
	if err := at.validate(); err != nil {
		return err
	}
	row := newRow(at.Row)
	if xr.HtAttr != nil && xr.CustomHeightAttr != nil && *xr.CustomHeightAttr {
		h := *xr.HtAttr
		row.Height = &h
	}
	if xr.HiddenAttr != nil {
		row.Hidden = *xr.HiddenAttr
	}

	for _, xc := range xr.C {
		cell, err := w.loadCell(xc, strRemap, styleRemap)
		if err != nil {
			return err
		}
		if cell == nil {
			continue
		}
		if cell.Row != row.Index {
			return fmt.Errorf("cell %s outside row %d: %w", cell.Coord(), row.Index, ErrInvalidArgument)
		}
		row.cells[cell.Col] = cell
	}
	w.rows[row.Index] = row
	return nil
}

// loadCell returns nil for cells without a value.
func (w *Worksheet) loadCell(xc *sml.CT_Cell, strRemap []int, styleRemap []uint32) (*Cell, error) {
	if xc.RAttr == nil {
		return nil, fmt.Errorf("cell without reference: %w", ErrInvalidArgument)
	}
	at, err := ParseCoord(*xc.RAttr)
	if err != nil {
		return nil, err
	}

	var value string
	switch {
	case xc.V != nil:
		value = *xc.V
	case xc.Is != nil:
		value = sharedstrings.Text(xc.Is)
	}
	if value == "" {
		return nil, nil
	}

	cell := &Cell{Row: at.Row, Col: at.Col, Value: value}
	switch xc.TAttr {
	case sml.ST_CellTypeS:
		idx, err := strconv.Atoi(value)
		if err != nil || idx < 0 || idx >= len(strRemap) {
			return nil, fmt.Errorf("cell %s: shared string %q out of range: %w", at, value, ErrInvalidArgument)
		}
		cell.Type = TypeText
		cell.Value = strconv.Itoa(strRemap[idx])
	case sml.ST_CellTypeStr, sml.ST_CellTypeInlineStr, sml.ST_CellTypeE:
		cell.Type = TypeText
		cell.Value = strconv.Itoa(w.env.Strings.InsertUnique(value))
	case sml.ST_CellTypeD:
		cell.Type = TypeDate
	default:
		cell.Type = TypeNumber
	}

	switch {
	case xc.SAttr == nil:
		cell.StyleID = w.env.Styles.CellStyleID(w.env.Default)
	case int(*xc.SAttr) < len(styleRemap):
		cell.StyleID = styleRemap[*xc.SAttr]
	default:
		return nil, fmt.Errorf("cell %s: cell format %d out of range: %w", at, *xc.SAttr, ErrInvalidArgument)
	}
	return cell, nil
}

func (w *Worksheet) loadHyperlink(xh *sml.CT_Hyperlink) {
	at, err := ParseCoord(xh.RefAttr)
	if err != nil {
		// Range-anchored hyperlinks bind to their top-left cell.
		r, rerr := ParseMergeRange(xh.RefAttr)
		if rerr != nil {
			w.log.Warn("Hyperlink with invalid reference skipped", zap.String("ref", xh.RefAttr))
			return
		}
		at = r.TopLeft
	}
	if xh.LocationAttr == nil || xh.IdAttr != nil {
		w.log.Warn("External hyperlink dropped", zap.Stringer("cell", at))
		return
	}
	cell := w.Cell(at.Row, at.Col)
	if cell == nil {
		w.log.Warn("Hyperlink on empty cell dropped", zap.Stringer("cell", at))
		return
	}
	link := &Hyperlink{Ref: at.String(), Location: *xh.LocationAttr}
	if xh.TooltipAttr != nil {
		link.Tooltip = *xh.TooltipAttr
	}
	cell.Link = link
}
