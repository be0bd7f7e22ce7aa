package sheet

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetcore/styles"
)

// Grid is the sparse cell store of one worksheet. Rows are created lazily on
// the first write into them.
type Grid struct {
	env    *Env
	parts  PartStore
	rows   map[int]*Row
	cols   map[int]*Column
	frozen bool
	log    *zap.Logger
}

// NewGrid creates an empty grid that interns through env and registers
// hyperlink relationships with parts.
func NewGrid(env *Env, parts PartStore) *Grid {
	return &Grid{
		env:   env,
		parts: parts,
		rows:  make(map[int]*Row),
		cols:  make(map[int]*Column),
		log:   env.Log,
	}
}

// Freeze makes the grid read-only. It is called when serialization starts.
func (g *Grid) Freeze() {
	g.frozen = true
}

// Frozen reports whether the grid accepts writes.
func (g *Grid) Frozen() bool {
	return g.frozen
}

// pendingCell is a validated write that has not touched any table yet.
type pendingCell struct {
	at    Coord
	input *DataCell
	link  *Hyperlink
}

// prepare validates a non-empty write completely so that only binding its
// hyperlink can still fail.
func (g *Grid) prepare(at Coord, dc *DataCell) (pendingCell, error) {
	if err := at.validate(); err != nil {
		return pendingCell{}, err
	}
	switch dc.Type {
	case TypeText, TypeNumber, TypeDate:
	default:
		return pendingCell{}, fmt.Errorf("cell %s: unknown data type %d: %w", at, int(dc.Type), ErrInvalidArgument)
	}
	if dc.StyleID != nil && !g.env.Styles.HasCellFormat(*dc.StyleID) {
		return pendingCell{}, fmt.Errorf("cell %s: style %d: %w", at, *dc.StyleID, styles.ErrNotFound)
	}
	if dc.Hyperlink != nil {
		if err := checkHyperlink(dc.Hyperlink); err != nil {
			return pendingCell{}, fmt.Errorf("cell %s: %w", at, err)
		}
	}
	return pendingCell{at: at, input: dc}, nil
}

// bind registers the hyperlink relationships of every pending write. When one
// fails, the relationships already registered are released again.
func (g *Grid) bind(pending []pendingCell) error {
	for i := range pending {
		p := &pending[i]
		if p.input.Hyperlink == nil {
			continue
		}
		link, err := bindHyperlink(g.parts, p.at.String(), p.input.Hyperlink)
		if err != nil {
			for _, done := range pending[:i] {
				if done.link != nil && done.link.RelationshipID != "" {
					g.parts.ReleaseRelationship(done.link.RelationshipID)
				}
			}
			return err
		}
		p.link = link
	}
	return nil
}

func (g *Grid) commit(p pendingCell) {
	dc := p.input

	var styleID uint32
	switch {
	case dc.StyleID != nil:
		styleID = *dc.StyleID
	case dc.Style != nil:
		styleID = g.env.Styles.CellStyleID(*dc.Style)
	default:
		styleID = g.env.Styles.CellStyleID(g.env.Default)
	}

	value := dc.Value
	if dc.Type == TypeText {
		value = strconv.Itoa(g.env.Strings.InsertUnique(dc.Value))
	}

	row, ok := g.rows[p.at.Row]
	if !ok {
		row = newRow(p.at.Row)
		g.rows[p.at.Row] = row
	}
	cell, ok := row.cells[p.at.Col]
	if !ok {
		cell = &Cell{Row: p.at.Row, Col: p.at.Col}
		row.cells[p.at.Col] = cell
	}
	cell.Type = dc.Type
	cell.Value = value
	cell.StyleID = styleID
	if p.link != nil {
		g.releaseLink(cell)
		cell.Link = p.link
	}
}

// remove deletes the cell at c together with its hyperlink.
func (g *Grid) remove(at Coord) {
	row, ok := g.rows[at.Row]
	if !ok {
		return
	}
	cell, ok := row.cells[at.Col]
	if !ok {
		return
	}
	g.releaseLink(cell)
	delete(row.cells, at.Col)
	if len(row.cells) == 0 && row.Height == nil && !row.Hidden {
		delete(g.rows, at.Row)
	}
	g.log.Debug("Cell cleared", zap.Stringer("cell", at))
}

func (g *Grid) releaseLink(cell *Cell) {
	if cell.Link == nil {
		return
	}
	if cell.Link.RelationshipID != "" && g.parts != nil {
		g.parts.ReleaseRelationship(cell.Link.RelationshipID)
	}
	cell.Link = nil
}

func isEmpty(dc *DataCell) bool {
	return dc == nil || dc.Value == ""
}

// SetCell writes one cell. An empty value removes an existing cell and its
// hyperlink instead of storing an empty one. The write is validated before
// any table is touched.
func (g *Grid) SetCell(row, col int, dc *DataCell) error {
	if g.frozen {
		return ErrReadOnly
	}
	at := Coord{Row: row, Col: col}
	if err := at.validate(); err != nil {
		return err
	}
	if isEmpty(dc) {
		g.remove(at)
		return nil
	}
	p, err := g.prepare(at, dc)
	if err != nil {
		return err
	}
	pending := []pendingCell{p}
	if err := g.bind(pending); err != nil {
		return err
	}
	g.commit(pending[0])
	return nil
}

// SetCellRef is SetCell with an A1 reference.
func (g *Grid) SetCellRef(ref string, dc *DataCell) error {
	at, err := ParseCoord(ref)
	if err != nil {
		return err
	}
	return g.SetCell(at.Row, at.Col, dc)
}

// SetRow writes cells left to right starting at anchor. Nil elements are
// skipped and leave existing cells untouched; elements with an empty value
// clear their cell. Every element is validated and every hyperlink bound
// before anything is written, so a rejected element leaves the row unchanged.
func (g *Grid) SetRow(anchor string, cells []*DataCell, props *RowProperties) error {
	if g.frozen {
		return ErrReadOnly
	}
	start, err := ParseCoord(anchor)
	if err != nil {
		return err
	}
	if last := start.Col + len(cells) - 1; last > MaxColumns {
		return fmt.Errorf("row at %s: %d values end past column %d: %w", anchor, len(cells), MaxColumns, ErrInvalidArgument)
	}

	pending := make([]pendingCell, 0, len(cells))
	for i, dc := range cells {
		if isEmpty(dc) {
			continue
		}
		p, perr := g.prepare(Coord{Row: start.Row, Col: start.Col + i}, dc)
		if perr != nil {
			err = multierr.Append(err, perr)
			continue
		}
		pending = append(pending, p)
	}
	if err != nil {
		return err
	}
	if err := g.bind(pending); err != nil {
		return err
	}

	if props != nil {
		row, ok := g.rows[start.Row]
		if !ok {
			row = newRow(start.Row)
			g.rows[start.Row] = row
		}
		if props.Height != nil {
			h := *props.Height
			row.Height = &h
		}
		row.Hidden = props.Hidden
	}

	for i, dc := range cells {
		if dc != nil && dc.Value == "" {
			g.remove(Coord{Row: start.Row, Col: start.Col + i})
		}
	}
	for _, p := range pending {
		g.commit(p)
	}
	return nil
}

// SetColumn creates or updates the record of a 1-based column.
func (g *Grid) SetColumn(col int, props *ColumnProperties) error {
	if g.frozen {
		return ErrReadOnly
	}
	if col < 1 || col > MaxColumns {
		return fmt.Errorf("column %d outside 1..%d: %w", col, MaxColumns, ErrInvalidArgument)
	}
	c, ok := g.cols[col]
	if !ok {
		c = &Column{Index: col}
		g.cols[col] = c
	}
	if props == nil {
		return nil
	}
	if props.Width != nil && !props.BestFit {
		w := *props.Width
		c.Width = &w
	}
	if props.BestFit {
		c.Width = nil
	}
	c.Hidden = props.Hidden
	c.BestFit = props.BestFit
	return nil
}

// SetColumnRef accepts either column letters ("C") or a cell reference ("C7").
func (g *Grid) SetColumnRef(ref string, props *ColumnProperties) error {
	col, err := ColumnIndex(ref)
	if err != nil {
		at, perr := ParseCoord(ref)
		if perr != nil {
			return perr
		}
		col = at.Col
	}
	return g.SetColumn(col, props)
}

// Cell returns the cell at row/col or nil.
func (g *Grid) Cell(row, col int) *Cell {
	r, ok := g.rows[row]
	if !ok {
		return nil
	}
	return r.cells[col]
}

// Row returns the row record or nil.
func (g *Grid) Row(index int) *Row {
	return g.rows[index]
}

// Rows returns the row records ordered by index.
func (g *Grid) Rows() []*Row {
	out := make([]*Row, 0, len(g.rows))
	for _, r := range g.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Column returns the column record or nil.
func (g *Grid) Column(index int) *Column {
	return g.cols[index]
}

// Columns returns the column records ordered by index.
func (g *Grid) Columns() []*Column {
	out := make([]*Column, 0, len(g.cols))
	for _, c := range g.cols {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Hyperlinks returns every hyperlink in row-major cell order.
func (g *Grid) Hyperlinks() []*Hyperlink {
	var out []*Hyperlink
	for _, r := range g.Rows() {
		for _, c := range r.Cells() {
			if c.Link != nil {
				out = append(out, c.Link)
			}
		}
	}
	return out
}

// Text returns the display text of a cell: the dereferenced shared string for
// text cells, the literal value otherwise.
func (g *Grid) Text(c *Cell) (string, error) {
	if c.Type != TypeText {
		return c.Value, nil
	}
	idx, err := strconv.Atoi(c.Value)
	if err != nil {
		return "", fmt.Errorf("cell %s: shared string index %q: %w", c.Coord(), c.Value, ErrInvalidArgument)
	}
	return g.env.Strings.Value(idx)
}

// Env returns the document environment the grid interns through.
func (g *Grid) Env() *Env {
	return g.env
}
