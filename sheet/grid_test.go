package sheet

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/aerissecure/sheetcore/styles"
)

// recordingParts is an in-memory PartStore.
type recordingParts struct {
	next     int
	targets  map[string]string
	released []string
	fail     error
	// failTarget rejects only this uri when set.
	failTarget string
}

func newRecordingParts() *recordingParts {
	return &recordingParts{targets: make(map[string]string)}
}

func (p *recordingParts) AllocateRelationshipID() string {
	p.next++
	return fmt.Sprintf("rId%d", p.next)
}

func (p *recordingParts) RegisterExternalRelationship(uri, id string) error {
	if p.fail != nil && (p.failTarget == "" || p.failTarget == uri) {
		return p.fail
	}
	p.targets[id] = uri
	return nil
}

func (p *recordingParts) ReleaseRelationship(id string) {
	delete(p.targets, id)
	p.released = append(p.released, id)
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	return NewEnv(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller())), styles.Default())
}

func newTestSheet(t *testing.T) (*Worksheet, *recordingParts) {
	t.Helper()
	parts := newRecordingParts()
	return NewWorksheet("Sheet1", newTestEnv(t), parts), parts
}

func text(v string) *DataCell {
	return &DataCell{Value: v, Type: TypeText}
}

func mustText(t *testing.T, g *Grid, row, col int) string {
	t.Helper()
	c := g.Cell(row, col)
	if c == nil {
		t.Fatalf("no cell at %s", Coord{Row: row, Col: col})
	}
	s, err := g.Text(c)
	if err != nil {
		t.Fatalf("text of %s: %v", c.Coord(), err)
	}
	return s
}

func TestSetRowLastWriteWins(t *testing.T) {
	ws, _ := newTestSheet(t)

	if err := ws.SetRow("A1", []*DataCell{text("x"), text("y"), text("z")}, nil); err != nil {
		t.Fatalf("SetRow A1: %v", err)
	}
	if err := ws.SetRow("C1", []*DataCell{text("Z")}, nil); err != nil {
		t.Fatalf("SetRow C1: %v", err)
	}

	for col, want := range map[int]string{1: "x", 2: "y", 3: "Z"} {
		if got := mustText(t, ws.Grid, 1, col); got != want {
			t.Errorf("column %d = %q, want %q", col, got, want)
		}
	}
	if n := ws.Row(1).Len(); n != 3 {
		t.Errorf("row 1 holds %d cells, want 3", n)
	}
}

func TestSetRowSkipsNilAndClearsEmpty(t *testing.T) {
	ws, _ := newTestSheet(t)
	if err := ws.SetRow("B4", []*DataCell{text("a"), text("b"), text("c")}, nil); err != nil {
		t.Fatalf("SetRow: %v", err)
	}

	h := 30.0
	err := ws.SetRow("B4", []*DataCell{nil, text(""), text("C")}, &RowProperties{Height: &h, Hidden: true})
	if err != nil {
		t.Fatalf("SetRow: %v", err)
	}

	if got := mustText(t, ws.Grid, 4, 2); got != "a" {
		t.Errorf("B4 = %q, want untouched %q", got, "a")
	}
	if ws.Cell(4, 3) != nil {
		t.Errorf("C4 should have been cleared")
	}
	if got := mustText(t, ws.Grid, 4, 4); got != "C" {
		t.Errorf("D4 = %q, want %q", got, "C")
	}
	row := ws.Row(4)
	if row.Height == nil || *row.Height != 30 || !row.Hidden {
		t.Errorf("row properties not applied: %+v", row)
	}
}

func TestSetRowRejectsWholeCallOnInvalidElement(t *testing.T) {
	ws, parts := newTestSheet(t)
	env := ws.Env()
	bad := uint32(99)

	err := ws.SetRow("A2", []*DataCell{
		{Value: "https", Type: TypeText, Hyperlink: &HyperlinkProperties{Kind: HyperlinkWebURL, Value: "https://example.com"}},
		{Value: "1", Type: TypeNumber, StyleID: &bad},
		{Value: "next", Type: TypeText, Hyperlink: &HyperlinkProperties{Kind: HyperlinkNextSlide}},
	}, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, styles.ErrNotFound) {
		t.Errorf("error %v does not report the unknown style", err)
	}
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("error %v does not report the slide hyperlink", err)
	}
	if ws.Row(2) != nil {
		t.Errorf("row 2 was created by a rejected write")
	}
	if env.Strings.Count() != 0 {
		t.Errorf("shared strings grew to %d on a rejected write", env.Strings.Count())
	}
	if len(parts.targets) != 0 {
		t.Errorf("relationships registered on a rejected write: %v", parts.targets)
	}
}

func TestSetRowOverflowsColumns(t *testing.T) {
	ws, _ := newTestSheet(t)
	err := ws.SetRow("XFD1", []*DataCell{text("a"), text("b")}, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSetCellStylePrecedence(t *testing.T) {
	ws, _ := newTestSheet(t)
	env := ws.Env()
	def := env.Styles.CellStyleID(env.Default)

	pct := env.Default
	pct.NumberFormat = "0.00%"
	pctID := env.Styles.CellStyleID(pct)

	bold := env.Default
	bold.Font.Bold = true

	cases := []struct {
		name string
		cell *DataCell
		want uint32
	}{
		{"default", &DataCell{Value: "1", Type: TypeNumber}, def},
		{"id", &DataCell{Value: "1", Type: TypeNumber, StyleID: &pctID}, pctID},
		{"id wins over descriptor", &DataCell{Value: "1", Type: TypeNumber, StyleID: &pctID, Style: &bold}, pctID},
		{"descriptor", &DataCell{Value: "1", Type: TypeNumber, Style: &pct}, pctID},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ws.SetCell(1, i+1, tc.cell); err != nil {
				t.Fatalf("SetCell: %v", err)
			}
			if got := ws.Cell(1, i+1).StyleID; got != tc.want {
				t.Fatalf("style id = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSetCellInvalidCoordinates(t *testing.T) {
	ws, _ := newTestSheet(t)
	for _, at := range []Coord{{0, 1}, {1, 0}, {MaxRows + 1, 1}, {1, MaxColumns + 1}} {
		if err := ws.SetCell(at.Row, at.Col, text("x")); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetCell(%d, %d) err = %v, want ErrInvalidArgument", at.Row, at.Col, err)
		}
	}
}

func TestSetCellEmptyWithoutCellIsNoop(t *testing.T) {
	ws, _ := newTestSheet(t)
	if err := ws.SetCell(3, 3, text("")); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := ws.SetCell(3, 3, nil); err != nil {
		t.Fatalf("SetCell nil: %v", err)
	}
	if len(ws.Rows()) != 0 {
		t.Fatalf("empty write created rows")
	}
}

func TestClearingCellRemovesHyperlink(t *testing.T) {
	ws, parts := newTestSheet(t)

	link := &HyperlinkProperties{Kind: HyperlinkWebURL, Value: "https://example.com/a", Tooltip: "site"}
	if err := ws.SetCellRef("B3", &DataCell{Value: "site", Type: TypeText, Hyperlink: link}); err != nil {
		t.Fatalf("SetCellRef: %v", err)
	}
	links := ws.Hyperlinks()
	if len(links) != 1 || links[0].RelationshipID != "rId1" || links[0].Ref != "B3" {
		t.Fatalf("unexpected hyperlinks %+v", links)
	}
	if parts.targets["rId1"] != "https://example.com/a" {
		t.Fatalf("relationship not registered: %v", parts.targets)
	}

	if err := ws.SetCellRef("B3", text("")); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := len(ws.Hyperlinks()); n != 0 {
		t.Fatalf("%d hyperlinks left after clearing", n)
	}
	if len(parts.released) != 1 || parts.released[0] != "rId1" {
		t.Fatalf("released = %v, want [rId1]", parts.released)
	}

	data, err := ws.ExtractRange("B3")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data[0][0] != nil {
		t.Fatalf("cleared cell extracted as %+v", data[0][0])
	}
}

func TestHyperlinkKinds(t *testing.T) {
	cases := []struct {
		kind    HyperlinkKind
		value   string
		wantErr error
		wantRel bool
	}{
		{HyperlinkWebURL, "https://example.com", nil, true},
		{HyperlinkExistingFile, "../report.pdf", nil, true},
		{HyperlinkTargetSheet, "'Sheet2'!A1", nil, false},
		{HyperlinkWebURL, "", ErrInvalidArgument, false},
		{HyperlinkTargetSlide, "3", ErrInvalidOperation, false},
		{HyperlinkFirstSlide, "", ErrInvalidOperation, false},
		{HyperlinkLastSlide, "", ErrInvalidOperation, false},
		{HyperlinkNextSlide, "", ErrInvalidOperation, false},
		{HyperlinkPreviousSlide, "", ErrInvalidOperation, false},
		{HyperlinkKind(42), "x", ErrInvalidArgument, false},
	}
	for i, tc := range cases {
		ws, parts := newTestSheet(t)
		err := ws.SetCell(1, 1, &DataCell{Value: "link", Type: TypeText, Hyperlink: &HyperlinkProperties{Kind: tc.kind, Value: tc.value}})
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("case %d: err = %v, want %v", i, err, tc.wantErr)
			}
			if ws.Cell(1, 1) != nil {
				t.Errorf("case %d: rejected write stored a cell", i)
			}
			continue
		}
		if err != nil {
			t.Errorf("case %d: %v", i, err)
			continue
		}
		l := ws.Cell(1, 1).Link
		if got := l.RelationshipID != ""; got != tc.wantRel {
			t.Errorf("case %d: relationship bound = %v, want %v", i, got, tc.wantRel)
		}
		if !tc.wantRel && l.Location != tc.value {
			t.Errorf("case %d: location = %q, want %q", i, l.Location, tc.value)
		}
		if tc.wantRel && len(parts.targets) != 1 {
			t.Errorf("case %d: targets = %v", i, parts.targets)
		}
	}
}

func TestReplacingHyperlinkReleasesOldRelationship(t *testing.T) {
	ws, parts := newTestSheet(t)
	for _, u := range []string{"https://a.example", "https://b.example"} {
		err := ws.SetCell(1, 1, &DataCell{Value: "x", Type: TypeText, Hyperlink: &HyperlinkProperties{Kind: HyperlinkWebURL, Value: u}})
		if err != nil {
			t.Fatalf("SetCell: %v", err)
		}
	}
	if got := ws.Cell(1, 1).Link.RelationshipID; got != "rId2" {
		t.Fatalf("relationship = %s, want rId2", got)
	}
	if len(parts.targets) != 1 || parts.targets["rId2"] != "https://b.example" {
		t.Fatalf("targets = %v", parts.targets)
	}
}

func TestExternalHyperlinkNeedsParts(t *testing.T) {
	ws := NewWorksheet("NoRels", newTestEnv(t), nil)
	err := ws.SetCell(1, 1, &DataCell{Value: "x", Type: TypeText, Hyperlink: &HyperlinkProperties{Kind: HyperlinkWebURL, Value: "https://example.com"}})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("err = %v, want ErrInvalidOperation", err)
	}
}

func TestRegisterFailureIsReported(t *testing.T) {
	ws, parts := newTestSheet(t)
	parts.fail = errors.New("part closed")
	err := ws.SetCell(1, 1, &DataCell{Value: "x", Type: TypeText, Hyperlink: &HyperlinkProperties{Kind: HyperlinkWebURL, Value: "https://example.com"}})
	if err == nil || !errors.Is(err, parts.fail) {
		t.Fatalf("err = %v, want wrapped %v", err, parts.fail)
	}
	if ws.Cell(1, 1) != nil {
		t.Fatalf("cell stored after relationship failure")
	}
}

func TestSetRowRegisterFailureWritesNothing(t *testing.T) {
	ws, parts := newTestSheet(t)
	if err := ws.SetCellRef("C2", text("old")); err != nil {
		t.Fatal(err)
	}
	parts.fail = errors.New("part closed")
	parts.failTarget = "https://b.example"

	link := func(uri string) *HyperlinkProperties {
		return &HyperlinkProperties{Kind: HyperlinkWebURL, Value: uri}
	}
	h := 20.0
	err := ws.SetRow("A2", []*DataCell{
		{Value: "a", Type: TypeText, Hyperlink: link("https://a.example")},
		{Value: "b", Type: TypeText, Hyperlink: link("https://b.example")},
		text(""),
	}, &RowProperties{Height: &h})
	if !errors.Is(err, parts.fail) {
		t.Fatalf("err = %v, want wrapped %v", err, parts.fail)
	}

	if ws.Cell(2, 1) != nil || ws.Cell(2, 2) != nil {
		t.Errorf("cells written by a failed SetRow")
	}
	if got := mustText(t, ws.Grid, 2, 3); got != "old" {
		t.Errorf("C2 = %q, want untouched %q", got, "old")
	}
	if ws.Row(2).Height != nil {
		t.Errorf("row properties applied by a failed SetRow")
	}
	if len(parts.targets) != 0 {
		t.Errorf("relationships left registered: %v", parts.targets)
	}
	if len(parts.released) != 1 || parts.released[0] != "rId1" {
		t.Errorf("released = %v, want [rId1]", parts.released)
	}
}

func TestClearingLastCellDropsRow(t *testing.T) {
	ws, _ := newTestSheet(t)
	if err := ws.SetRow("A3", []*DataCell{text("a"), text("b")}, nil); err != nil {
		t.Fatal(err)
	}
	if err := ws.SetRow("A3", []*DataCell{text(""), text("")}, nil); err != nil {
		t.Fatal(err)
	}
	if ws.Row(3) != nil {
		t.Errorf("empty row 3 kept: %+v", ws.Row(3))
	}
	if rows := ws.Save().SheetData.Row; len(rows) != 0 {
		t.Errorf("saved rows = %d, want 0", len(rows))
	}

	h := 25.0
	if err := ws.SetRow("A5", []*DataCell{text("x")}, &RowProperties{Height: &h}); err != nil {
		t.Fatal(err)
	}
	if err := ws.SetCellRef("A5", text("")); err != nil {
		t.Fatal(err)
	}
	if r := ws.Row(5); r == nil || r.Height == nil || *r.Height != 25 {
		t.Errorf("row 5 with a height lost: %+v", r)
	}
}

func TestSetColumn(t *testing.T) {
	ws, _ := newTestSheet(t)
	w := 12.5
	if err := ws.SetColumnRef("C", &ColumnProperties{Width: &w}); err != nil {
		t.Fatalf("SetColumnRef: %v", err)
	}
	if err := ws.SetColumnRef("A7", &ColumnProperties{Width: &w, BestFit: true, Hidden: true}); err != nil {
		t.Fatalf("SetColumnRef: %v", err)
	}
	if err := ws.SetColumn(0, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("column 0 err = %v", err)
	}

	cols := ws.Columns()
	if len(cols) != 2 || cols[0].Index != 1 || cols[1].Index != 3 {
		t.Fatalf("columns = %+v", cols)
	}
	if cols[0].Width != nil || !cols[0].BestFit || !cols[0].Hidden {
		t.Errorf("column A = %+v, want best fit and hidden without width", cols[0])
	}
	if cols[1].Width == nil || *cols[1].Width != 12.5 {
		t.Errorf("column C width = %v", cols[1].Width)
	}
}

func TestFrozenGridRejectsWrites(t *testing.T) {
	ws, _ := newTestSheet(t)
	ws.Freeze()
	if err := ws.SetCell(1, 1, text("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetCell err = %v", err)
	}
	if err := ws.SetRow("A1", []*DataCell{text("x")}, nil); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetRow err = %v", err)
	}
	if err := ws.SetColumn(1, nil); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetColumn err = %v", err)
	}
	if _, err := ws.MergeCells("A1:B2"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("MergeCells err = %v", err)
	}
}

func TestSharedStringsAcrossSheets(t *testing.T) {
	env := newTestEnv(t)
	a := NewWorksheet("A", env, newRecordingParts())
	b := NewWorksheet("B", env, newRecordingParts())
	if err := a.SetCell(1, 1, text("same")); err != nil {
		t.Fatal(err)
	}
	if err := b.SetCell(5, 5, text("same")); err != nil {
		t.Fatal(err)
	}
	if a.Cell(1, 1).Value != b.Cell(5, 5).Value {
		t.Fatalf("sheets got different indices %s and %s", a.Cell(1, 1).Value, b.Cell(5, 5).Value)
	}
	if env.Strings.Count() != 1 {
		t.Fatalf("count = %d, want 1", env.Strings.Count())
	}
}
