package xlsx

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/aerissecure/sheetcore/sheet"
	"github.com/aerissecure/sheetcore/styles"
)

var testOptions = Options{PxPerChar: 8.3, DefaultColumnChars: 8.43, DefaultRowHeightPt: 15}

type staticParts struct {
	targets map[string]string
	n       int
}

func (p *staticParts) AllocateRelationshipID() string {
	p.n++
	return fmt.Sprintf("rId%d", p.n)
}

func (p *staticParts) RegisterExternalRelationship(uri, id string) error {
	p.targets[id] = uri
	return nil
}

func (p *staticParts) ReleaseRelationship(id string) {
	delete(p.targets, id)
}

func (p *staticParts) Target(id string) (string, bool) {
	t, ok := p.targets[id]
	return t, ok
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func newPreviewSheet(t *testing.T) *sheet.Worksheet {
	t.Helper()
	env := sheet.NewEnv(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller())), styles.Default())
	ws := sheet.NewWorksheet("Report <Q1>", env, &staticParts{targets: map[string]string{}})

	header := env.Default
	header.Font.Bold = true
	header.Fill = styles.Fill{Pattern: styles.PatternSolid, Foreground: "FFFF00"}
	header.Horizontal = styles.HAlignCenter

	h := 30.0
	w := 20.0
	if err := ws.SetRow("A1", []*sheet.DataCell{
		{Value: "Title & summary", Type: sheet.TypeText, Style: &header},
	}, &sheet.RowProperties{Height: &h}); err != nil {
		t.Fatal(err)
	}
	if ok, err := ws.MergeCells("A1:C1"); err != nil || !ok {
		t.Fatalf("MergeCells = %v, %v", ok, err)
	}
	if err := ws.SetRow("A2", []*sheet.DataCell{
		{Value: "line one\nline two", Type: sheet.TypeText},
		{Value: "42", Type: sheet.TypeNumber},
		{Value: "docs", Type: sheet.TypeText, Hyperlink: &sheet.HyperlinkProperties{Kind: sheet.HyperlinkWebURL, Value: "https://example.com/docs", Tooltip: "Read"}},
	}, nil); err != nil {
		t.Fatal(err)
	}
	if err := ws.SetCellRef("D3", &sheet.DataCell{Value: "jump", Type: sheet.TypeText, Hyperlink: &sheet.HyperlinkProperties{Kind: sheet.HyperlinkTargetSheet, Value: "Data!A1"}}); err != nil {
		t.Fatal(err)
	}
	if err := ws.SetColumn(2, &sheet.ColumnProperties{Width: &w}); err != nil {
		t.Fatal(err)
	}
	if err := ws.SetColumn(5, &sheet.ColumnProperties{Hidden: true}); err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestBuildWorkbookModel(t *testing.T) {
	ws := newPreviewSheet(t)
	m, err := BuildWorkbookModel([]*sheet.Worksheet{ws}, testOptions)
	if err != nil {
		t.Fatalf("BuildWorkbookModel: %v", err)
	}
	if len(m.Sheets) != 1 {
		t.Fatalf("sheets = %d", len(m.Sheets))
	}
	rs := m.Sheets[0]
	if len(rs.Rows) != 3 || len(rs.ColWidths) != 5 {
		t.Fatalf("extent = %d rows x %d cols, want 3x5", len(rs.Rows), len(rs.ColWidths))
	}
	if !approx(rs.ColWidths[1], 166) || !rs.ColHidden[4] {
		t.Errorf("column metadata = %v %v", rs.ColWidths, rs.ColHidden)
	}
	if !approx(rs.Rows[0].HeightPx, 39.99) {
		t.Errorf("row 1 height = %v", rs.Rows[0].HeightPx)
	}

	title := rs.Rows[0].Cells[0]
	if title == nil || title.ColSpan != 3 || title.RowSpan != 1 {
		t.Fatalf("merged master = %v", title)
	}
	if !title.Style.Bold || title.Style.BackgroundColor != "FFFF00" || title.Style.HorizontalAlign != "center" {
		t.Errorf("title style = %s", title.Style)
	}

	link := rs.Rows[1].Cells[2]
	if link.Link != "https://example.com/docs" || link.Tooltip != "Read" {
		t.Errorf("external link = %v", link)
	}
	if jump := rs.Rows[2].Cells[3]; jump.Link != "#Data!A1" {
		t.Errorf("internal link = %v", jump)
	}
	if n := rs.Rows[1].Cells[1]; n.Value != "42" || n.Ref != "B2" {
		t.Errorf("number cell = %v", n)
	}
}

func TestRenderWorkbookHTML(t *testing.T) {
	ws := newPreviewSheet(t)
	m, err := BuildWorkbookModel([]*sheet.Worksheet{ws}, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderWorkbookHTML(m, "")

	for _, want := range []string{
		`data-name="Report &lt;Q1&gt;"`,
		`colspan="3"`,
		`Title &amp; summary`,
		`line one<br>line two`,
		`<a href="https://example.com/docs" title="Read">docs</a>`,
		`<a href="#Data!A1">jump</a>`,
		`font-weight:bold;`,
		`background-color:#FFFF00;`,
		`<col style="display:none;">`,
		`font-family:'Calibri';`,
		`border:1px solid #333333;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}

	// the merged master covers B1 and C1, so row 1 has three cells: A1, D1, E1
	row1 := out[strings.Index(out, "<tr"):]
	row1 = row1[:strings.Index(row1, "</tr>")]
	if n := strings.Count(row1, "<td"); n != 3 {
		t.Errorf("row 1 has %d cells, want 3:\n%s", n, row1)
	}
}

func TestStyleClassesAreInterned(t *testing.T) {
	same := CellStyle{FontFamily: "Arial", FontSizePt: 10}
	m := WorkbookModel{Sheets: []RenderSheet{{
		Name:      "S",
		ColWidths: []float64{10, 10},
		ColHidden: []bool{false, false},
		Rows: []RenderRow{
			{Cells: []*RenderCell{{Ref: "A1", Style: same, ColSpan: 1, RowSpan: 1}, {Ref: "B1", Style: same, ColSpan: 1, RowSpan: 1}}},
			{Cells: []*RenderCell{{Ref: "A2", Style: CellStyle{FontFamily: "Arial", FontSizePt: 10, Italic: true}, ColSpan: 1, RowSpan: 1}, nil}},
		},
	}}}
	_, classes, order := computeDefaults(m)
	if len(order) != 2 || classes[same] != "cellstyle1" {
		t.Fatalf("classes = %v, order = %v", classes, order)
	}
	out := RenderWorkbookHTML(m, "")
	if !strings.Contains(out, ".cellstyle2 { font-style:italic; }") {
		t.Errorf("italic class missing:\n%s", out)
	}
	if strings.Contains(out, ".cellstyle1 {") {
		t.Errorf("class equal to the defaults should not be emitted")
	}
}

func TestTallyMajority(t *testing.T) {
	tl := tally[string]{"a": 3, "b": 1}
	if got := tl.majority(4); got != "a" {
		t.Errorf("majority = %q, want a", got)
	}
	if got := tl.majority(6); got != "" {
		t.Errorf("majority without quorum = %q", got)
	}
}
