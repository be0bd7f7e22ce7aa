package sheetcore

import (
	"errors"
	"testing"

	"github.com/aerissecure/sheetcore/sheet"
)

func TestChartData(t *testing.T) {
	d := newTestDocument(t)
	data, _ := d.AddSheet("Data")
	if _, err := d.AddSheet("Dashboard"); err != nil {
		t.Fatal(err)
	}
	rows := [][]*sheet.DataCell{
		{{Value: "Month", Type: sheet.TypeText}, {Value: "Sales", Type: sheet.TypeText}},
		{{Value: "Jan", Type: sheet.TypeText}, {Value: "10", Type: sheet.TypeNumber}},
		{{Value: "Feb", Type: sheet.TypeText}},
	}
	for i, r := range rows {
		if err := data.SetRow(sheet.Coord{Row: i + 1, Col: 1}.String(), r, nil); err != nil {
			t.Fatal(err)
		}
	}

	got, resolved, err := d.ChartData("Data", DataRange{Start: "A1", End: "B3"})
	if err != nil {
		t.Fatalf("ChartData: %v", err)
	}
	if resolved.Sheet != "Data" {
		t.Errorf("resolved sheet = %q", resolved.Sheet)
	}
	if got[1][1].Value != "10" || got[1][1].Type != sheet.TypeNumber {
		t.Errorf("B2 = %+v", got[1][1])
	}
	if got[2][1] != nil {
		t.Errorf("B3 = %+v, want absent", got[2][1])
	}

	if _, _, err := d.ChartData("Dashboard", DataRange{Sheet: "Data", Start: "A1", End: "A1"}); err != nil {
		t.Errorf("explicit sheet: %v", err)
	}
	if _, _, err := d.ChartData("Nope", DataRange{Start: "A1", End: "A1"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown sheet err = %v", err)
	}
	if _, _, err := d.ChartData("Data", DataRange{Start: "A1", End: "1A"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad reference err = %v", err)
	}
}

func TestNewChartWorkbook(t *testing.T) {
	d, err := NewChartWorkbook([][]*sheet.DataCell{
		{{Value: "x", Type: sheet.TypeText}, {Value: "y", Type: sheet.TypeText}},
		{{Value: "1", Type: sheet.TypeNumber}, {Value: "2", Type: sheet.TypeNumber}},
	})
	if err != nil {
		t.Fatalf("NewChartWorkbook: %v", err)
	}
	ws := d.Sheet("Sheet1")
	if ws == nil || ws.Cell(2, 2) == nil || ws.Cell(2, 2).Value != "2" {
		t.Fatalf("embedded sheet not populated")
	}
}
