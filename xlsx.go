package sheetcore

import (
	"fmt"
	"io"

	"github.com/unidoc/unioffice/spreadsheet"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetcore/xlsx"
)

// Open reads an existing xlsx package. Its style and shared-string tables are
// reverse-interned into a fresh document, so duplicate records in the source
// collapse and the default style keeps id 0.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Document, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("unable to read workbook: %w", err)
	}
	defer wb.Close()

	d, err := New(opts...)
	if err != nil {
		return nil, err
	}

	styleRemap, err := d.env.Styles.Load(wb.StyleSheet.X())
	if err != nil {
		return nil, fmt.Errorf("unable to load styles: %w", err)
	}
	var strRemap []int
	if wb.SharedStrings.X() != nil {
		strRemap = d.env.Strings.Load(wb.SharedStrings.X())
	}

	for _, s := range wb.Sheets() {
		ws, err := d.AddSheet(s.Name())
		if err != nil {
			return nil, err
		}
		if err := ws.Load(s.X(), strRemap, styleRemap); err != nil {
			return nil, fmt.Errorf("unable to load sheet %q: %w", s.Name(), err)
		}
	}

	counts := d.env.Styles.Counts()
	d.log.Info("Workbook opened",
		zap.Int("sheets", len(d.sheets)),
		zap.Int("strings", d.env.Strings.Count()),
		zap.Int("cellXfs", counts.CellFormats),
	)
	return d, nil
}

// HTML renders the document as an HTML table preview.
func (d *Document) HTML() (string, error) {
	p := d.cfg.Preview
	m, err := xlsx.BuildWorkbookModel(d.sheets, xlsx.Options{
		PxPerChar:          p.PxPerChar,
		DefaultColumnChars: p.DefaultColumnChars,
		DefaultRowHeightPt: p.DefaultRowHeightPt,
	})
	if err != nil {
		return "", err
	}
	if len(m.Sheets) == 0 {
		return "<table class=\"table\"></table>", nil
	}
	return xlsx.RenderWorkbookHTML(m, p.BorderColor), nil
}

// XlsxToHTML renders an xlsx package as an HTML preview.
func XlsxToHTML(r io.ReaderAt, size int64, opts ...Option) (string, error) {
	d, err := Open(r, size, opts...)
	if err != nil {
		return "", err
	}
	return d.HTML()
}
