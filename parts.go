package sheetcore

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"

	"github.com/unidoc/unioffice/schema/soo/pkg/relationships"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetcore/opc"
)

// Part names inside the package.
const (
	WorkbookPath      = "xl/workbook.xml"
	StylesPath        = "xl/styles.xml"
	SharedStringsPath = "xl/sharedStrings.xml"
)

// WorksheetPart is one serialized worksheet with its relationship part.
type WorksheetPart struct {
	Name  string
	Path  string
	Sheet *sml.Worksheet
	// Rels is nil when the sheet references nothing outside itself.
	Rels *relationships.Relationships
}

// Parts is the projection of a document into SpreadsheetML part elements.
type Parts struct {
	Workbook      *sml.Workbook
	WorkbookRels  *relationships.Relationships
	StyleSheet    *sml.StyleSheet
	SharedStrings *sml.Sst
	Worksheets    []WorksheetPart
}

// PartWriter receives serialized parts. It is the boundary to the package
// container.
type PartWriter interface {
	WritePart(name string, data []byte) error
}

// Parts freezes the document and projects it into part elements. Writes
// issued after the first call fail with ErrReadOnly.
func (d *Document) Parts() (*Parts, error) {
	if len(d.sheets) == 0 {
		return nil, fmt.Errorf("document has no sheets: %w", ErrInvalidOperation)
	}
	d.freeze()

	p := &Parts{
		StyleSheet:    d.env.Styles.Save(),
		SharedStrings: d.env.Strings.Save(),
		Workbook:      sml.NewWorkbook(),
	}
	if p.Workbook.Sheets == nil {
		p.Workbook.Sheets = sml.NewCT_Sheets()
	}

	wbRels := opc.NewRelationships(d.log.Named("rels"))
	for i, ws := range d.sheets {
		target := "worksheets/sheet" + strconv.Itoa(i+1) + ".xml"
		rid := wbRels.Add(opc.WorksheetType, target)

		cs := sml.NewCT_Sheet()
		cs.NameAttr = ws.Name()
		cs.SheetIdAttr = uint32(i + 1)
		cs.IdAttr = rid
		p.Workbook.Sheets.Sheet = append(p.Workbook.Sheets.Sheet, cs)

		wp := WorksheetPart{Name: ws.Name(), Path: path.Join("xl", target), Sheet: ws.Save()}
		if rels := d.rels[ws]; rels != nil && rels.Len() > 0 {
			wp.Rels = rels.X()
		}
		p.Worksheets = append(p.Worksheets, wp)
	}
	wbRels.Add(opc.StylesType, "styles.xml")
	wbRels.Add(opc.SharedStringsType, "sharedStrings.xml")
	p.WorkbookRels = wbRels.X()

	counts := d.env.Styles.Counts()
	d.log.Info("Document serialized",
		zap.Int("sheets", len(p.Worksheets)),
		zap.Int("strings", d.env.Strings.Count()),
		zap.Int("fonts", counts.Fonts),
		zap.Int("fills", counts.Fills),
		zap.Int("borders", counts.Borders),
		zap.Int("numFmts", counts.NumberFormats),
		zap.Int("cellXfs", counts.CellFormats),
	)
	return p, nil
}

// WriteParts serializes every part and hands it to w. A failing part does not
// stop the others; all failures are returned together.
func (d *Document) WriteParts(w PartWriter) error {
	p, err := d.Parts()
	if err != nil {
		return err
	}

	write := func(name string, v any) error {
		data, err := marshalPart(v)
		if err != nil {
			return fmt.Errorf("unable to marshal %s: %w", name, err)
		}
		if err := w.WritePart(name, data); err != nil {
			return fmt.Errorf("unable to write %s: %w", name, err)
		}
		return nil
	}

	err = multierr.Append(err, write(WorkbookPath, p.Workbook))
	err = multierr.Append(err, write(relsPath(WorkbookPath), p.WorkbookRels))
	err = multierr.Append(err, write(StylesPath, p.StyleSheet))
	err = multierr.Append(err, write(SharedStringsPath, p.SharedStrings))
	for _, wp := range p.Worksheets {
		err = multierr.Append(err, write(wp.Path, wp.Sheet))
		if wp.Rels != nil {
			err = multierr.Append(err, write(relsPath(wp.Path), wp.Rels))
		}
	}
	return err
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// relsPath maps "xl/workbook.xml" to "xl/_rels/workbook.xml.rels".
func relsPath(part string) string {
	dir, file := path.Split(part)
	return path.Join(dir, "_rels", file+".rels")
}
