package styles

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a style id is outside the current table bounds.
var ErrNotFound = errors.New("style not found")

// CellFormat is the composite record referenced by a cell's s attribute.
// Apply flags are derived from the sub ids and alignment when the format is
// resolved, never supplied by callers.
type CellFormat struct {
	FontID            uint32
	BorderID          uint32
	FillID            uint32
	NumberFormatID    uint32
	ApplyFont         bool
	ApplyBorder       bool
	ApplyFill         bool
	ApplyNumberFormat bool
	ApplyAlignment    bool
	WrapText          bool
	Horizontal        HorizontalAlignment
	Vertical          VerticalAlignment
}

type FontRecord struct {
	ID uint32
	Font
}

type FillRecord struct {
	ID uint32
	Fill
}

type BorderRecord struct {
	ID uint32
	Border
}

type NumberFormatRecord struct {
	ID   uint32
	Code string
}

type CellFormatRecord struct {
	ID uint32
	CellFormat
}

// Counts reports the size of every table.
type Counts struct {
	Fonts         int
	Fills         int
	Borders       int
	NumberFormats int
	CellFormats   int
}

// Interner deduplicates style fragments into stably numbered records. One
// Interner is shared by all worksheets of a document. It is not safe for
// concurrent use.
type Interner struct {
	fonts   table[Font]
	fills   table[Fill]
	borders table[Border]
	numFmts table[string]
	formats table[CellFormat]

	log *zap.Logger
}

// New creates an empty interner.
func New(log *zap.Logger) *Interner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interner{log: log.Named("styles")}
}

// FindOrInsertFont returns the id of f, creating a record on first use.
func (in *Interner) FindOrInsertFont(f Font) uint32 {
	id, added := in.fonts.findOrInsert(f.canonical())
	if added {
		in.log.Debug("New font", zap.Uint32("id", id), zap.String("name", f.Name), zap.Float64("size", f.Size))
	}
	return id
}

// FindOrInsertFill returns the id of f, creating a record on first use.
func (in *Interner) FindOrInsertFill(f Fill) uint32 {
	id, added := in.fills.findOrInsert(f.canonical())
	if added {
		in.log.Debug("New fill", zap.Uint32("id", id), zap.String("fg", f.Foreground), zap.String("bg", f.Background))
	}
	return id
}

// FindOrInsertBorder returns the id of b, creating a record on first use.
func (in *Interner) FindOrInsertBorder(b Border) uint32 {
	id, added := in.borders.findOrInsert(b.canonical())
	if added {
		in.log.Debug("New border", zap.Uint32("id", id))
	}
	return id
}

// FindOrInsertNumberFormat returns the id of a number format code. The code
// is stored verbatim; it is not parsed or validated.
func (in *Interner) FindOrInsertNumberFormat(code string) uint32 {
	id, added := in.numFmts.findOrInsert(code)
	if added {
		in.log.Debug("New number format", zap.Uint32("id", id), zap.String("code", code))
	}
	return id
}

// CellStyleID resolves a descriptor to its cell format id. Equal descriptors
// always yield the same id and never grow any table after the first call.
func (in *Interner) CellStyleID(d Descriptor) uint32 {
	cf := CellFormat{
		FontID:         in.FindOrInsertFont(d.Font),
		BorderID:       in.FindOrInsertBorder(d.Border),
		FillID:         in.FindOrInsertFill(d.Fill),
		NumberFormatID: in.FindOrInsertNumberFormat(d.NumberFormat),
		WrapText:       d.WrapText,
		Horizontal:     d.Horizontal,
		Vertical:       d.Vertical,
	}
	cf.ApplyFont = cf.FontID > 0
	cf.ApplyBorder = cf.BorderID > 0
	cf.ApplyFill = cf.FillID > 0
	cf.ApplyNumberFormat = cf.NumberFormatID > 0
	cf.ApplyAlignment = d.Horizontal != HAlignNone || d.Vertical != VAlignNone || d.WrapText

	id, added := in.formats.findOrInsert(cf)
	if added {
		in.log.Debug("New cell format",
			zap.Uint32("id", id),
			zap.Uint32("font", cf.FontID),
			zap.Uint32("fill", cf.FillID),
			zap.Uint32("border", cf.BorderID),
			zap.Uint32("numFmt", cf.NumberFormatID))
	}
	return id
}

// HasCellFormat reports whether id refers to an existing cell format.
func (in *Interner) HasCellFormat(id uint32) bool {
	return int(id) < in.formats.len()
}

// StyleForID projects a cell format back into a descriptor, e.g. to recover
// the number format code of a previously styled cell.
func (in *Interner) StyleForID(id uint32) (Descriptor, error) {
	cf, ok := in.formats.at(id)
	if !ok {
		return Descriptor{}, fmt.Errorf("cell format %d of %d: %w", id, in.formats.len(), ErrNotFound)
	}
	// sub ids inside a stored format always exist
	font, _ := in.fonts.at(cf.FontID)
	fill, _ := in.fills.at(cf.FillID)
	border, _ := in.borders.at(cf.BorderID)
	code, _ := in.numFmts.at(cf.NumberFormatID)
	return Descriptor{
		Font:         font,
		Fill:         fill,
		Border:       border,
		NumberFormat: code,
		Horizontal:   cf.Horizontal,
		Vertical:     cf.Vertical,
		WrapText:     cf.WrapText,
	}, nil
}

// CellFormat returns the composite record with the given id.
func (in *Interner) CellFormat(id uint32) (CellFormatRecord, error) {
	cf, ok := in.formats.at(id)
	if !ok {
		return CellFormatRecord{}, fmt.Errorf("cell format %d: %w", id, ErrNotFound)
	}
	return CellFormatRecord{ID: id, CellFormat: cf}, nil
}

// Font returns the font record with the given id.
func (in *Interner) Font(id uint32) (FontRecord, error) {
	f, ok := in.fonts.at(id)
	if !ok {
		return FontRecord{}, fmt.Errorf("font %d: %w", id, ErrNotFound)
	}
	return FontRecord{ID: id, Font: f}, nil
}

// Fill returns the fill record with the given id.
func (in *Interner) Fill(id uint32) (FillRecord, error) {
	f, ok := in.fills.at(id)
	if !ok {
		return FillRecord{}, fmt.Errorf("fill %d: %w", id, ErrNotFound)
	}
	return FillRecord{ID: id, Fill: f}, nil
}

// Border returns the border record with the given id.
func (in *Interner) Border(id uint32) (BorderRecord, error) {
	b, ok := in.borders.at(id)
	if !ok {
		return BorderRecord{}, fmt.Errorf("border %d: %w", id, ErrNotFound)
	}
	return BorderRecord{ID: id, Border: b}, nil
}

// NumberFormat returns the number format record with the given id.
func (in *Interner) NumberFormat(id uint32) (NumberFormatRecord, error) {
	code, ok := in.numFmts.at(id)
	if !ok {
		return NumberFormatRecord{}, fmt.Errorf("number format %d: %w", id, ErrNotFound)
	}
	return NumberFormatRecord{ID: id, Code: code}, nil
}

// Counts returns the current size of every table.
func (in *Interner) Counts() Counts {
	return Counts{
		Fonts:         in.fonts.len(),
		Fills:         in.fills.len(),
		Borders:       in.borders.len(),
		NumberFormats: in.numFmts.len(),
		CellFormats:   in.formats.len(),
	}
}
