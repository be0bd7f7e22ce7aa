// Package sheetcore builds SpreadsheetML documents whose styles and text are
// interned once per document and referenced by positional index.
package sheetcore

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aerissecure/sheetcore/opc"
	"github.com/aerissecure/sheetcore/sheet"
	"github.com/aerissecure/sheetcore/styles"
)

// MaxSheetNameLength is the longest sheet name spreadsheet applications accept.
const MaxSheetNameLength = 31

// Errors shared with the cell model.
var (
	ErrInvalidArgument  = sheet.ErrInvalidArgument
	ErrInvalidOperation = sheet.ErrInvalidOperation
	ErrReadOnly         = sheet.ErrReadOnly
)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(d *Document) {
		d.log = log
	}
}

// WithConfig replaces the embedded configuration.
func WithConfig(cfg *Config) Option {
	return func(d *Document) {
		d.cfg = cfg
	}
}

// Document owns the style and string tables shared by its worksheets.
type Document struct {
	cfg    *Config
	log    *zap.Logger
	env    *sheet.Env
	sheets []*sheet.Worksheet
	rels   map[*sheet.Worksheet]*opc.Relationships
	frozen bool
}

// New creates an empty document. The configured default style is interned
// first and therefore has cell format id 0. Fills 0 and 1 are the reserved
// none and gray125 patterns.
func New(opts ...Option) (*Document, error) {
	d := &Document{rels: make(map[*sheet.Worksheet]*opc.Relationships)}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.cfg == nil {
		d.cfg = DefaultConfig()
	}

	d.env = sheet.NewEnv(d.log, d.cfg.DefaultStyle.Descriptor())
	if id := d.env.Styles.CellStyleID(d.env.Default); id != 0 {
		return nil, fmt.Errorf("default style interned as %d", id)
	}
	if id := d.env.Styles.FindOrInsertFill(styles.Fill{Pattern: styles.PatternGray125}); id != 1 {
		return nil, fmt.Errorf("gray125 fill interned as %d", id)
	}
	d.log.Debug("Document created", zap.String("font", d.cfg.DefaultStyle.FontName), zap.Float64("size", d.cfg.DefaultStyle.FontSize))
	return d, nil
}

// Config returns the document configuration.
func (d *Document) Config() *Config {
	return d.cfg
}

// Env returns the document-scoped interning environment.
func (d *Document) Env() *sheet.Env {
	return d.env
}

// AddSheet appends a worksheet. Names are unique ignoring case.
func (d *Document) AddSheet(name string) (*sheet.Worksheet, error) {
	if d.frozen {
		return nil, ErrReadOnly
	}
	if err := checkSheetName(name); err != nil {
		return nil, err
	}
	if d.Sheet(name) != nil {
		return nil, fmt.Errorf("sheet %q already exists: %w", name, ErrInvalidArgument)
	}

	rels := opc.NewRelationships(d.log.Named("rels").With(zap.String("sheet", name)))
	ws := sheet.NewWorksheet(name, d.env, rels)
	d.sheets = append(d.sheets, ws)
	d.rels[ws] = rels
	d.log.Debug("Sheet added", zap.String("sheet", name), zap.Int("count", len(d.sheets)))
	return ws, nil
}

func checkSheetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("sheet name is empty: %w", ErrInvalidArgument)
	case len([]rune(name)) > MaxSheetNameLength:
		return fmt.Errorf("sheet name %q longer than %d: %w", name, MaxSheetNameLength, ErrInvalidArgument)
	case strings.ContainsAny(name, `[]:*?/\`):
		return fmt.Errorf("sheet name %q contains a reserved character: %w", name, ErrInvalidArgument)
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return fmt.Errorf("sheet name %q starts or ends with an apostrophe: %w", name, ErrInvalidArgument)
	}
	return nil
}

// Sheet returns the worksheet with the given name, ignoring case, or nil.
func (d *Document) Sheet(name string) *sheet.Worksheet {
	for _, ws := range d.sheets {
		if strings.EqualFold(ws.Name(), name) {
			return ws
		}
	}
	return nil
}

// Sheets returns the worksheets in creation order.
func (d *Document) Sheets() []*sheet.Worksheet {
	out := make([]*sheet.Worksheet, len(d.sheets))
	copy(out, d.sheets)
	return out
}

// CellStyleID interns desc and returns its cell format id.
func (d *Document) CellStyleID(desc styles.Descriptor) uint32 {
	return d.env.Styles.CellStyleID(desc)
}

// StyleForID returns the descriptor of a cell format id.
func (d *Document) StyleForID(id uint32) (styles.Descriptor, error) {
	return d.env.Styles.StyleForID(id)
}

// Frozen reports whether serialization has started.
func (d *Document) Frozen() bool {
	return d.frozen
}

func (d *Document) freeze() {
	if d.frozen {
		return
	}
	d.frozen = true
	for _, ws := range d.sheets {
		ws.Freeze()
	}
}
