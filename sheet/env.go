package sheet

import (
	"errors"

	"go.uber.org/zap"

	"github.com/aerissecure/sheetcore/sharedstrings"
	"github.com/aerissecure/sheetcore/styles"
)

var (
	// ErrInvalidArgument reports malformed coordinates, ranges or cell input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidOperation reports a request that is not valid for a spreadsheet,
	// such as a slide navigation hyperlink.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrReadOnly is returned for writes after serialization has started.
	ErrReadOnly = errors.New("worksheet is read-only")
)

// Env is the document-scoped state shared by every worksheet of one document.
// Style and string identity is per document, never per process.
type Env struct {
	Styles  *styles.Interner
	Strings *sharedstrings.Table
	// Default is the style of cells written without a style id or descriptor.
	Default styles.Descriptor
	Log     *zap.Logger
}

// NewEnv creates an environment with empty tables.
func NewEnv(log *zap.Logger, def styles.Descriptor) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	return &Env{
		Styles:  styles.New(log),
		Strings: sharedstrings.New(),
		Default: def,
		Log:     log,
	}
}

// PartStore is the relationship part of a worksheet.
type PartStore interface {
	// AllocateRelationshipID returns the next free id, monotonic per part.
	AllocateRelationshipID() string
	// RegisterExternalRelationship binds id to an external target uri.
	RegisterExternalRelationship(uri, id string) error
	// ReleaseRelationship drops a relationship that is no longer referenced.
	ReleaseRelationship(id string)
}
