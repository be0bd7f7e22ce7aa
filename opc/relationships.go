// Package opc holds the package-part plumbing the cell model talks to: the
// relationship part of a worksheet.
package opc

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/unidoc/unioffice/schema/soo/pkg/relationships"
	"go.uber.org/zap"
)

// Relationship types used by spreadsheet packages.
const (
	HyperlinkType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	WorksheetType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	StylesType        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	SharedStringsType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

var (
	// ErrDuplicateID is returned when a relationship id is registered twice.
	ErrDuplicateID = errors.New("duplicate relationship id")
	// ErrEmpty is returned for an empty id or target.
	ErrEmpty = errors.New("empty relationship id or target")
)

// Relationships is the relationship part of one worksheet. Ids are allocated
// monotonically and never reused, even after a release.
type Relationships struct {
	x    *relationships.Relationships
	next int
	log  *zap.Logger
}

// NewRelationships creates an empty relationship part.
func NewRelationships(log *zap.Logger) *Relationships {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relationships{x: relationships.NewRelationships(), log: log}
}

// AllocateRelationshipID returns the next free id ("rId1", "rId2", ...).
func (r *Relationships) AllocateRelationshipID() string {
	r.next++
	return "rId" + strconv.Itoa(r.next)
}

// RegisterExternalRelationship binds id to the external target uri.
func (r *Relationships) RegisterExternalRelationship(uri, id string) error {
	if uri == "" || id == "" {
		return ErrEmpty
	}
	if _, ok := r.Target(id); ok {
		return fmt.Errorf("%s: %w", id, ErrDuplicateID)
	}
	rel := relationships.NewRelationship()
	rel.IdAttr = id
	rel.TypeAttr = HyperlinkType
	rel.TargetAttr = uri
	rel.TargetModeAttr = relationships.ST_TargetModeExternal
	r.x.Relationship = append(r.x.Relationship, rel)
	r.log.Debug("Registered relationship", zap.String("id", id), zap.String("target", uri))
	return nil
}

// Add registers an internal relationship to target and returns its id.
func (r *Relationships) Add(typ, target string) string {
	id := r.AllocateRelationshipID()
	rel := relationships.NewRelationship()
	rel.IdAttr = id
	rel.TypeAttr = typ
	rel.TargetAttr = target
	r.x.Relationship = append(r.x.Relationship, rel)
	return id
}

// ReleaseRelationship removes id. Unknown ids are ignored.
func (r *Relationships) ReleaseRelationship(id string) {
	for i, rel := range r.x.Relationship {
		if rel.IdAttr == id {
			r.x.Relationship = append(r.x.Relationship[:i], r.x.Relationship[i+1:]...)
			r.log.Debug("Released relationship", zap.String("id", id))
			return
		}
	}
}

// Target returns the target registered for id.
func (r *Relationships) Target(id string) (string, bool) {
	for _, rel := range r.x.Relationship {
		if rel.IdAttr == id {
			return rel.TargetAttr, true
		}
	}
	return "", false
}

// Len returns the number of registered relationships.
func (r *Relationships) Len() int {
	return len(r.x.Relationship)
}

// X returns the underlying part element.
func (r *Relationships) X() *relationships.Relationships {
	return r.x
}
