package sheet

import "fmt"

// Anchor is the two-cell placement rectangle of a picture or shape.
type Anchor struct {
	From Coord
	To   Coord
}

// NewAnchor validates that the rectangle spans at least one cell in some
// direction.
func NewAnchor(from, to Coord) (Anchor, error) {
	if err := from.validate(); err != nil {
		return Anchor{}, err
	}
	if err := to.validate(); err != nil {
		return Anchor{}, err
	}
	if from.Col >= to.Col && from.Row >= to.Row {
		return Anchor{}, fmt.Errorf("anchor %s:%s has no extent: %w", from, to, ErrInvalidArgument)
	}
	return Anchor{From: from, To: to}, nil
}

// ParseAnchor parses an anchor from a range reference such as "B2:F10".
func ParseAnchor(ref string) (Anchor, error) {
	r, err := ParseMergeRange(ref)
	if err != nil {
		return Anchor{}, err
	}
	return NewAnchor(r.TopLeft, r.BottomRight)
}
