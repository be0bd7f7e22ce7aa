package sheet

import (
	"fmt"
	"net/url"
)

// HyperlinkKind selects how a hyperlink target is stored.
type HyperlinkKind int

const (
	// HyperlinkWebURL targets an external URL through a relationship.
	HyperlinkWebURL HyperlinkKind = iota
	// HyperlinkExistingFile targets an external file through a relationship.
	HyperlinkExistingFile
	// HyperlinkTargetSheet targets a location inside the document, e.g. "'Sheet2'!A1".
	HyperlinkTargetSheet

	// Slide navigation targets exist only in presentations and are rejected.
	HyperlinkTargetSlide
	HyperlinkFirstSlide
	HyperlinkLastSlide
	HyperlinkNextSlide
	HyperlinkPreviousSlide
)

// HyperlinkProperties describe a hyperlink attached by a cell write.
type HyperlinkProperties struct {
	Kind    HyperlinkKind
	Value   string // URL, file path or in-document location
	Tooltip string
}

// Hyperlink is a hyperlink bound to a single cell. External targets carry a
// relationship id, in-document targets only a location.
type Hyperlink struct {
	Ref            string
	RelationshipID string
	Tooltip        string
	Location       string
}

// checkHyperlink validates hp without touching the part store.
func checkHyperlink(hp *HyperlinkProperties) error {
	switch hp.Kind {
	case HyperlinkWebURL, HyperlinkExistingFile:
		if hp.Value == "" {
			return fmt.Errorf("hyperlink target is empty: %w", ErrInvalidArgument)
		}
		if _, err := url.Parse(hp.Value); err != nil {
			return fmt.Errorf("hyperlink target %q: %v: %w", hp.Value, err, ErrInvalidArgument)
		}
		return nil
	case HyperlinkTargetSheet:
		if hp.Value == "" {
			return fmt.Errorf("hyperlink location is empty: %w", ErrInvalidArgument)
		}
		return nil
	case HyperlinkTargetSlide, HyperlinkFirstSlide, HyperlinkLastSlide, HyperlinkNextSlide, HyperlinkPreviousSlide:
		return fmt.Errorf("slide navigation hyperlinks are valid only for presentations: %w", ErrInvalidOperation)
	}
	return fmt.Errorf("unknown hyperlink kind %d: %w", int(hp.Kind), ErrInvalidArgument)
}

// bindHyperlink registers the relationship needed by hp, if any, and returns
// the record to store on the cell at ref.
func bindHyperlink(parts PartStore, ref string, hp *HyperlinkProperties) (*Hyperlink, error) {
	link := &Hyperlink{Ref: ref, Tooltip: hp.Tooltip}
	if hp.Kind == HyperlinkTargetSheet {
		link.Location = hp.Value
		return link, nil
	}
	if parts == nil {
		return nil, fmt.Errorf("external hyperlink on %s without a relationship part: %w", ref, ErrInvalidOperation)
	}
	id := parts.AllocateRelationshipID()
	if err := parts.RegisterExternalRelationship(hp.Value, id); err != nil {
		return nil, fmt.Errorf("unable to register hyperlink relationship for %s: %w", ref, err)
	}
	link.RelationshipID = id
	return link, nil
}
