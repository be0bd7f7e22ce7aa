package styles

import (
	"fmt"
	"strings"
)

// Style facets. Each enum is mapped onto the SpreadsheetML vocabulary in
// save.go and back in load.go; both mappings switch over every value.

type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderThick
	BorderDotted
	BorderDouble
	BorderDashed
	BorderDashDot
	BorderDashDotDot
	BorderMedium
	BorderMediumDashed
	BorderMediumDashDot
	BorderMediumDashDotDot
	BorderSlantDashDot
	BorderHair
)

var borderStyleNames = [...]string{
	BorderNone:             "none",
	BorderThin:             "thin",
	BorderThick:            "thick",
	BorderDotted:           "dotted",
	BorderDouble:           "double",
	BorderDashed:           "dashed",
	BorderDashDot:          "dashDot",
	BorderDashDotDot:       "dashDotDot",
	BorderMedium:           "medium",
	BorderMediumDashed:     "mediumDashed",
	BorderMediumDashDot:    "mediumDashDot",
	BorderMediumDashDotDot: "mediumDashDotDot",
	BorderSlantDashDot:     "slantDashDot",
	BorderHair:             "hair",
}

func (s BorderStyle) String() string {
	if s < 0 || int(s) >= len(borderStyleNames) {
		return fmt.Sprintf("BorderStyle(%d)", int(s))
	}
	return borderStyleNames[s]
}

type PatternType int

const (
	PatternNone PatternType = iota
	PatternSolid
	PatternGray125
)

type FontScheme int

const (
	SchemeNone FontScheme = iota
	SchemeMinor
	SchemeMajor
)

type HorizontalAlignment int

const (
	HAlignNone HorizontalAlignment = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignJustify
)

type VerticalAlignment int

const (
	VAlignNone VerticalAlignment = iota
	VAlignTop
	VAlignMiddle
	VAlignBottom
)

// Font is the font fragment of a cell style. Colors are hex RGB or ARGB.
type Font struct {
	Name            string
	Size            float64
	Scheme          FontScheme
	Bold            bool
	Italic          bool
	Underline       bool
	DoubleUnderline bool
	Color           string
}

// Fill is the pattern fill fragment of a cell style.
type Fill struct {
	Pattern    PatternType
	Foreground string
	Background string
}

// BorderEdge is a single side of a cell border.
type BorderEdge struct {
	Style BorderStyle
	Color string
}

// Border is the border fragment of a cell style.
type Border struct {
	Left   BorderEdge
	Right  BorderEdge
	Top    BorderEdge
	Bottom BorderEdge
}

// Descriptor is the caller-facing description of a cell style. It is a pure
// value type: two descriptors with equal fields resolve to the same cell
// format id.
type Descriptor struct {
	Font         Font
	Fill         Fill
	Border       Border
	NumberFormat string
	Horizontal   HorizontalAlignment
	Vertical     VerticalAlignment
	WrapText     bool
}

// Default returns the style applied to cells written without one.
func Default() Descriptor {
	return Descriptor{
		Font: Font{
			Name:   "Calibri",
			Size:   11,
			Scheme: SchemeMinor,
			Color:  "000000",
		},
		NumberFormat: "General",
	}
}

// canonicalColor upper-cases a hex color and widens RGB to opaque ARGB so
// "#ff0000", "FF0000" and "FFFF0000" intern to the same record.
func canonicalColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(c) == 6 {
		return "FF" + c
	}
	return c
}

func (f Font) canonical() Font {
	f.Color = canonicalColor(f.Color)
	return f
}

func (f Fill) canonical() Fill {
	f.Foreground = canonicalColor(f.Foreground)
	f.Background = canonicalColor(f.Background)
	return f
}

// canonical drops the color of edges that are not drawn.
func (e BorderEdge) canonical() BorderEdge {
	if e.Style == BorderNone {
		return BorderEdge{}
	}
	e.Color = canonicalColor(e.Color)
	return e
}

func (b Border) canonical() Border {
	b.Left = b.Left.canonical()
	b.Right = b.Right.canonical()
	b.Top = b.Top.canonical()
	b.Bottom = b.Bottom.canonical()
	return b
}
