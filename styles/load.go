package styles

import (
	"fmt"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"go.uber.org/zap"
)

// Load reverse-interns an existing style sheet. Sub tables are interned in
// source order first, then every cellXfs entry is resolved to a descriptor and
// interned again, so duplicate records in the source collapse. The returned
// slice maps a source xf index to the id it received here.
//
// Apply flags are recomputed from the interned ids rather than copied, and
// theme or indexed colors are not resolved.
func (in *Interner) Load(ss *sml.StyleSheet) ([]uint32, error) {
	if ss == nil {
		return nil, nil
	}

	var fonts []Font
	if ss.Fonts != nil {
		for _, f := range ss.Fonts.Font {
			font := fontFromXML(f)
			in.FindOrInsertFont(font)
			fonts = append(fonts, font)
		}
	}
	var fills []Fill
	if ss.Fills != nil {
		for _, f := range ss.Fills.Fill {
			fill := fillFromXML(f)
			in.FindOrInsertFill(fill)
			fills = append(fills, fill)
		}
	}
	var borders []Border
	if ss.Borders != nil {
		for _, b := range ss.Borders.Border {
			border := borderFromXML(b)
			in.FindOrInsertBorder(border)
			borders = append(borders, border)
		}
	}
	custom := make(map[uint32]string)
	if ss.NumFmts != nil {
		for _, nf := range ss.NumFmts.NumFmt {
			custom[nf.NumFmtIdAttr] = nf.FormatCodeAttr
			in.FindOrInsertNumberFormat(nf.FormatCodeAttr)
		}
	}

	if ss.CellXfs == nil {
		return nil, nil
	}
	remap := make([]uint32, len(ss.CellXfs.Xf))
	for i, xf := range ss.CellXfs.Xf {
		var d Descriptor
		if xf.FontIdAttr != nil {
			idx := int(*xf.FontIdAttr)
			if idx >= len(fonts) {
				return nil, fmt.Errorf("cellXfs[%d] references font %d of %d: %w", i, idx, len(fonts), ErrNotFound)
			}
			d.Font = fonts[idx]
		}
		if xf.FillIdAttr != nil {
			idx := int(*xf.FillIdAttr)
			if idx >= len(fills) {
				return nil, fmt.Errorf("cellXfs[%d] references fill %d of %d: %w", i, idx, len(fills), ErrNotFound)
			}
			d.Fill = fills[idx]
		}
		if xf.BorderIdAttr != nil {
			idx := int(*xf.BorderIdAttr)
			if idx >= len(borders) {
				return nil, fmt.Errorf("cellXfs[%d] references border %d of %d: %w", i, idx, len(borders), ErrNotFound)
			}
			d.Border = borders[idx]
		}
		d.NumberFormat = "General"
		if xf.NumFmtIdAttr != nil {
			d.NumberFormat = numFmtCode(*xf.NumFmtIdAttr, custom)
		}
		if al := xf.Alignment; al != nil {
			d.Horizontal = horizontalFromXML(al.HorizontalAttr)
			d.Vertical = verticalFromXML(al.VerticalAttr)
			d.WrapText = al.WrapTextAttr != nil && *al.WrapTextAttr
		}
		remap[i] = in.CellStyleID(d)
	}

	c := in.Counts()
	in.log.Debug("Style sheet loaded",
		zap.Int("source cellXfs", len(remap)),
		zap.Int("cellXfs", c.CellFormats))
	return remap, nil
}

func numFmtCode(id uint32, custom map[uint32]string) string {
	if code, ok := custom[id]; ok {
		return code
	}
	if code, ok := builtinNumFmt[id]; ok {
		return code
	}
	return "General"
}

func boolProp(p []*sml.CT_BooleanProperty) bool {
	if len(p) == 0 {
		return false
	}
	return p[0].ValAttr == nil || *p[0].ValAttr
}

func colorFromXML(c *sml.CT_Color) string {
	if c == nil || c.RgbAttr == nil {
		return ""
	}
	return *c.RgbAttr
}

func fontFromXML(x *sml.CT_Font) Font {
	var f Font
	if x == nil {
		return f
	}
	if len(x.Name) > 0 {
		f.Name = x.Name[0].ValAttr
	}
	if len(x.Sz) > 0 {
		f.Size = x.Sz[0].ValAttr
	}
	if len(x.Color) > 0 {
		f.Color = colorFromXML(x.Color[0])
	}
	f.Bold = boolProp(x.B)
	f.Italic = boolProp(x.I)
	if len(x.U) > 0 {
		switch x.U[0].ValAttr {
		case sml.ST_UnderlineValuesDouble, sml.ST_UnderlineValuesDoubleAccounting:
			f.DoubleUnderline = true
		case sml.ST_UnderlineValuesNone:
		default:
			f.Underline = true
		}
	}
	if len(x.Scheme) > 0 {
		f.Scheme = fontSchemeFromXML(x.Scheme[0].ValAttr)
	}
	return f
}

func fillFromXML(x *sml.CT_Fill) Fill {
	var f Fill
	if x == nil || x.PatternFill == nil {
		return f
	}
	f.Pattern = patternFromXML(x.PatternFill.PatternTypeAttr)
	f.Foreground = colorFromXML(x.PatternFill.FgColor)
	f.Background = colorFromXML(x.PatternFill.BgColor)
	return f
}

func edgeFromXML(x *sml.CT_BorderPr) BorderEdge {
	if x == nil {
		return BorderEdge{}
	}
	e := BorderEdge{Style: borderStyleFromXML(x.StyleAttr)}
	if e.Style != BorderNone {
		e.Color = colorFromXML(x.Color)
	}
	return e
}

func borderFromXML(x *sml.CT_Border) Border {
	if x == nil {
		return Border{}
	}
	return Border{
		Left:   edgeFromXML(x.Left),
		Right:  edgeFromXML(x.Right),
		Top:    edgeFromXML(x.Top),
		Bottom: edgeFromXML(x.Bottom),
	}
}

func borderStyleFromXML(s sml.ST_BorderStyle) BorderStyle {
	switch s {
	case sml.ST_BorderStyleThin:
		return BorderThin
	case sml.ST_BorderStyleThick:
		return BorderThick
	case sml.ST_BorderStyleDotted:
		return BorderDotted
	case sml.ST_BorderStyleDouble:
		return BorderDouble
	case sml.ST_BorderStyleDashed:
		return BorderDashed
	case sml.ST_BorderStyleDashDot:
		return BorderDashDot
	case sml.ST_BorderStyleDashDotDot:
		return BorderDashDotDot
	case sml.ST_BorderStyleMedium:
		return BorderMedium
	case sml.ST_BorderStyleMediumDashed:
		return BorderMediumDashed
	case sml.ST_BorderStyleMediumDashDot:
		return BorderMediumDashDot
	case sml.ST_BorderStyleMediumDashDotDot:
		return BorderMediumDashDotDot
	case sml.ST_BorderStyleSlantDashDot:
		return BorderSlantDashDot
	case sml.ST_BorderStyleHair:
		return BorderHair
	}
	return BorderNone
}

func patternFromXML(p sml.ST_PatternType) PatternType {
	switch p {
	case sml.ST_PatternTypeSolid:
		return PatternSolid
	case sml.ST_PatternTypeGray125:
		return PatternGray125
	}
	return PatternNone
}

func fontSchemeFromXML(s sml.ST_FontScheme) FontScheme {
	switch s {
	case sml.ST_FontSchemeMinor:
		return SchemeMinor
	case sml.ST_FontSchemeMajor:
		return SchemeMajor
	}
	return SchemeNone
}

func horizontalFromXML(h sml.ST_HorizontalAlignment) HorizontalAlignment {
	switch h {
	case sml.ST_HorizontalAlignmentLeft, sml.ST_HorizontalAlignmentFill:
		return HAlignLeft
	case sml.ST_HorizontalAlignmentCenter, sml.ST_HorizontalAlignmentCenterContinuous, sml.ST_HorizontalAlignmentDistributed:
		return HAlignCenter
	case sml.ST_HorizontalAlignmentRight:
		return HAlignRight
	case sml.ST_HorizontalAlignmentJustify:
		return HAlignJustify
	}
	return HAlignNone
}

func verticalFromXML(v sml.ST_VerticalAlignment) VerticalAlignment {
	switch v {
	case sml.ST_VerticalAlignmentTop:
		return VAlignTop
	case sml.ST_VerticalAlignmentCenter, sml.ST_VerticalAlignmentJustify, sml.ST_VerticalAlignmentDistributed:
		return VAlignMiddle
	case sml.ST_VerticalAlignmentBottom:
		return VAlignBottom
	}
	return VAlignNone
}
