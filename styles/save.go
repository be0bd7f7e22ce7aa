package styles

import (
	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"go.uber.org/zap"
)

// Save projects every table, in id order, into a SpreadsheetML style sheet.
// No deduplication happens here; table lengths equal the interner counts.
func (in *Interner) Save() *sml.StyleSheet {
	ss := sml.NewStyleSheet()

	ss.NumFmts = &sml.CT_NumFmts{CountAttr: unioffice.Uint32(uint32(in.numFmts.len()))}
	for id, code := range in.numFmts.items {
		ss.NumFmts.NumFmt = append(ss.NumFmts.NumFmt, &sml.CT_NumFmt{
			NumFmtIdAttr:   NumFmtOutputID(uint32(id)),
			FormatCodeAttr: code,
		})
	}

	ss.Fonts = &sml.CT_Fonts{CountAttr: unioffice.Uint32(uint32(in.fonts.len()))}
	for _, f := range in.fonts.items {
		ss.Fonts.Font = append(ss.Fonts.Font, fontXML(f))
	}

	ss.Fills = &sml.CT_Fills{CountAttr: unioffice.Uint32(uint32(in.fills.len()))}
	for _, f := range in.fills.items {
		ss.Fills.Fill = append(ss.Fills.Fill, fillXML(f))
	}

	ss.Borders = &sml.CT_Borders{CountAttr: unioffice.Uint32(uint32(in.borders.len()))}
	for _, b := range in.borders.items {
		ss.Borders.Border = append(ss.Borders.Border, &sml.CT_Border{
			Left:   edgeXML(b.Left),
			Right:  edgeXML(b.Right),
			Top:    edgeXML(b.Top),
			Bottom: edgeXML(b.Bottom),
		})
	}

	ss.CellStyleXfs = &sml.CT_CellStyleXfs{
		CountAttr: unioffice.Uint32(1),
		Xf: []*sml.CT_Xf{{
			NumFmtIdAttr: unioffice.Uint32(0),
			FontIdAttr:   unioffice.Uint32(0),
			FillIdAttr:   unioffice.Uint32(0),
			BorderIdAttr: unioffice.Uint32(0),
		}},
	}

	ss.CellXfs = &sml.CT_CellXfs{CountAttr: unioffice.Uint32(uint32(in.formats.len()))}
	for _, cf := range in.formats.items {
		ss.CellXfs.Xf = append(ss.CellXfs.Xf, xfXML(cf))
	}

	ss.CellStyles = &sml.CT_CellStyles{
		CountAttr: unioffice.Uint32(1),
		CellStyle: []*sml.CT_CellStyle{{
			NameAttr:      unioffice.String("Normal"),
			XfIdAttr:      0,
			BuiltinIdAttr: unioffice.Uint32(0),
		}},
	}

	c := in.Counts()
	in.log.Debug("Style sheet projected",
		zap.Int("fonts", c.Fonts),
		zap.Int("fills", c.Fills),
		zap.Int("borders", c.Borders),
		zap.Int("numFmts", c.NumberFormats),
		zap.Int("cellXfs", c.CellFormats))
	return ss
}

func fontXML(f Font) *sml.CT_Font {
	x := &sml.CT_Font{}
	if f.Bold {
		x.B = []*sml.CT_BooleanProperty{{ValAttr: unioffice.Bool(true)}}
	}
	if f.Italic {
		x.I = []*sml.CT_BooleanProperty{{ValAttr: unioffice.Bool(true)}}
	}
	switch {
	case f.DoubleUnderline:
		x.U = []*sml.CT_UnderlineProperty{{ValAttr: sml.ST_UnderlineValuesDouble}}
	case f.Underline:
		x.U = []*sml.CT_UnderlineProperty{{ValAttr: sml.ST_UnderlineValuesSingle}}
	}
	if f.Size > 0 {
		x.Sz = []*sml.CT_FontSize{{ValAttr: f.Size}}
	}
	if f.Color != "" {
		x.Color = []*sml.CT_Color{{RgbAttr: unioffice.String(f.Color)}}
	}
	if f.Name != "" {
		x.Name = []*sml.CT_FontName{{ValAttr: f.Name}}
	}
	x.Scheme = []*sml.CT_FontScheme{{ValAttr: fontSchemeXML(f.Scheme)}}
	return x
}

func fillXML(f Fill) *sml.CT_Fill {
	pf := &sml.CT_PatternFill{PatternTypeAttr: patternXML(f.Pattern)}
	if f.Foreground != "" {
		pf.FgColor = &sml.CT_Color{RgbAttr: unioffice.String(f.Foreground)}
	}
	if f.Background != "" {
		pf.BgColor = &sml.CT_Color{RgbAttr: unioffice.String(f.Background)}
	}
	return &sml.CT_Fill{PatternFill: pf}
}

// edgeXML always returns an element; style and color are left out for BorderNone.
func edgeXML(e BorderEdge) *sml.CT_BorderPr {
	x := &sml.CT_BorderPr{}
	if e.Style == BorderNone {
		return x
	}
	x.StyleAttr = borderStyleXML(e.Style)
	if e.Color != "" {
		x.Color = &sml.CT_Color{RgbAttr: unioffice.String(e.Color)}
	}
	return x
}

func xfXML(cf CellFormat) *sml.CT_Xf {
	xf := &sml.CT_Xf{
		NumFmtIdAttr:          unioffice.Uint32(NumFmtOutputID(cf.NumberFormatID)),
		FontIdAttr:            unioffice.Uint32(cf.FontID),
		FillIdAttr:            unioffice.Uint32(cf.FillID),
		BorderIdAttr:          unioffice.Uint32(cf.BorderID),
		XfIdAttr:              unioffice.Uint32(0),
		ApplyNumberFormatAttr: unioffice.Bool(cf.ApplyNumberFormat),
		ApplyFontAttr:         unioffice.Bool(cf.ApplyFont),
		ApplyFillAttr:         unioffice.Bool(cf.ApplyFill),
		ApplyBorderAttr:       unioffice.Bool(cf.ApplyBorder),
		ApplyAlignmentAttr:    unioffice.Bool(cf.ApplyAlignment),
	}
	if cf.ApplyAlignment {
		al := &sml.CT_CellAlignment{
			HorizontalAttr: horizontalXML(cf.Horizontal),
			VerticalAttr:   verticalXML(cf.Vertical),
		}
		if cf.WrapText {
			al.WrapTextAttr = unioffice.Bool(true)
		}
		xf.Alignment = al
	}
	return xf
}

func borderStyleXML(s BorderStyle) sml.ST_BorderStyle {
	switch s {
	case BorderNone:
		return sml.ST_BorderStyleNone
	case BorderThin:
		return sml.ST_BorderStyleThin
	case BorderThick:
		return sml.ST_BorderStyleThick
	case BorderDotted:
		return sml.ST_BorderStyleDotted
	case BorderDouble:
		return sml.ST_BorderStyleDouble
	case BorderDashed:
		return sml.ST_BorderStyleDashed
	case BorderDashDot:
		return sml.ST_BorderStyleDashDot
	case BorderDashDotDot:
		return sml.ST_BorderStyleDashDotDot
	case BorderMedium:
		return sml.ST_BorderStyleMedium
	case BorderMediumDashed:
		return sml.ST_BorderStyleMediumDashed
	case BorderMediumDashDot:
		return sml.ST_BorderStyleMediumDashDot
	case BorderMediumDashDotDot:
		return sml.ST_BorderStyleMediumDashDotDot
	case BorderSlantDashDot:
		return sml.ST_BorderStyleSlantDashDot
	case BorderHair:
		return sml.ST_BorderStyleHair
	}
	return sml.ST_BorderStyleNone
}

func patternXML(p PatternType) sml.ST_PatternType {
	switch p {
	case PatternNone:
		return sml.ST_PatternTypeNone
	case PatternSolid:
		return sml.ST_PatternTypeSolid
	case PatternGray125:
		return sml.ST_PatternTypeGray125
	}
	return sml.ST_PatternTypeNone
}

func fontSchemeXML(s FontScheme) sml.ST_FontScheme {
	switch s {
	case SchemeNone:
		return sml.ST_FontSchemeNone
	case SchemeMinor:
		return sml.ST_FontSchemeMinor
	case SchemeMajor:
		return sml.ST_FontSchemeMajor
	}
	return sml.ST_FontSchemeNone
}

// horizontalXML leaves the attribute unset for HAlignNone.
func horizontalXML(h HorizontalAlignment) sml.ST_HorizontalAlignment {
	switch h {
	case HAlignNone:
		return sml.ST_HorizontalAlignmentUnset
	case HAlignLeft:
		return sml.ST_HorizontalAlignmentLeft
	case HAlignCenter:
		return sml.ST_HorizontalAlignmentCenter
	case HAlignRight:
		return sml.ST_HorizontalAlignmentRight
	case HAlignJustify:
		return sml.ST_HorizontalAlignmentJustify
	}
	return sml.ST_HorizontalAlignmentUnset
}

// verticalXML leaves the attribute unset for VAlignNone.
func verticalXML(v VerticalAlignment) sml.ST_VerticalAlignment {
	switch v {
	case VAlignNone:
		return sml.ST_VerticalAlignmentUnset
	case VAlignTop:
		return sml.ST_VerticalAlignmentTop
	case VAlignMiddle:
		return sml.ST_VerticalAlignmentCenter
	case VAlignBottom:
		return sml.ST_VerticalAlignmentBottom
	}
	return sml.ST_VerticalAlignmentUnset
}
