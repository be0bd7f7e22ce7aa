package xlsx

import (
	"fmt"
	"html"
	"strings"
)

// DefaultBorderColor is used for cells without a border of their own.
const DefaultBorderColor = "333333"

// tally counts how often each property value occurs across styled cells.
type tally[K comparable] map[K]int

// majority returns the most frequent value when it covers more than half of
// total, and the zero value otherwise.
func (t tally[K]) majority(total int) K {
	var best K
	n := 0
	for k, v := range t {
		if v > n {
			best, n = k, v
		}
	}
	if n <= total/2 {
		var zero K
		return zero
	}
	return best
}

// cssDefaults are the properties placed on the base "td" rule. Class rules
// only carry what differs from them.
type cssDefaults struct {
	fontFamily  string
	fontSize    float64
	fontColor   string
	bgColor     string
	borderColor string
	hAlign      string
	vAlign      string
	wrap        bool
}

func computeDefaults(m WorkbookModel) (cssDefaults, map[CellStyle]string, []CellStyle) {
	var (
		families = tally[string]{}
		sizes    = tally[float64]{}
		colors   = tally[string]{}
		bgs      = tally[string]{}
		borders  = tally[string]{}
		hAligns  = tally[string]{}
		vAligns  = tally[string]{}
		wraps    = tally[bool]{}
		total    int
	)
	classes := make(map[CellStyle]string)
	var order []CellStyle

	for _, sheet := range m.Sheets {
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				if cell == nil {
					continue
				}
				total++
				st := cell.Style
				if st.FontFamily != "" {
					families[st.FontFamily]++
				}
				if st.FontSizePt > 0 {
					sizes[st.FontSizePt]++
				}
				if st.FontColor != "" {
					colors[st.FontColor]++
				}
				if st.BackgroundColor != "" {
					bgs[st.BackgroundColor]++
				}
				if st.BorderColor != "" {
					borders[st.BorderColor]++
				}
				if st.HorizontalAlign != "" {
					hAligns[st.HorizontalAlign]++
				}
				if st.VerticalAlign != "" {
					vAligns[st.VerticalAlign]++
				}
				wraps[st.WrapText]++
				if _, ok := classes[st]; !ok {
					classes[st] = fmt.Sprintf("cellstyle%d", len(order)+1)
					order = append(order, st)
				}
			}
		}
	}

	def := cssDefaults{
		fontFamily:  families.majority(total),
		fontSize:    sizes.majority(total),
		fontColor:   colors.majority(total),
		bgColor:     bgs.majority(total),
		borderColor: borders.majority(total),
		hAlign:      hAligns.majority(total),
		vAlign:      vAligns.majority(total),
		wrap:        wraps.majority(total),
	}
	return def, classes, order
}

// RenderWorkbookHTML converts the model into an HTML fragment: a style block
// followed by one table per sheet. borderColor is used for cells without a
// border; empty means DefaultBorderColor.
func RenderWorkbookHTML(m WorkbookModel, borderColor string) string {
	if borderColor == "" {
		borderColor = DefaultBorderColor
	}
	def, classes, order := computeDefaults(m)

	var b strings.Builder
	b.WriteString("<style>\n")
	b.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	b.WriteString(".table td { padding: 4px 8px;")
	if def.fontFamily != "" {
		fmt.Fprintf(&b, " font-family:'%s';", def.fontFamily)
	}
	if def.fontSize > 0 {
		fmt.Fprintf(&b, " font-size:%.1fpt;", def.fontSize)
	}
	if def.fontColor != "" {
		fmt.Fprintf(&b, " color:#%s;", def.fontColor)
	}
	if def.bgColor != "" {
		fmt.Fprintf(&b, " background-color:#%s;", def.bgColor)
	}
	if def.borderColor != "" {
		fmt.Fprintf(&b, " border:1px solid #%s;", def.borderColor)
	} else {
		fmt.Fprintf(&b, " border:1px solid #%s;", borderColor)
	}
	if !def.wrap {
		b.WriteString(" white-space:nowrap; overflow:hidden;")
	}
	if def.hAlign != "" {
		b.WriteString(" " + textAlign(def.hAlign))
	}
	if def.vAlign != "" {
		b.WriteString(" " + verticalAlign(def.vAlign))
	}
	b.WriteString(" }\n")
	b.WriteString(".sheet { margin-bottom: 2em; }\n")

	for _, st := range order {
		if css := styleToCSSDiff(st, def); css != "" {
			fmt.Fprintf(&b, ".%s { %s }\n", classes[st], css)
		}
	}
	b.WriteString("</style>\n")

	for _, sheet := range m.Sheets {
		renderSheet(&b, sheet, classes)
	}
	return b.String()
}

func renderSheet(b *strings.Builder, sheet RenderSheet, classes map[CellStyle]string) {
	totalPx := 0.0
	for _, w := range sheet.ColWidths {
		totalPx += w
	}
	fmt.Fprintf(b, "<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(sheet.Name))
	b.WriteString("<div style=\"width:100%;overflow-x:auto;\">\n")
	fmt.Fprintf(b, "<table class=\"table\" style=\"width:%.0fpx;\">\n", totalPx)
	b.WriteString("  <colgroup>\n")
	for i, w := range sheet.ColWidths {
		if sheet.ColHidden[i] {
			b.WriteString("    <col style=\"display:none;\">\n")
			continue
		}
		fmt.Fprintf(b, "    <col style=\"width:%.0fpx;\">\n", w)
	}
	b.WriteString("  </colgroup>\n")

	for _, row := range sheet.Rows {
		rowStyle := fmt.Sprintf("height:%.0fpx;", row.HeightPx)
		if row.Hidden {
			rowStyle += "display:none;"
		}
		fmt.Fprintf(b, "  <tr style=\"%s\">\n", rowStyle)
		for col, cell := range row.Cells {
			if col < len(row.Covered) && row.Covered[col] {
				continue
			}
			if cell == nil {
				b.WriteString("    <td></td>\n")
				continue
			}
			span := ""
			if cell.ColSpan > 1 {
				span += fmt.Sprintf(" colspan=\"%d\"", cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				span += fmt.Sprintf(" rowspan=\"%d\"", cell.RowSpan)
			}
			fmt.Fprintf(b, "    <td data-cell=\"%s\"%s class=\"%s\">%s</td>\n",
				cell.Ref, span, classes[cell.Style], cellContent(cell))
		}
		b.WriteString("  </tr>\n")
	}
	b.WriteString("</table>\n</div>\n</div>\n")
}

func cellContent(cell *RenderCell) string {
	// line breaks inside a cell are stored as \n
	text := strings.ReplaceAll(html.EscapeString(cell.Value), "\n", "<br>")
	if cell.Link == "" {
		return text
	}
	title := ""
	if cell.Tooltip != "" {
		title = fmt.Sprintf(" title=\"%s\"", html.EscapeString(cell.Tooltip))
	}
	return fmt.Sprintf("<a href=\"%s\"%s>%s</a>", html.EscapeString(cell.Link), title, text)
}

func textAlign(h string) string {
	switch h {
	case "center":
		return "text-align:center;"
	case "right":
		return "text-align:right;"
	case "justify":
		return "text-align:justify;"
	}
	return "text-align:left;"
}

func verticalAlign(v string) string {
	switch v {
	case "top":
		return "vertical-align:top;"
	case "middle":
		return "vertical-align:middle;"
	}
	return "vertical-align:bottom;"
}

// styleToCSSDiff returns only the CSS properties of s that differ from def.
func styleToCSSDiff(s CellStyle, def cssDefaults) string {
	var b strings.Builder
	if s.FontFamily != "" && s.FontFamily != def.fontFamily {
		fmt.Fprintf(&b, "font-family:'%s';", s.FontFamily)
	}
	if s.FontSizePt > 0 && s.FontSizePt != def.fontSize {
		fmt.Fprintf(&b, "font-size:%.1fpt;", s.FontSizePt)
	}
	if s.FontColor != "" && s.FontColor != def.fontColor {
		fmt.Fprintf(&b, "color:#%s;", s.FontColor)
	}
	if s.Bold {
		b.WriteString("font-weight:bold;")
	}
	if s.Italic {
		b.WriteString("font-style:italic;")
	}
	if s.Underline {
		b.WriteString("text-decoration:underline;")
	}
	if s.BackgroundColor != "" && s.BackgroundColor != def.bgColor {
		fmt.Fprintf(&b, "background-color:#%s;", s.BackgroundColor)
	}
	if s.BorderColor != "" && s.BorderColor != def.borderColor {
		fmt.Fprintf(&b, "border:1px solid #%s;", s.BorderColor)
	}
	if s.HorizontalAlign != "" && s.HorizontalAlign != def.hAlign {
		b.WriteString(textAlign(s.HorizontalAlign))
	}
	if s.VerticalAlign != "" && s.VerticalAlign != def.vAlign {
		b.WriteString(verticalAlign(s.VerticalAlign))
	}
	if s.WrapText != def.wrap {
		if s.WrapText {
			b.WriteString("white-space:normal;")
		} else {
			b.WriteString("white-space:nowrap;overflow:hidden;")
		}
	}
	return b.String()
}
