package xlsx

import (
	"fmt"
	"html"
	"strings"
)

// cssStyle is the part of a Style the preview can show, with colours resolved
// to "RRGGBB".
type cssStyle struct {
	FontFamily      string
	FontSizePt      float64
	FontColor       string
	Bold            bool
	Italic          bool
	VertAlign       string
	BackgroundColor string
	BorderLeft      string
	BorderRight     string
	BorderTop       string
	BorderBottom    string
	HorizontalAlign string
	VerticalAlign   string
	WrapText        bool
}

func toCSSStyle(st Style, p *Palette) cssStyle {
	return cssStyle{
		FontFamily:      st.Font.Name,
		FontSizePt:      st.Font.Size,
		FontColor:       rgb6(p.Resolve(st.Font.Color)),
		Bold:            st.Font.Bold,
		Italic:          st.Font.Italic,
		VertAlign:       st.Font.VertAlign,
		BackgroundColor: rgb6(p.Resolve(st.Fill.Color)),
		BorderLeft:      borderCSS(st.Border.Left, p),
		BorderRight:     borderCSS(st.Border.Right, p),
		BorderTop:       borderCSS(st.Border.Top, p),
		BorderBottom:    borderCSS(st.Border.Bottom, p),
		HorizontalAlign: st.Alignment.Horizontal,
		VerticalAlign:   st.Alignment.Vertical,
		WrapText:        st.Alignment.WrapText,
	}
}

func borderCSS(b BorderSide, p *Palette) string {
	if b.IsZero() {
		return ""
	}
	color := rgb6(p.Resolve(b.Color))
	if color == "" {
		color = defaultBorderColor
	}
	width, line := "1px", "solid"
	switch b.Style {
	case "medium", "mediumDashed", "mediumDashDot", "mediumDashDotDot":
		width = "2px"
	case "thick":
		width = "3px"
	case "double":
		width, line = "3px", "double"
	}
	switch b.Style {
	case "dashed", "mediumDashed", "dashDot", "mediumDashDot", "dashDotDot", "mediumDashDotDot", "slantDashDot":
		line = "dashed"
	case "dotted", "hair":
		line = "dotted"
	}
	return fmt.Sprintf("%s %s #%s", width, line, color)
}

func textAlignCSS(h string) string {
	switch h {
	case "center", "centerContinuous", "distributed":
		return "text-align:center;"
	case "right":
		return "text-align:right;"
	case "justify":
		return "text-align:justify;"
	}
	return "text-align:left;"
}

func verticalAlignCSS(v string) string {
	switch v {
	case "top":
		return "vertical-align:top;"
	case "center", "justify", "distributed":
		return "vertical-align:middle;"
	}
	return "vertical-align:bottom;"
}

// Column widths are in characters of the default font, heights in points.
const (
	pxPerChar       = 7.0
	defaultColChars = 8.43
	defaultRowPt    = 15.0
)

func colWidthPx(chars float64) float64 { return chars*pxPerChar + 5 }

// RenderHTML renders every sheet of wb as an HTML table. Styles become CSS
// classes; properties shared by most cells move into the base td rule.
func RenderHTML(wb *Workbook) string {
	return renderHTML(wb, defaultPalette)
}

func renderHTML(wb *Workbook, p *Palette) string {
	var builder strings.Builder

	// 1. Collect unique cell styles and count property values
	fontFamilyCount := make(map[string]int)
	fontSizeCount := make(map[float64]int)
	fontColorCount := make(map[string]int)
	hAlignCount := make(map[string]int)
	vAlignCount := make(map[string]int)

	styleMap := make(map[cssStyle]string)
	styleList := make([]cssStyle, 0)
	styledCells := 0

	for _, sheet := range wb.Sheets {
		for _, coord := range sortedCoordinates(sheet) {
			st := toCSSStyle(sheet.Cells[coord].Style, p)
			styledCells++
			if st.FontFamily != "" {
				fontFamilyCount[st.FontFamily]++
			}
			if st.FontSizePt > 0 {
				fontSizeCount[st.FontSizePt]++
			}
			if st.FontColor != "" {
				fontColorCount[st.FontColor]++
			}
			hAlignCount[st.HorizontalAlign]++
			vAlignCount[st.VerticalAlign]++
			if _, exists := styleMap[st]; !exists {
				styleMap[st] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
				styleList = append(styleList, st)
			}
		}
	}

	// 2. A property becomes a default only when more than half the cells share it
	var def cssStyle
	if v, n := mostCommon(fontFamilyCount); n > styledCells/2 {
		def.FontFamily = v
	}
	if v, n := mostCommon(fontSizeCount); n > styledCells/2 {
		def.FontSizePt = v
	}
	if v, n := mostCommon(fontColorCount); n > styledCells/2 {
		def.FontColor = v
	}
	if v, n := mostCommon(hAlignCount); n > styledCells/2 {
		def.HorizontalAlign = v
	}
	if v, n := mostCommon(vAlignCount); n > styledCells/2 {
		def.VerticalAlign = v
	}

	// 3. Basic CSS
	builder.WriteString("<style>\n")
	builder.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	builder.WriteString(".table td { padding: 2px 4px; white-space:nowrap; overflow:hidden;")
	if def.FontFamily != "" {
		builder.WriteString(fmt.Sprintf(" font-family:'%s';", def.FontFamily))
	}
	if def.FontSizePt > 0 {
		builder.WriteString(fmt.Sprintf(" font-size:%.1fpt;", def.FontSizePt))
	}
	if def.FontColor != "" {
		builder.WriteString(fmt.Sprintf(" color:#%s;", def.FontColor))
	}
	builder.WriteString(" " + textAlignCSS(def.HorizontalAlign))
	builder.WriteString(" " + verticalAlignCSS(def.VerticalAlign))
	builder.WriteString(" }\n")
	builder.WriteString(".sheet { margin-bottom: 2em; }\n")

	// 4. Cell style classes, only properties that differ from the defaults
	for i, style := range styleList {
		if css := styleToCSSDiff(style, def); css != "" {
			builder.WriteString(fmt.Sprintf(".cellstyle%d { %s }\n", i+1, css))
		}
	}
	builder.WriteString("</style>\n")

	for _, sheet := range wb.Sheets {
		renderSheet(&builder, sheet, styleMap, p)
	}
	return builder.String()
}

func renderSheet(builder *strings.Builder, sheet *Sheet, styleMap map[cssStyle]string, p *Palette) {
	bounds, ok := sheet.Bounds()
	if !ok {
		bounds = Area{MinCol: 1, MinRow: 1, MaxCol: 1, MaxRow: 1}
	}

	// --- merges: masters get spans, covered cells are skipped ---
	spans := make(map[string][2]int)
	skip := make(map[string]bool)
	for _, m := range sheet.Merges {
		a, err := m.Area()
		if err != nil {
			continue
		}
		spans[m.Master] = [2]int{a.MaxRow - a.MinRow + 1, a.MaxCol - a.MinCol + 1}
		for _, member := range m.Members {
			if member != m.Master {
				skip[member] = true
			}
		}
	}

	totalPx := 0.0
	widths := make([]float64, 0, bounds.MaxCol)
	hidden := make([]bool, 0, bounds.MaxCol)
	for c := 1; c <= bounds.MaxCol; c++ {
		d, ok := sheet.ColWidths[ColumnLetter(c)]
		w := colWidthPx(defaultColChars)
		if ok && d.Size > 0 {
			w = colWidthPx(d.Size)
		}
		widths = append(widths, w)
		hidden = append(hidden, ok && d.Hidden)
		if !(ok && d.Hidden) {
			totalPx += w
		}
	}

	builder.WriteString(fmt.Sprintf("<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(sheet.Name)))
	builder.WriteString("<div style=\"width:100%;overflow-x:auto;\">\n")
	builder.WriteString(fmt.Sprintf("<table class=\"table\" style=\"width:%.0fpx;\">\n", totalPx))
	builder.WriteString("  <colgroup>\n")
	for i, w := range widths {
		style := fmt.Sprintf(" style=\"width:%.0fpx;\"", w)
		if hidden[i] {
			style = " style=\"display:none;\""
		}
		builder.WriteString(fmt.Sprintf("    <col%s>\n", style))
	}
	builder.WriteString("  </colgroup>\n")

	for r := 1; r <= bounds.MaxRow; r++ {
		heightPt := defaultRowPt
		rowStyle := ""
		if d, ok := sheet.RowHeights[r]; ok {
			if d.Size > 0 {
				heightPt = d.Size
			}
			if d.Hidden {
				rowStyle = "display:none;"
			}
		}
		builder.WriteString(fmt.Sprintf("  <tr style=\"height:%.0fpx;%s\">\n", heightPt*4/3, rowStyle))
		for c := 1; c <= bounds.MaxCol; c++ {
			coord := cellName(c, r)
			if skip[coord] {
				continue
			}
			spanAttr := ""
			if span, ok := spans[coord]; ok {
				if span[1] > 1 {
					spanAttr += fmt.Sprintf(" colspan=\"%d\"", span[1])
				}
				if span[0] > 1 {
					spanAttr += fmt.Sprintf(" rowspan=\"%d\"", span[0])
				}
			}
			cell, ok := sheet.Cells[coord]
			if !ok {
				builder.WriteString(fmt.Sprintf("    <td%s></td>\n", spanAttr))
				continue
			}
			className := styleMap[toCSSStyle(cell.Style, p)]
			builder.WriteString(fmt.Sprintf("    <td data-cell=\"%s\"%s class=\"%s\">%s</td>\n",
				coord, spanAttr, className, valueHTML(cell.Value, cell.Style.Font, p)))
		}
		builder.WriteString("  </tr>\n")
	}
	builder.WriteString("</table>\n</div>\n</div>\n")
}

// valueHTML escapes the displayed text; rich-text runs become spans.
func valueHTML(v Value, base Font, p *Palette) string {
	if v.Kind != RichText {
		return escapeText(v.Text())
	}
	var b strings.Builder
	for _, r := range v.Runs {
		if r.Font == nil {
			b.WriteString(escapeText(r.Text))
			continue
		}
		f := r.Font.Apply(base)
		var css strings.Builder
		if r.Font.Name != nil {
			css.WriteString(fmt.Sprintf("font-family:'%s';", f.Name))
		}
		if r.Font.Size != nil {
			css.WriteString(fmt.Sprintf("font-size:%.1fpt;", f.Size))
		}
		if r.Font.Bold != nil {
			css.WriteString(fontWeightCSS(f.Bold))
		}
		if r.Font.Italic != nil {
			css.WriteString(fontStyleCSS(f.Italic))
		}
		if r.Font.Color != nil {
			if c := rgb6(p.Resolve(f.Color)); c != "" {
				css.WriteString(fmt.Sprintf("color:#%s;", c))
			}
		}
		text := escapeText(r.Text)
		switch f.VertAlign {
		case "superscript":
			text = "<sup>" + text + "</sup>"
		case "subscript":
			text = "<sub>" + text + "</sub>"
		}
		if css.Len() == 0 {
			b.WriteString(text)
			continue
		}
		b.WriteString(fmt.Sprintf("<span style=\"%s\">%s</span>", css.String(), text))
	}
	return b.String()
}

// escapeText keeps explicit line breaks.
func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

func fontWeightCSS(bold bool) string {
	if bold {
		return "font-weight:bold;"
	}
	return "font-weight:normal;"
}

func fontStyleCSS(italic bool) string {
	if italic {
		return "font-style:italic;"
	}
	return "font-style:normal;"
}

// styleToCSSDiff returns only the CSS properties from s that differ from def.
func styleToCSSDiff(s, def cssStyle) string {
	var b strings.Builder
	if s.FontFamily != "" && s.FontFamily != def.FontFamily {
		b.WriteString(fmt.Sprintf("font-family:'%s';", s.FontFamily))
	}
	if s.FontSizePt > 0 && s.FontSizePt != def.FontSizePt {
		b.WriteString(fmt.Sprintf("font-size:%.1fpt;", s.FontSizePt))
	}
	if s.FontColor != "" && s.FontColor != def.FontColor {
		b.WriteString(fmt.Sprintf("color:#%s;", s.FontColor))
	}
	if s.Bold {
		b.WriteString(fontWeightCSS(true))
	}
	if s.Italic {
		b.WriteString(fontStyleCSS(true))
	}
	if s.BackgroundColor != "" {
		b.WriteString(fmt.Sprintf("background-color:#%s;", s.BackgroundColor))
	}
	for _, side := range []struct{ name, css string }{
		{"left", s.BorderLeft},
		{"right", s.BorderRight},
		{"top", s.BorderTop},
		{"bottom", s.BorderBottom},
	} {
		if side.css != "" {
			b.WriteString(fmt.Sprintf("border-%s:%s;", side.name, side.css))
		}
	}
	if s.HorizontalAlign != def.HorizontalAlign {
		b.WriteString(textAlignCSS(s.HorizontalAlign))
	}
	if s.VerticalAlign != def.VerticalAlign {
		b.WriteString(verticalAlignCSS(s.VerticalAlign))
	}
	if s.WrapText {
		b.WriteString("white-space:normal;")
	}
	return b.String()
}

func mostCommon[K comparable](m map[K]int) (K, int) {
	var (
		val  K
		best int
	)
	for k, n := range m {
		// ties go to the smaller key so the output is stable
		if n > best || (n == best && fmt.Sprint(k) < fmt.Sprint(val)) {
			best = n
			val = k
		}
	}
	return val, best
}
