package xlsx

import (
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// Lookups into the raw style sheet. Every index in the file is untrusted, so
// each helper returns nil rather than panicking on a dangling reference.

func cellXf(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Xf {
	x := ss.X()
	if x == nil || x.CellXfs == nil || int(styleID) >= len(x.CellXfs.Xf) {
		return nil
	}
	return x.CellXfs.Xf[styleID]
}

func fontProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Font {
	if xf == nil || xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	idx := int(*xf.FontIdAttr)
	if idx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[idx]
}

func fillProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Fill {
	if xf == nil || xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	idx := int(*xf.FillIdAttr)
	if idx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[idx]
}

func borderProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Border {
	if xf == nil || xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	idx := int(*xf.BorderIdAttr)
	if idx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[idx]
}

// numFmtCode returns the format code of a cell format, custom codes first.
func numFmtCode(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) string {
	if xf == nil || xf.NumFmtIdAttr == nil {
		return "General"
	}
	id := *xf.NumFmtIdAttr
	if nf := ss.X().NumFmts; nf != nil {
		for _, f := range nf.NumFmt {
			if f != nil && f.NumFmtIdAttr == id {
				return f.FormatCodeAttr
			}
		}
	}
	if code, ok := builtinNumFmts[id]; ok {
		return code
	}
	return "General"
}

// styleFromXf converts a cell format record into a model Style with every
// colour resolved against p.
func styleFromXf(ss spreadsheet.StyleSheet, styleID uint32, p *Palette) Style {
	st := DefaultStyle()
	xf := cellXf(ss, styleID)
	if xf == nil {
		return st
	}
	if font := fontProps(ss, xf); font != nil {
		if len(font.Name) > 0 && font.Name[0] != nil {
			st.Font.Name = font.Name[0].ValAttr
		}
		if len(font.Sz) > 0 && font.Sz[0] != nil {
			st.Font.Size = font.Sz[0].ValAttr
		}
		st.Font.Bold = len(font.B) > 0 && boolProp(font.B[0])
		st.Font.Italic = len(font.I) > 0 && boolProp(font.I[0])
		if len(font.Color) > 0 {
			st.Font.Color = colorFromCT(font.Color[0], p)
		}
		if len(font.VertAlign) > 0 && font.VertAlign[0] != nil {
			st.Font.VertAlign = vertAlign(font.VertAlign[0].ValAttr.String())
		}
	}
	if fill := fillProps(ss, xf); fill != nil && fill.PatternFill != nil {
		pf := fill.PatternFill
		switch pf.PatternTypeAttr.String() {
		case "", "none", "gray125":
		default:
			st.Fill.Color = colorFromCT(pf.FgColor, p)
		}
	}
	if b := borderProps(ss, xf); b != nil {
		st.Border = Border{
			Left:   borderSideFromCT(b.Left, p),
			Right:  borderSideFromCT(b.Right, p),
			Top:    borderSideFromCT(b.Top, p),
			Bottom: borderSideFromCT(b.Bottom, p),
		}
	}
	if a := xf.Alignment; a != nil {
		if h := a.HorizontalAttr.String(); h != "" {
			st.Alignment.Horizontal = h
		}
		if v := a.VerticalAttr.String(); v != "" {
			st.Alignment.Vertical = v
		}
		if a.WrapTextAttr != nil {
			st.Alignment.WrapText = *a.WrapTextAttr
		}
	}
	st.NumberFormat = numFmtCode(ss, xf)
	return st
}

func borderSideFromCT(b *sml.CT_BorderPr, p *Palette) BorderSide {
	if b == nil {
		return BorderSide{}
	}
	side := BorderSide{Style: b.StyleAttr.String()}
	if side.IsZero() {
		return BorderSide{}
	}
	side.Color = colorFromCT(b.Color, p)
	return side
}

// fontOverrideFromRPr keeps only the run properties actually present.
func fontOverrideFromRPr(r *sml.CT_RPrElt, p *Palette) *FontOverride {
	if r == nil {
		return nil
	}
	o := &FontOverride{}
	if r.RFont != nil {
		o.Name = Ptr(r.RFont.ValAttr)
	}
	if r.Sz != nil {
		o.Size = Ptr(r.Sz.ValAttr)
	}
	if r.B != nil {
		o.Bold = Ptr(boolProp(r.B))
	}
	if r.I != nil {
		o.Italic = Ptr(boolProp(r.I))
	}
	if r.Color != nil {
		if c := colorFromCT(r.Color, p); !c.IsZero() {
			o.Color = &c
		}
	}
	if r.VertAlign != nil {
		if v := vertAlign(r.VertAlign.ValAttr.String()); v != "" {
			o.VertAlign = Ptr(v)
		}
	}
	if *o == (FontOverride{}) {
		return nil
	}
	return o
}

// boolProp reads a <b/> style element, where a missing val means true.
func boolProp(b *sml.CT_BooleanProperty) bool {
	if b == nil {
		return false
	}
	return b.ValAttr == nil || *b.ValAttr
}

func vertAlign(v string) string {
	switch v {
	case "superscript", "subscript":
		return v
	}
	return ""
}

// colorFromCT resolves a colour element to a concrete colour. Automatic and
// absent colours come back as the zero Color.
func colorFromCT(c *sml.CT_Color, p *Palette) Color {
	if c == nil {
		return Color{}
	}
	var rgb string
	switch {
	case c.RgbAttr != nil:
		rgb = normalizeRGB(*c.RgbAttr)
		if rgb != "" && c.TintAttr != nil {
			rgb = applyTint(rgb, *c.TintAttr)
		}
	case c.ThemeAttr != nil:
		tint := 0.0
		if c.TintAttr != nil {
			tint = *c.TintAttr
		}
		rgb = p.Resolve(ThemeColor(int(*c.ThemeAttr), tint))
	case c.IndexedAttr != nil:
		rgb = p.Indexed(int(*c.IndexedAttr))
	}
	if rgb == "" {
		return Color{}
	}
	return Color{RGB: rgb}
}

// workbookPalette builds a palette from the document's own theme part, so
// theme references resolve to the colours the author saw. Slots the theme does
// not define fall back to the Office defaults.
func workbookPalette(wb *spreadsheet.Workbook) *Palette {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil || themes[0].ThemeElements == nil || themes[0].ThemeElements.ClrScheme == nil {
		return defaultPalette
	}
	cs := themes[0].ThemeElements.ClrScheme
	// cell colour indices list the light colour of each pair first
	slots := []*dml.CT_Color{
		cs.Lt1, cs.Dk1, cs.Lt2, cs.Dk2,
		cs.Accent1, cs.Accent2, cs.Accent3, cs.Accent4, cs.Accent5, cs.Accent6,
		cs.Hlink, cs.FolHlink,
	}
	theme := make(map[int]string, len(officeTheme))
	for idx, hex := range officeTheme {
		theme[idx] = hex
	}
	for idx, clr := range slots {
		if hex, ok := schemeColorRGB(clr); ok {
			theme[idx] = hex
		}
	}
	return NewPalette(theme, FallbackColor)
}

func schemeColorRGB(clr *dml.CT_Color) (string, bool) {
	if clr == nil {
		return "", false
	}
	var hex string
	if clr.SrgbClr != nil && clr.SrgbClr.ValAttr != "" {
		hex = clr.SrgbClr.ValAttr
	} else if clr.SysClr != nil && clr.SysClr.LastClrAttr != nil {
		hex = *clr.SysClr.LastClrAttr
	}
	hex = normalizeRGB(hex)
	return hex, hex != ""
}
