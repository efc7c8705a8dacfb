package xlsx

import (
	"github.com/xuri/excelize/v2"
)

// Border line names in the order excelize indexes them.
var borderStyles = []string{
	"none",
	"thin",
	"medium",
	"dashed",
	"dotted",
	"thick",
	"double",
	"hair",
	"mediumDashed",
	"dashDot",
	"mediumDashDot",
	"dashDotDot",
	"mediumDashDotDot",
	"slantDashDot",
}

func borderStyleIndex(name string) int {
	for i, s := range borderStyles {
		if s == name {
			return i
		}
	}
	return 1
}

// defaultBorderColor is used for sides that set a line but no colour.
const defaultBorderColor = "000000"

// styleCache hands out one excelize style id per distinct resolved Style.
type styleCache struct {
	f       *excelize.File
	palette *Palette
	ids     map[Style]int
}

func newStyleCache(f *excelize.File, p *Palette) *styleCache {
	return &styleCache{f: f, palette: p, ids: make(map[Style]int)}
}

// id returns the style id for st, creating the record on first use.
func (c *styleCache) id(st Style) (int, error) {
	st = c.resolve(st)
	if id, ok := c.ids[st]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(excelStyle(st))
	if err != nil {
		return 0, ErrStyleField.Wrap(err, "style", st.String())
	}
	c.ids[st] = id
	return id, nil
}

// resolve replaces every colour reference with its concrete value.
func (c *styleCache) resolve(st Style) Style {
	st.Font.Color = c.palette.Concrete(st.Font.Color)
	st.Fill.Color = c.palette.Concrete(st.Fill.Color)
	for _, side := range []*BorderSide{&st.Border.Left, &st.Border.Right, &st.Border.Top, &st.Border.Bottom} {
		if side.IsZero() {
			*side = BorderSide{}
			continue
		}
		side.Color = c.palette.Concrete(side.Color)
	}
	return st
}

// excelStyle converts a resolved Style into excelize's description.
func excelStyle(st Style) *excelize.Style {
	es := &excelize.Style{
		Font: &excelize.Font{
			Family:    st.Font.Name,
			Size:      st.Font.Size,
			Bold:      st.Font.Bold,
			Italic:    st.Font.Italic,
			Color:     rgb6(st.Font.Color.RGB),
			VertAlign: st.Font.VertAlign,
		},
	}
	a := st.Alignment
	if (a.Horizontal != "" && a.Horizontal != "general") || (a.Vertical != "" && a.Vertical != "bottom") || a.WrapText {
		es.Alignment = &excelize.Alignment{WrapText: a.WrapText}
		if a.Horizontal != "general" {
			es.Alignment.Horizontal = a.Horizontal
		}
		if a.Vertical != "bottom" {
			es.Alignment.Vertical = a.Vertical
		}
	}
	for _, side := range []struct {
		typ string
		b   BorderSide
	}{
		{"left", st.Border.Left},
		{"right", st.Border.Right},
		{"top", st.Border.Top},
		{"bottom", st.Border.Bottom},
	} {
		if side.b.IsZero() {
			continue
		}
		color := rgb6(side.b.Color.RGB)
		if color == "" {
			color = defaultBorderColor
		}
		es.Border = append(es.Border, excelize.Border{Type: side.typ, Color: color, Style: borderStyleIndex(side.b.Style)})
	}
	if !st.Fill.Color.IsZero() {
		es.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rgb6(st.Fill.Color.RGB)}}
	}
	if id, ok := builtinNumFmtID(st.NumberFormat); ok {
		es.NumFmt = id
	} else {
		code := st.NumberFormat
		es.CustomNumFmt = &code
	}
	return es
}

// excelFont converts a run override. Only the set attributes are emitted so
// the run inherits everything else from the cell.
func excelFont(o *FontOverride, p *Palette) *excelize.Font {
	if o == nil {
		return nil
	}
	f := &excelize.Font{}
	if o.Name != nil {
		f.Family = *o.Name
	}
	if o.Size != nil {
		f.Size = *o.Size
	}
	if o.Bold != nil {
		f.Bold = *o.Bold
	}
	if o.Italic != nil {
		f.Italic = *o.Italic
	}
	if o.Color != nil {
		f.Color = rgb6(p.Resolve(*o.Color))
	}
	if o.VertAlign != nil {
		f.VertAlign = *o.VertAlign
	}
	return f
}
