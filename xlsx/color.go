package xlsx

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is what a theme index missing from the palette resolves to.
// Theme palettes are host-application specific, so an unknown slot degrades
// to a neutral light gray instead of failing the export.
const FallbackColor = "FFD9D9D9"

// noColor is the format's "nothing set" sentinel; it is not black.
const noColor = "00000000"

// Palette maps theme and legacy indexed colour references to concrete ARGB
// values. A Palette is immutable once built.
type Palette struct {
	theme    map[int]string
	indexed  []string
	fallback string
}

// Office theme order as referenced by cell XML: the light/dark pairs come
// first, in lt1, dk1, lt2, dk2 order.
var officeTheme = map[int]string{
	0:  "FFFFFFFF", // lt1
	1:  "FF000000", // dk1
	2:  "FFE7E6E6", // lt2
	3:  "FF44546A", // dk2
	4:  "FF4472C4", // accent1
	5:  "FFED7D31", // accent2
	6:  "FFA5A5A5", // accent3
	7:  "FFFFC000", // accent4
	8:  "FF5B9BD5", // accent5
	9:  "FF70AD47", // accent6
	10: "FF0563C1", // hlink
	11: "FF954F72", // folHlink
}

// Legacy 64-entry indexed palette; 64 and 65 are the system foreground and
// background and carry no colour of their own.
var legacyIndexed = []string{
	"FF000000", "FFFFFFFF", "FFFF0000", "FF00FF00", "FF0000FF", "FFFFFF00", "FFFF00FF", "FF00FFFF",
	"FF000000", "FFFFFFFF", "FFFF0000", "FF00FF00", "FF0000FF", "FFFFFF00", "FFFF00FF", "FF00FFFF",
	"FF800000", "FF008000", "FF000080", "FF808000", "FF800080", "FF008080", "FFC0C0C0", "FF808080",
	"FF9999FF", "FF993366", "FFFFFFCC", "FFCCFFFF", "FF660066", "FFFF8080", "FF0066CC", "FFCCCCFF",
	"FF000080", "FFFF00FF", "FFFFFF00", "FF00FFFF", "FF800080", "FF800000", "FF008080", "FF0000FF",
	"FF00CCFF", "FFCCFFFF", "FFCCFFCC", "FFFFFF99", "FF99CCFF", "FFFF99CC", "FFCC99FF", "FFFFCC99",
	"FF3366FF", "FF33CCCC", "FF99CC00", "FFFFCC00", "FFFF9900", "FFFF6600", "FF666699", "FF969696",
	"FF003366", "FF339966", "FF003300", "FF333300", "FF993300", "FF993366", "FF333399", "FF333333",
	"", "",
}

var defaultPalette = NewPalette(officeTheme, FallbackColor)

// DefaultPalette returns the built-in Office palette.
func DefaultPalette() *Palette { return defaultPalette }

// NewPalette builds a palette from theme index -> colour entries. Entries that
// do not normalise to a colour are dropped, so they resolve to fallback.
func NewPalette(theme map[int]string, fallback string) *Palette {
	p := &Palette{
		theme:    make(map[int]string, len(theme)),
		indexed:  legacyIndexed,
		fallback: normalizeRGB(fallback),
	}
	for idx, hex := range theme {
		if c := normalizeRGB(hex); c != "" {
			p.theme[idx] = c
		}
	}
	return p
}

// ResolveColor resolves c against the default palette.
func ResolveColor(c Color) string { return defaultPalette.Resolve(c) }

// Resolve turns a colour reference into a normalised "AARRGGBB" string, or ""
// when no colour is set. It never fails: malformed input resolves to "" and
// unknown theme slots resolve to the palette fallback.
func (p *Palette) Resolve(c Color) string {
	if p == nil {
		p = defaultPalette
	}
	if !c.Themed {
		return normalizeRGB(c.RGB)
	}
	base, ok := p.theme[c.Theme]
	if !ok {
		return p.fallback
	}
	return applyTint(base, c.Tint)
}

// Concrete resolves c and wraps the result back into a Color.
func (p *Palette) Concrete(c Color) Color {
	return Color{RGB: p.Resolve(c)}
}

// Indexed resolves a legacy indexed colour.
func (p *Palette) Indexed(idx int) string {
	if p == nil {
		p = defaultPalette
	}
	if idx < 0 || idx >= len(p.indexed) {
		return ""
	}
	return p.indexed[idx]
}

func normalizeRGB(s string) string {
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	switch len(s) {
	case 6:
		s = "FF" + s
	case 8:
	default:
		return ""
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return ""
		}
	}
	if s == noColor {
		return ""
	}
	return s
}

// applyTint lightens (tint > 0) or darkens (tint < 0) an ARGB colour on the
// HSL luminance axis.
func applyTint(argb string, tint float64) string {
	if tint == 0 {
		return argb
	}
	if tint > 1 {
		tint = 1
	} else if tint < -1 {
		tint = -1
	}
	c, err := colorful.Hex("#" + argb[2:])
	if err != nil {
		return argb
	}
	h, s, l := c.Hsl()
	if tint < 0 {
		l = l * (1 + tint)
	} else {
		l = l*(1-tint) + tint
	}
	out := colorful.Hsl(h, s, l).Clamped()
	return argb[:2] + strings.ToUpper(strings.TrimPrefix(out.Hex(), "#"))
}

// rgb6 strips the alpha channel, the form excelize expects. excelize always
// writes colours opaque, so a translucent ARGB value reads back as FF.
func rgb6(argb string) string {
	if len(argb) == 8 {
		return argb[2:]
	}
	return argb
}
