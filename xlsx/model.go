package xlsx

import (
	"fmt"
	"time"
)

// In-memory representation of a workbook. Everything here is plain data: the
// model holds no file handles and can be built by the Reader or by hand.

// Color is either a concrete ARGB value or a theme palette reference. The
// zero value means "no colour set", which is distinct from black.
type Color struct {
	RGB    string  // "AARRGGBB" once resolved; may be 6 digits when set by hand
	Theme  int     // palette index, only meaningful when Themed is set
	Tint   float64 // -1..1, applied to theme colours
	Themed bool
}

// RGB returns a concrete colour reference.
func RGB(hex string) Color { return Color{RGB: hex} }

// ThemeColor returns a theme palette reference.
func ThemeColor(index int, tint float64) Color {
	return Color{Theme: index, Tint: tint, Themed: true}
}

// IsZero reports whether no colour is set.
func (c Color) IsZero() bool { return c == Color{} }

func (c Color) String() string {
	if c.Themed {
		return fmt.Sprintf("theme(%d,%.2f)", c.Theme, c.Tint)
	}
	if c.RGB == "" {
		return "none"
	}
	return c.RGB
}

// Font holds the font attributes of a cell.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Color     Color
	VertAlign string // "", "superscript" or "subscript"
}

// Alignment holds the alignment attributes of a cell.
type Alignment struct {
	Horizontal string // general|left|center|right|fill|justify|centerContinuous|distributed
	Vertical   string // top|center|bottom|justify|distributed
	WrapText   bool
}

// BorderSide is one edge of a cell border. An empty Style means no line.
type BorderSide struct {
	Style string // thin|medium|dashed|dotted|thick|double|hair|...
	Color Color
}

// IsZero reports whether the side draws nothing.
func (b BorderSide) IsZero() bool { return b.Style == "" || b.Style == "none" }

// Border holds the four sides of a cell border.
type Border struct {
	Left   BorderSide
	Right  BorderSide
	Top    BorderSide
	Bottom BorderSide
}

// Fill is a solid background. A zero Color means no fill.
type Fill struct {
	Color Color
}

// Style is the complete visual description of one cell. It is a comparable
// value, so equal styles can share a single style record on write.
type Style struct {
	Font         Font
	Alignment    Alignment
	Border       Border
	Fill         Fill
	NumberFormat string
}

// DefaultStyle is the style of a cell that specifies none.
func DefaultStyle() Style {
	return Style{
		Font:         Font{Name: "Calibri", Size: 11},
		Alignment:    Alignment{Horizontal: "general", Vertical: "bottom"},
		NumberFormat: "General",
	}
}

func (s Style) String() string {
	return fmt.Sprintf("Font: %s %.1f b=%t i=%t color=%s, Align: %s/%s wrap=%t, Border: L=%s R=%s T=%s B=%s, Fill: %s, NumFmt: %s",
		s.Font.Name, s.Font.Size, s.Font.Bold, s.Font.Italic, s.Font.Color,
		s.Alignment.Horizontal, s.Alignment.Vertical, s.Alignment.WrapText,
		s.Border.Left.Style, s.Border.Right.Style, s.Border.Top.Style, s.Border.Bottom.Style,
		s.Fill.Color, s.NumberFormat)
}

// ValueKind identifies what a Value holds.
type ValueKind int

const (
	Empty ValueKind = iota
	String
	Number
	Bool
	Date
	RichText
)

func (k ValueKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case RichText:
		return "richtext"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Run is one segment of a rich-text value. A nil Font inherits the cell font.
type Run struct {
	Text string
	Font *FontOverride
}

// Value is the content of a cell.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
	Runs []Run
}

// StringValue, NumberValue, BoolValue and DateValue build scalar values.
func StringValue(s string) Value  { return Value{Kind: String, Str: s} }
func NumberValue(f float64) Value { return Value{Kind: Number, Num: f} }
func BoolValue(b bool) Value      { return Value{Kind: Bool, Bool: b} }
func DateValue(t time.Time) Value { return Value{Kind: Date, Time: t} }

// IsEmpty reports whether the value holds nothing.
func (v Value) IsEmpty() bool { return v.Kind == Empty }

// IsRich reports whether the value is a run sequence.
func (v Value) IsRich() bool { return v.Kind == RichText }

// Equal compares two values, including run text and run fonts.
func (v Value) Equal(o Value) bool { return valuesEqual(v, o) }

func (v Value) String() string { return v.Text() }

// Text returns the displayed text of the value without number formatting.
func (v Value) Text() string {
	switch v.Kind {
	case String:
		return v.Str
	case Number:
		return fmt.Sprintf("%g", v.Num)
	case Bool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case Date:
		return v.Time.Format("2006-01-02")
	case RichText:
		var s string
		for _, r := range v.Runs {
			s += r.Text
		}
		return s
	}
	return ""
}

// Cell is one addressed cell of a sheet.
type Cell struct {
	Coordinate string
	Value      Value
	Style      Style
}

func (c Cell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %q (%s), Style: %s", c.Coordinate, c.Value.Text(), c.Value.Kind, c.Style)
}

// MergeRegion is a rectangular block shown as one cell. Only Master carries a
// value; every member can still carry its own style.
type MergeRegion struct {
	Range   string   // e.g. "A1:B3"
	Master  string   // top-left coordinate
	Members []string // every coordinate covered, row-major
}

// Dimension is an explicit row height (points) or column width (characters).
type Dimension struct {
	Size   float64
	Hidden bool
}

// Sheet is one worksheet. Cells is sparse: an absent coordinate is an empty
// cell with the default style.
type Sheet struct {
	Name       string
	Cells      map[string]*Cell
	Merges     []MergeRegion
	RowHeights map[int]Dimension
	ColWidths  map[string]Dimension
}

// NewSheet returns an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:       name,
		Cells:      make(map[string]*Cell),
		RowHeights: make(map[int]Dimension),
		ColWidths:  make(map[string]Dimension),
	}
}

func (s *Sheet) String() string {
	return fmt.Sprintf("Name: %s, Cells: %d, Merges: %d, RowHeights: %d, ColWidths: %d",
		s.Name, len(s.Cells), len(s.Merges), len(s.RowHeights), len(s.ColWidths))
}

// Workbook is the top-level model: an ordered list of sheets plus the
// non-fatal problems met while reading it.
type Workbook struct {
	Sheets   []*Sheet
	Warnings []error
}

// Sheet returns the sheet with the given name.
func (wb *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
