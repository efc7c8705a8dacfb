package xlsx

import (
	"fmt"
	"strings"
)

// Ptr returns a pointer to v; handy for filling override structs.
func Ptr[T any](v T) *T { return &v }

// FontOverride changes only the font attributes that are set.
type FontOverride struct {
	Name      *string
	Size      *float64
	Bold      *bool
	Italic    *bool
	Color     *Color
	VertAlign *string
}

// Apply returns f with the set attributes replaced.
func (o FontOverride) Apply(f Font) Font {
	if o.Name != nil {
		f.Name = *o.Name
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
		f.Color = *o.Color
	}
	if o.VertAlign != nil {
		f.VertAlign = *o.VertAlign
	}
	return f
}

func (o *FontOverride) clone() *FontOverride {
	if o == nil {
		return nil
	}
	c := &FontOverride{}
	if o.Name != nil {
		c.Name = Ptr(*o.Name)
	}
	if o.Size != nil {
		c.Size = Ptr(*o.Size)
	}
	if o.Bold != nil {
		c.Bold = Ptr(*o.Bold)
	}
	if o.Italic != nil {
		c.Italic = Ptr(*o.Italic)
	}
	if o.Color != nil {
		c.Color = Ptr(*o.Color)
	}
	if o.VertAlign != nil {
		c.VertAlign = Ptr(*o.VertAlign)
	}
	return c
}

// AlignmentOverride changes only the alignment attributes that are set.
type AlignmentOverride struct {
	Horizontal *string
	Vertical   *string
	WrapText   *bool
}

// BorderOverride replaces whole border sides.
type BorderOverride struct {
	Left   *BorderSide
	Right  *BorderSide
	Top    *BorderSide
	Bottom *BorderSide
}

// StyleOverride is a partial style update. Nil fields leave the existing
// style untouched.
type StyleOverride struct {
	Font         FontOverride
	Alignment    AlignmentOverride
	Border       BorderOverride
	Fill         *Fill
	NumberFormat *string
}

// Apply returns s with the override applied.
func (o StyleOverride) Apply(s Style) Style {
	s.Font = o.Font.Apply(s.Font)
	if o.Alignment.Horizontal != nil {
		s.Alignment.Horizontal = *o.Alignment.Horizontal
	}
	if o.Alignment.Vertical != nil {
		s.Alignment.Vertical = *o.Alignment.Vertical
	}
	if o.Alignment.WrapText != nil {
		s.Alignment.WrapText = *o.Alignment.WrapText
	}
	if o.Border.Left != nil {
		s.Border.Left = *o.Border.Left
	}
	if o.Border.Right != nil {
		s.Border.Right = *o.Border.Right
	}
	if o.Border.Top != nil {
		s.Border.Top = *o.Border.Top
	}
	if o.Border.Bottom != nil {
		s.Border.Bottom = *o.Border.Bottom
	}
	if o.Fill != nil {
		s.Fill = *o.Fill
	}
	if o.NumberFormat != nil {
		s.NumberFormat = *o.NumberFormat
	}
	return s
}

// setStyleField assigns one field addressed by a dotted path such as
// "font.color" or "border.left.style".
func setStyleField(s *Style, path string, value any) error {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(path)), ".")
	switch parts[0] {
	case "font":
		if len(parts) != 2 {
			break
		}
		return setFontField(&s.Font, path, parts[1], value)
	case "alignment":
		if len(parts) != 2 {
			break
		}
		switch parts[1] {
		case "horizontal":
			return assignString(&s.Alignment.Horizontal, path, value)
		case "vertical":
			return assignString(&s.Alignment.Vertical, path, value)
		case "wrap_text", "wraptext", "wrap":
			return assignBool(&s.Alignment.WrapText, path, value)
		}
	case "border":
		if len(parts) < 2 {
			break
		}
		side := borderSide(&s.Border, parts[1])
		if side == nil {
			break
		}
		if len(parts) == 2 {
			bs, ok := value.(BorderSide)
			if !ok {
				return ErrStyleField.New(path, fmt.Sprintf("want BorderSide, got %T", value))
			}
			*side = bs
			return nil
		}
		switch parts[2] {
		case "style":
			return assignString(&side.Style, path, value)
		case "color":
			return assignColor(&side.Color, path, value)
		}
	case "fill":
		if len(parts) == 2 && parts[1] == "color" {
			return assignColor(&s.Fill.Color, path, value)
		}
	case "number_format", "numberformat":
		if len(parts) == 1 {
			return assignString(&s.NumberFormat, path, value)
		}
	}
	return ErrStyleField.New(path, "unknown field")
}

func setFontField(f *Font, path, field string, value any) error {
	switch field {
	case "name":
		return assignString(&f.Name, path, value)
	case "size":
		switch v := value.(type) {
		case float64:
			f.Size = v
		case float32:
			f.Size = float64(v)
		case int:
			f.Size = float64(v)
		default:
			return ErrStyleField.New(path, fmt.Sprintf("want number, got %T", value))
		}
		return nil
	case "bold":
		return assignBool(&f.Bold, path, value)
	case "italic":
		return assignBool(&f.Italic, path, value)
	case "color":
		return assignColor(&f.Color, path, value)
	case "vert_align", "vertalign":
		return assignString(&f.VertAlign, path, value)
	}
	return ErrStyleField.New(path, "unknown field")
}

func borderSide(b *Border, name string) *BorderSide {
	switch name {
	case "left":
		return &b.Left
	case "right":
		return &b.Right
	case "top":
		return &b.Top
	case "bottom":
		return &b.Bottom
	}
	return nil
}

func assignString(dst *string, path string, value any) error {
	v, ok := value.(string)
	if !ok {
		return ErrStyleField.New(path, fmt.Sprintf("want string, got %T", value))
	}
	*dst = v
	return nil
}

func assignBool(dst *bool, path string, value any) error {
	v, ok := value.(bool)
	if !ok {
		return ErrStyleField.New(path, fmt.Sprintf("want bool, got %T", value))
	}
	*dst = v
	return nil
}

// assignColor accepts a Color, a hex string, or nil to clear.
func assignColor(dst *Color, path string, value any) error {
	switch v := value.(type) {
	case nil:
		*dst = Color{}
	case Color:
		*dst = v
	case string:
		*dst = RGB(v)
	default:
		return ErrStyleField.New(path, fmt.Sprintf("want Color or hex string, got %T", value))
	}
	return nil
}
