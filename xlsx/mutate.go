package xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell returns the stored cell at coord, if any.
func (s *Sheet) Cell(coord string) (*Cell, bool) {
	key, err := NormalizeCoordinate(coord)
	if err != nil {
		return nil, false
	}
	c, ok := s.Cells[key]
	return c, ok
}

// Lookup returns the cell at coord, or an empty default-styled cell when
// nothing is stored there.
func (s *Sheet) Lookup(coord string) Cell {
	if c, ok := s.Cell(coord); ok {
		return *c
	}
	return Cell{Coordinate: coord, Style: DefaultStyle()}
}

func (s *Sheet) ensureCell(coord string) (*Cell, error) {
	key, err := NormalizeCoordinate(coord)
	if err != nil {
		return nil, err
	}
	if s.Cells == nil {
		s.Cells = make(map[string]*Cell)
	}
	c, ok := s.Cells[key]
	if !ok {
		c = &Cell{Coordinate: key, Style: DefaultStyle()}
		s.Cells[key] = c
	}
	return c, nil
}

// SetValue replaces the value at coord, keeping any existing style. A new
// cell gets the default style. Assigning rich text clears the cell's scalar
// font colour, since the runs own colour from then on. Dates must fall in
// the range a workbook can store.
func (s *Sheet) SetValue(coord string, v Value) error {
	if v.Kind == Date {
		if _, ok := timeToSerial(v.Time); !ok {
			return ErrFormat.New(fmt.Sprintf("sheet %q: cell %s: date %s is outside the workbook date range", s.Name, coord, v.Time.Format("2006-01-02")))
		}
	}
	c, err := s.ensureCell(coord)
	if err != nil {
		return err
	}
	c.Value = v.clone()
	if v.Kind == RichText {
		c.Style.Font.Color = Color{}
	}
	return nil
}

// SetStyle replaces the whole style at coord.
func (s *Sheet) SetStyle(coord string, st Style) error {
	c, err := s.ensureCell(coord)
	if err != nil {
		return err
	}
	c.Style = st
	return nil
}

// ApplyOverride updates the set fields of the style at coord.
func (s *Sheet) ApplyOverride(coord string, o StyleOverride) error {
	c, err := s.ensureCell(coord)
	if err != nil {
		return err
	}
	c.Style = o.Apply(c.Style)
	return nil
}

// SetStyleField updates one style field by dotted path, e.g.
// SetStyleField("Q43", "font.color", "FF0000").
func (s *Sheet) SetStyleField(coord, path string, value any) error {
	c, err := s.ensureCell(coord)
	if err != nil {
		return err
	}
	st := c.Style
	if err := setStyleField(&st, path, value); err != nil {
		return err
	}
	c.Style = st
	return nil
}

// MakeRichText builds a rich-text value from ordered runs.
func MakeRichText(runs ...Run) Value {
	return Value{Kind: RichText, Runs: cloneRuns(runs)}
}

// Plain is a run that inherits the cell font.
func Plain(text string) Run { return Run{Text: text} }

// Styled is a run with its own font attributes.
func Styled(text string, f FontOverride) Run { return Run{Text: text, Font: &f} }

// SetDimension upserts a row height ("12") or column width ("G") override.
// Dimensions must be in the model before it is written; see SheetWriter.
func (s *Sheet) SetDimension(key string, size float64, hidden bool) error {
	key = strings.TrimSpace(key)
	if row, err := strconv.Atoi(key); err == nil {
		return s.SetRowHeight(row, size, hidden)
	}
	return s.SetColWidth(key, size, hidden)
}

// SetRowHeight upserts a row height override in points.
func (s *Sheet) SetRowHeight(row int, size float64, hidden bool) error {
	if row < 1 {
		return ErrCoordinate.New(strconv.Itoa(row), "row numbers start at 1")
	}
	if size < 0 {
		return ErrFormat.New(fmt.Sprintf("sheet %q: negative height %v for row %d", s.Name, size, row))
	}
	if s.RowHeights == nil {
		s.RowHeights = make(map[int]Dimension)
	}
	s.RowHeights[row] = Dimension{Size: size, Hidden: hidden}
	return nil
}

// SetColWidth upserts a column width override in characters.
func (s *Sheet) SetColWidth(col string, size float64, hidden bool) error {
	n, err := ColumnNumber(col)
	if err != nil {
		return err
	}
	if size < 0 {
		return ErrFormat.New(fmt.Sprintf("sheet %q: negative width %v for column %s", s.Name, size, col))
	}
	if s.ColWidths == nil {
		s.ColWidths = make(map[string]Dimension)
	}
	s.ColWidths[ColumnLetter(n)] = Dimension{Size: size, Hidden: hidden}
	return nil
}

// NewMergeRegion expands a range reference into a merge region.
func NewMergeRegion(ref string) (MergeRegion, error) {
	a, err := ParseRange(ref)
	if err != nil {
		return MergeRegion{}, err
	}
	return MergeRegion{Range: a.String(), Master: a.TopLeft(), Members: a.Cells()}, nil
}

// Area returns the rectangle covered by the region.
func (m MergeRegion) Area() (Area, error) { return ParseRange(m.Range) }

// Merge adds a merge region. Overlapping an existing region is an error.
func (s *Sheet) Merge(ref string) error {
	m, err := NewMergeRegion(ref)
	if err != nil {
		return err
	}
	a, _ := m.Area()
	for _, existing := range s.Merges {
		ea, err := existing.Area()
		if err != nil {
			continue
		}
		if a.MinCol <= ea.MaxCol && ea.MinCol <= a.MaxCol && a.MinRow <= ea.MaxRow && ea.MinRow <= a.MaxRow {
			return ErrFormat.New(fmt.Sprintf("sheet %q: merge %s overlaps %s", s.Name, m.Range, existing.Range))
		}
	}
	s.Merges = append(s.Merges, m)
	return nil
}

// Unmerge removes the region with the given range, reporting whether one
// was found.
func (s *Sheet) Unmerge(ref string) bool {
	a, err := ParseRange(ref)
	if err != nil {
		return false
	}
	for i, m := range s.Merges {
		if m.Range == a.String() {
			s.Merges = append(s.Merges[:i], s.Merges[i+1:]...)
			return true
		}
	}
	return false
}

// MergeAt returns the region covering coord.
func (s *Sheet) MergeAt(coord string) (MergeRegion, bool) {
	col, row, err := ParseCoordinate(coord)
	if err != nil {
		return MergeRegion{}, false
	}
	for _, m := range s.Merges {
		if a, err := m.Area(); err == nil && a.Contains(col, row) {
			return m, true
		}
	}
	return MergeRegion{}, false
}

// Bounds returns the smallest area holding every stored cell and merge.
func (s *Sheet) Bounds() (Area, bool) {
	var (
		a     Area
		found bool
	)
	grow := func(col, row int) {
		if !found {
			a = Area{MinCol: col, MinRow: row, MaxCol: col, MaxRow: row}
			found = true
			return
		}
		a.MinCol = min(a.MinCol, col)
		a.MinRow = min(a.MinRow, row)
		a.MaxCol = max(a.MaxCol, col)
		a.MaxRow = max(a.MaxRow, row)
	}
	for coord := range s.Cells {
		if col, row, err := ParseCoordinate(coord); err == nil {
			grow(col, row)
		}
	}
	for _, m := range s.Merges {
		if ma, err := m.Area(); err == nil {
			grow(ma.MinCol, ma.MinRow)
			grow(ma.MaxCol, ma.MaxRow)
		}
	}
	return a, found
}
