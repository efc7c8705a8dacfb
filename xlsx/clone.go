package xlsx

// Clone returns a deep copy of the sheet. Nothing is shared with the source:
// cells, rich-text runs, merge member lists and dimension maps are all copied,
// so the clone can be mutated or handed to another goroutine freely.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	out := &Sheet{
		Name:       s.Name,
		Cells:      make(map[string]*Cell, len(s.Cells)),
		RowHeights: make(map[int]Dimension, len(s.RowHeights)),
		ColWidths:  make(map[string]Dimension, len(s.ColWidths)),
	}
	for coord, c := range s.Cells {
		if c == nil {
			continue
		}
		out.Cells[coord] = &Cell{
			Coordinate: c.Coordinate,
			Value:      c.Value.clone(),
			Style:      c.Style,
		}
	}
	if s.Merges != nil {
		out.Merges = make([]MergeRegion, len(s.Merges))
		for i, m := range s.Merges {
			out.Merges[i] = MergeRegion{
				Range:   m.Range,
				Master:  m.Master,
				Members: append([]string(nil), m.Members...),
			}
		}
	}
	for r, d := range s.RowHeights {
		out.RowHeights[r] = d
	}
	for c, d := range s.ColWidths {
		out.ColWidths[c] = d
	}
	return out
}

// Clone deep-copies every sheet of the workbook. Warnings are not carried.
func (wb *Workbook) Clone() *Workbook {
	out := &Workbook{Sheets: make([]*Sheet, len(wb.Sheets))}
	for i, s := range wb.Sheets {
		out.Sheets[i] = s.Clone()
	}
	return out
}

func (v Value) clone() Value {
	v.Runs = cloneRuns(v.Runs)
	return v
}

func cloneRuns(runs []Run) []Run {
	if runs == nil {
		return nil
	}
	out := make([]Run, len(runs))
	for i, r := range runs {
		out[i] = Run{Text: r.Text, Font: r.Font.clone()}
	}
	return out
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Empty:
		return true
	case String:
		return a.Str == b.Str
	case Number:
		return a.Num == b.Num
	case Bool:
		return a.Bool == b.Bool
	case Date:
		return a.Time.Equal(b.Time)
	case RichText:
		if len(a.Runs) != len(b.Runs) {
			return false
		}
		for i := range a.Runs {
			if a.Runs[i].Text != b.Runs[i].Text {
				return false
			}
			if (a.Runs[i].Font == nil) != (b.Runs[i].Font == nil) {
				return false
			}
			if a.Runs[i].Font != nil && runFont(a.Runs[i].Font) != runFont(b.Runs[i].Font) {
				return false
			}
		}
		return true
	}
	return false
}

// runFont flattens a run override for comparison, with its colour resolved.
func runFont(o *FontOverride) Font {
	f := o.Apply(Font{})
	f.Color = defaultPalette.Concrete(f.Color)
	return f
}
