package xlsx

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Stage is the progress of one sheet through the write pipeline.
type Stage int

const (
	StageNew Stage = iota
	StageCreated
	StageDimensionsApplied
	StageWhitewashed
	StageCellsWritten
	StageMergesApplied
)

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageCreated:
		return "created"
	case StageDimensionsApplied:
		return "dimensions-applied"
	case StageWhitewashed:
		return "whitewashed"
	case StageCellsWritten:
		return "cells-written"
	case StageMergesApplied:
		return "merges-applied"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// DefaultMargin is how many rows and columns past the used range get the
// white background.
const DefaultMargin = 10

var whiteFill = Fill{Color: Color{RGB: "FFFFFFFF"}}

// SheetWriter emits one model sheet into an excelize file. The steps must run
// in order: Create, ApplyDimensions, Whitewash, WriteCells, ApplyMerges. Any
// other order fails with ErrStageOrder and leaves the output untouched.
type SheetWriter struct {
	f      *excelize.File
	sheet  *Sheet
	styles *styleCache
	first  bool
	margin int
	log    logrus.FieldLogger

	stage    Stage
	warnings []error
}

func newSheetWriter(f *excelize.File, styles *styleCache, s *Sheet, first bool, margin int, log logrus.FieldLogger) *SheetWriter {
	return &SheetWriter{
		f:      f,
		sheet:  s,
		styles: styles,
		first:  first,
		margin: margin,
		log:    log.WithField("sheet", s.Name),
	}
}

// Stage returns the last completed step.
func (w *SheetWriter) Stage() Stage { return w.stage }

// Warnings returns the recoverable problems met so far.
func (w *SheetWriter) Warnings() []error { return w.warnings }

func (w *SheetWriter) advance(op string, from, to Stage) error {
	if w.stage != from {
		return ErrStageOrder.New(w.sheet.Name, op, w.stage)
	}
	w.stage = to
	w.log.Debugf("%s -> %s", from, to)
	return nil
}

func (w *SheetWriter) warn(err error) {
	w.log.Warn(err.Error())
	w.warnings = append(w.warnings, err)
}

// Create adds the worksheet. The first sheet reuses the file's initial one.
func (w *SheetWriter) Create() error {
	if w.stage != StageNew {
		return ErrStageOrder.New(w.sheet.Name, "create sheet", w.stage)
	}
	var err error
	if w.first {
		err = w.f.SetSheetName(w.f.GetSheetName(0), w.sheet.Name)
	} else {
		_, err = w.f.NewSheet(w.sheet.Name)
	}
	if err != nil {
		return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q", w.sheet.Name))
	}
	return w.advance("create sheet", StageNew, StageCreated)
}

// SetRowHeight changes a row height on the model and, once dimensions have
// been applied, on the output. It is rejected after the whitewash.
func (w *SheetWriter) SetRowHeight(row int, size float64, hidden bool) error {
	if w.stage > StageDimensionsApplied {
		return ErrStageOrder.New(w.sheet.Name, "set row height", w.stage)
	}
	if err := w.sheet.SetRowHeight(row, size, hidden); err != nil {
		return err
	}
	if w.stage == StageDimensionsApplied {
		return w.applyRow(row, w.sheet.RowHeights[row])
	}
	return nil
}

// SetColWidth is SetRowHeight for columns.
func (w *SheetWriter) SetColWidth(col string, size float64, hidden bool) error {
	if w.stage > StageDimensionsApplied {
		return ErrStageOrder.New(w.sheet.Name, "set column width", w.stage)
	}
	if err := w.sheet.SetColWidth(col, size, hidden); err != nil {
		return err
	}
	if w.stage == StageDimensionsApplied {
		n, _ := ColumnNumber(col)
		letter := ColumnLetter(n)
		return w.applyCols(letter, letter, w.sheet.ColWidths[letter])
	}
	return nil
}

// ApplyDimensions writes every row height and column width of the model.
// Consecutive columns with the same dimension are written as one range.
func (w *SheetWriter) ApplyDimensions() error {
	if w.stage != StageCreated {
		return ErrStageOrder.New(w.sheet.Name, "apply dimensions", w.stage)
	}
	rows := make([]int, 0, len(w.sheet.RowHeights))
	for r := range w.sheet.RowHeights {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	for _, r := range rows {
		if err := w.applyRow(r, w.sheet.RowHeights[r]); err != nil {
			return err
		}
	}
	dims := make(map[int]Dimension, len(w.sheet.ColWidths))
	cols := make([]int, 0, len(w.sheet.ColWidths))
	for letters, d := range w.sheet.ColWidths {
		n, err := ColumnNumber(letters)
		if err != nil {
			return err
		}
		dims[n] = d
		cols = append(cols, n)
	}
	sort.Ints(cols)
	for i := 0; i < len(cols); {
		d := dims[cols[i]]
		j := i
		for j+1 < len(cols) && cols[j+1] == cols[j]+1 && dims[cols[j+1]] == d {
			j++
		}
		if err := w.applyCols(ColumnLetter(cols[i]), ColumnLetter(cols[j]), d); err != nil {
			return err
		}
		i = j + 1
	}
	return w.advance("apply dimensions", StageCreated, StageDimensionsApplied)
}

func (w *SheetWriter) applyRow(row int, d Dimension) error {
	if d.Size > 0 {
		if err := w.f.SetRowHeight(w.sheet.Name, row, d.Size); err != nil {
			return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: row %d height", w.sheet.Name, row))
		}
	}
	if d.Hidden {
		if err := w.f.SetRowVisible(w.sheet.Name, row, false); err != nil {
			return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: row %d visibility", w.sheet.Name, row))
		}
	}
	return nil
}

func (w *SheetWriter) applyCols(from, to string, d Dimension) error {
	span := from
	if to != from {
		span = from + ":" + to
	}
	if d.Size > 0 {
		if err := w.f.SetColWidth(w.sheet.Name, from, to, d.Size); err != nil {
			return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: column %s width", w.sheet.Name, span))
		}
	}
	if d.Hidden {
		if err := w.f.SetColVisible(w.sheet.Name, span, false); err != nil {
			return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: column %s visibility", w.sheet.Name, span))
		}
	}
	return nil
}

// Whitewash gives the columns of the used range plus the margin a white
// default style, so the background covers A1 to the margin corner without a
// record per cell. Cells written afterwards replace it with their own style.
// The margin stops at the last column of the format.
func (w *SheetWriter) Whitewash() error {
	if w.stage != StageDimensionsApplied {
		return ErrStageOrder.New(w.sheet.Name, "whitewash", w.stage)
	}
	if w.margin >= 0 {
		var maxCol int
		if a, ok := w.sheet.Bounds(); ok {
			maxCol = a.MaxCol
		}
		st := DefaultStyle()
		st.Fill = whiteFill
		id, err := w.styles.id(st)
		if err != nil {
			return err
		}
		cols := "A:" + ColumnLetter(min(max(maxCol+w.margin, 1), excelize.MaxColumns))
		if err := w.f.SetColStyle(w.sheet.Name, cols, id); err != nil {
			return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: whitewash %s", w.sheet.Name, cols))
		}
	}
	return w.advance("whitewash", StageDimensionsApplied, StageWhitewashed)
}

// WriteCells emits every cell value and style. Non-master merge members get
// their style only; rich-text cells never carry a scalar font colour.
func (w *SheetWriter) WriteCells() error {
	if w.stage != StageWhitewashed {
		return ErrStageOrder.New(w.sheet.Name, "write cells", w.stage)
	}
	covered := make(map[string]bool)
	for _, m := range w.sheet.Merges {
		for _, member := range m.Members {
			if member != m.Master {
				covered[member] = true
			}
		}
	}
	for _, coord := range sortedCoordinates(w.sheet) {
		c := w.sheet.Cells[coord]
		if c == nil {
			continue
		}
		if !covered[coord] {
			if err := w.writeValue(coord, c.Value); err != nil {
				return err
			}
		}
		if err := w.setStyle(coord, outputStyle(c.Value, c.Style)); err != nil {
			return err
		}
	}
	return w.advance("write cells", StageWhitewashed, StageCellsWritten)
}

// outputStyle adjusts a cell style to what is emitted for its value.
func outputStyle(v Value, st Style) Style {
	switch v.Kind {
	case RichText:
		st.Font.Color = Color{}
	case Date:
		if st.NumberFormat == "" || st.NumberFormat == "General" {
			st.NumberFormat = "yyyy-mm-dd"
		}
	}
	return st
}

func (w *SheetWriter) writeValue(coord string, v Value) error {
	var err error
	name := w.sheet.Name
	switch v.Kind {
	case Empty:
		return nil
	case String:
		err = w.f.SetCellStr(name, coord, v.Str)
	case Number:
		err = w.f.SetCellFloat(name, coord, v.Num, -1, 64)
	case Bool:
		err = w.f.SetCellBool(name, coord, v.Bool)
	case Date:
		serial, ok := timeToSerial(v.Time)
		if !ok {
			return ErrFormat.New(fmt.Sprintf("sheet %q: cell %s: date %s is outside the workbook date range", name, coord, v.Time.Format("2006-01-02")))
		}
		err = w.f.SetCellFloat(name, coord, serial, -1, 64)
	case RichText:
		runs := make([]excelize.RichTextRun, 0, len(v.Runs))
		for _, r := range v.Runs {
			runs = append(runs, excelize.RichTextRun{Text: r.Text, Font: excelFont(r.Font, w.styles.palette)})
		}
		err = w.f.SetCellRichText(name, coord, runs)
	default:
		err = fmt.Errorf("unknown value kind %s", v.Kind)
	}
	if err != nil {
		return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: cell %s", name, coord))
	}
	return nil
}

func (w *SheetWriter) setStyle(coord string, st Style) error {
	id, err := w.styles.id(st)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(w.sheet.Name, coord, coord, id); err != nil {
		return ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: style of %s", w.sheet.Name, coord))
	}
	return nil
}

// ApplyMerges merges every region and then copies the master's border onto
// the outer edges of the region, so the block draws one continuous frame.
// A region that cannot be merged is recorded as a warning and skipped.
func (w *SheetWriter) ApplyMerges() error {
	if w.stage != StageCellsWritten {
		return ErrStageOrder.New(w.sheet.Name, "apply merges", w.stage)
	}
	for _, m := range w.sheet.Merges {
		a, err := m.Area()
		if err != nil {
			w.warn(ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: merge %q", w.sheet.Name, m.Range)))
			continue
		}
		if err := w.f.MergeCell(w.sheet.Name, a.TopLeft(), a.BottomRight()); err != nil {
			w.warn(ErrFormat.Wrap(err, fmt.Sprintf("sheet %q: merge %s", w.sheet.Name, a)))
			continue
		}
		if err := w.propagateBorder(a); err != nil {
			return err
		}
	}
	return w.advance("apply merges", StageCellsWritten, StageMergesApplied)
}

func (w *SheetWriter) propagateBorder(a Area) error {
	mb := w.sheet.Lookup(a.TopLeft()).Style.Border
	if mb == (Border{}) {
		return nil
	}
	for _, coord := range a.Cells() {
		if coord == a.TopLeft() {
			continue
		}
		col, row, _ := ParseCoordinate(coord)
		c := w.sheet.Lookup(coord)
		st := c.Style
		if col == a.MinCol && !mb.Left.IsZero() {
			st.Border.Left = mb.Left
		}
		if col == a.MaxCol && !mb.Right.IsZero() {
			st.Border.Right = mb.Right
		}
		if row == a.MinRow && !mb.Top.IsZero() {
			st.Border.Top = mb.Top
		}
		if row == a.MaxRow && !mb.Bottom.IsZero() {
			st.Border.Bottom = mb.Bottom
		}
		if st == c.Style {
			continue
		}
		if err := w.setStyle(coord, outputStyle(c.Value, st)); err != nil {
			return err
		}
	}
	return nil
}

// sortedCoordinates lists the stored cells row by row, left to right.
func sortedCoordinates(s *Sheet) []string {
	type key struct {
		coord    string
		col, row int
	}
	keys := make([]key, 0, len(s.Cells))
	for coord := range s.Cells {
		col, row, err := ParseCoordinate(coord)
		if err != nil {
			continue
		}
		keys = append(keys, key{coord, col, row})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.coord
	}
	return out
}
