package xlsx

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Reader loads xlsx documents into the model. The zero value is ready to use.
type Reader struct {
	// Logger receives warnings about skipped document parts. Defaults to the
	// logrus standard logger.
	Logger logrus.FieldLogger
	// Palette resolves theme colours. When nil the document's own theme is
	// used, falling back to the Office palette.
	Palette *Palette
}

func (r *Reader) log() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// Read opens the xlsx file at path.
func (r *Reader) Read(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound.New(path)
		}
		return nil, ErrFormat.Wrap(err, path)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, ErrFormat.Wrap(err, path)
	}
	if info.IsDir() {
		return nil, ErrFormat.New(fmt.Sprintf("%s is a directory", path))
	}
	return r.ReadFrom(f, info.Size())
}

// ReadFrom parses an xlsx document of the given size.
func (r *Reader) ReadFrom(ra io.ReaderAt, size int64) (*Workbook, error) {
	wb, err := spreadsheet.Read(ra, size)
	if err != nil {
		return nil, ErrFormat.Wrap(err, "not a readable xlsx document")
	}
	p := r.Palette
	if p == nil {
		p = workbookPalette(wb)
	}
	sst, err := sharedStrings(wb, ra, size)
	if err != nil {
		return nil, ErrFormat.Wrap(err, "shared strings")
	}
	pr := &parser{
		wb:      wb,
		sst:     sst,
		palette: p,
		styles:  make(map[uint32]Style),
		model:   &Workbook{},
	}
	if x := wb.X(); x != nil && x.PivotCaches != nil && len(x.PivotCaches.PivotCache) > 0 {
		pr.warn(r.log(), "(workbook)", "pivot table")
	}
	for _, sheet := range wb.Sheets() {
		pr.sheet(sheet, r.log().WithField("sheet", sheet.Name()))
	}
	return pr.model, nil
}

type parser struct {
	wb      *spreadsheet.Workbook
	sst     *sml.Sst
	palette *Palette
	styles  map[uint32]Style
	model   *Workbook
}

func (p *parser) warn(log logrus.FieldLogger, sheet, feature string) {
	err := ErrUnsupportedFeature.New(sheet, feature)
	log.Warn(err.Error())
	p.model.Warnings = append(p.model.Warnings, err)
}

func (p *parser) style(id uint32) Style {
	if st, ok := p.styles[id]; ok {
		return st
	}
	st := styleFromXf(p.wb.StyleSheet, id, p.palette)
	p.styles[id] = st
	return st
}

func (p *parser) sheet(sheet spreadsheet.Sheet, log logrus.FieldLogger) {
	ws := sheet.X()
	s := NewSheet(sheet.Name())
	p.model.Sheets = append(p.model.Sheets, s)

	if ws.Drawing != nil || ws.LegacyDrawing != nil {
		p.warn(log, s.Name, "drawing")
	}
	if len(ws.ConditionalFormatting) > 0 {
		p.warn(log, s.Name, "conditional formatting")
	}

	// --- merges ---
	if ws.MergeCells != nil {
		for _, mc := range ws.MergeCells.MergeCell {
			from, to, err := reference.ParseRangeReference(mc.RefAttr)
			if err != nil {
				log.WithError(err).Warnf("skipping merge %q", mc.RefAttr)
				continue
			}
			a := Area{
				MinCol: int(from.ColumnIdx) + 1, MinRow: int(from.RowIdx),
				MaxCol: int(to.ColumnIdx) + 1, MaxRow: int(to.RowIdx),
			}
			m, err := NewMergeRegion(a.String())
			if err != nil {
				log.WithError(err).Warnf("skipping merge %q", mc.RefAttr)
				continue
			}
			s.Merges = append(s.Merges, m)
		}
	}

	// --- column widths ---
	// An entry that only gives the column a style repeats the default width
	// and is not a dimension override.
	var colStyles []colStyle
	for _, cols := range ws.Cols {
		if cols == nil {
			continue
		}
		for _, col := range cols.Col {
			if col == nil {
				continue
			}
			if col.StyleAttr != nil {
				colStyles = append(colStyles, colStyle{int(col.MinAttr), int(col.MaxAttr), *col.StyleAttr})
			}
			if col.WidthAttr == nil {
				continue
			}
			hidden := col.HiddenAttr != nil && *col.HiddenAttr
			custom := col.CustomWidthAttr != nil && *col.CustomWidthAttr
			if col.StyleAttr != nil && !custom && !hidden {
				continue
			}
			for c := col.MinAttr; c <= col.MaxAttr && c > 0; c++ {
				s.ColWidths[ColumnLetter(int(c))] = Dimension{Size: *col.WidthAttr, Hidden: hidden}
			}
		}
	}

	// --- rows and cells ---
	if ws.SheetData == nil {
		return
	}
	formulas, missing := 0, 0
	for i, row := range ws.SheetData.Row {
		if row == nil {
			continue
		}
		rowNum := i + 1
		if row.RAttr != nil {
			rowNum = int(*row.RAttr)
		}
		if row.HtAttr != nil {
			s.RowHeights[rowNum] = Dimension{Size: *row.HtAttr, Hidden: row.HiddenAttr != nil && *row.HiddenAttr}
		}
		rowStyle, rowStyled := uint32(0), false
		if row.SAttr != nil && row.CustomFormatAttr != nil && *row.CustomFormatAttr {
			rowStyle, rowStyled = *row.SAttr, true
		}
		for j, c := range row.C {
			if c == nil {
				continue
			}
			coord := cellName(j+1, rowNum)
			if c.RAttr != nil {
				key, err := NormalizeCoordinate(*c.RAttr)
				if err != nil {
					log.WithError(err).Warn("skipping cell")
					continue
				}
				coord = key
			}
			if c.F != nil {
				formulas++
			}
			if c.V == nil && c.Is == nil && c.SAttr == nil {
				continue
			}
			// an empty cell that repeats its row or column style is not content
			if c.V == nil && c.Is == nil && c.F == nil {
				col, _, _ := ParseCoordinate(coord)
				if (rowStyled && *c.SAttr == rowStyle) || inheritsColStyle(colStyles, col, *c.SAttr) {
					continue
				}
			}
			st := DefaultStyle()
			if c.SAttr != nil {
				st = p.style(*c.SAttr)
			}
			v, ok := p.value(c, st)
			if !ok {
				missing++
			}
			if v.Kind == RichText {
				st.Font.Color = Color{}
			}
			s.Cells[coord] = &Cell{Coordinate: coord, Value: v, Style: st}
		}
	}
	if formulas > 0 {
		p.warn(log, s.Name, fmt.Sprintf("formula (%d cells, cached values kept)", formulas))
	}
	if missing > 0 {
		err := ErrFormat.New(fmt.Sprintf("sheet %q: %d cells reference missing shared strings", s.Name, missing))
		log.Warn(err.Error())
		p.model.Warnings = append(p.model.Warnings, err)
	}
}

type colStyle struct {
	min, max int
	style    uint32
}

func inheritsColStyle(styles []colStyle, col int, style uint32) bool {
	for _, cs := range styles {
		if col >= cs.min && col <= cs.max {
			return cs.style == style
		}
	}
	return false
}

// value decodes the cell value. It reports false when the cell points at a
// shared string that does not exist.
func (p *parser) value(c *sml.CT_Cell, st Style) (Value, bool) {
	raw := ""
	if c.V != nil {
		raw = *c.V
	}
	switch c.TAttr.String() {
	case "s":
		idx, err := strconv.Atoi(raw)
		if err != nil || p.sst == nil || idx < 0 || idx >= len(p.sst.Si) {
			return Value{}, false
		}
		return p.richString(p.sst.Si[idx]), true
	case "inlineStr":
		return p.richString(c.Is), true
	case "str", "e":
		return StringValue(raw), true
	case "b":
		return BoolValue(raw == "1" || raw == "true"), true
	}
	if c.V == nil {
		return Value{}, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return StringValue(raw), true
	}
	if isDateFormat(st.NumberFormat) {
		return DateValue(serialToTime(f)), true
	}
	return NumberValue(f), true
}

// richString turns a string item into a plain or rich-text value. Items with
// runs always become rich text, even when no run carries formatting.
func (p *parser) richString(rst *sml.CT_Rst) Value {
	if rst == nil {
		return Value{}
	}
	if len(rst.R) == 0 {
		if rst.T == nil {
			return StringValue("")
		}
		return StringValue(*rst.T)
	}
	runs := make([]Run, 0, len(rst.R))
	for _, r := range rst.R {
		if r == nil {
			continue
		}
		runs = append(runs, Run{Text: r.T, Font: fontOverrideFromRPr(r.RPr, p.palette)})
	}
	return Value{Kind: RichText, Runs: runs}
}
