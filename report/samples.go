package report

import (
	"fmt"
	"strconv"
	"strings"

	tealeg "github.com/tealeg/xlsx"

	"github.com/aerissecure/xlmodel/xlsx"
)

// Sample is one specimen of the input table with its replicate results.
type Sample struct {
	Name string
	Date string
	Lot  string
	// Results holds one row per replicate.
	Results [][]xlsx.Value
}

// LoadSamples reads the sample table at path. The first row names the
// columns. Blank cells take the value above them, then Input.SkipRows data
// rows are dropped and the rest is grouped Input.RowsPerItem rows per sample.
// A trailing incomplete group is ignored.
func LoadSamples(path string, in InputLayout) ([]Sample, error) {
	f, err := tealeg.OpenFile(path)
	if err != nil {
		return nil, ErrSamples.Wrap(err, path, "cannot open")
	}
	if in.Sheet < 0 || in.Sheet >= len(f.Sheets) {
		return nil, ErrSamples.New(path, fmt.Sprintf("no sheet %d", in.Sheet))
	}
	grid := filledGrid(f.Sheets[in.Sheet], f.Date1904)
	if len(grid) == 0 {
		return nil, ErrSamples.New(path, "empty")
	}
	header := grid[0]
	column := func(name string) (int, error) {
		for i, h := range header {
			if strings.TrimSpace(h.text) == name {
				return i, nil
			}
		}
		return 0, ErrSamples.New(path, fmt.Sprintf("missing column %q", name))
	}
	nameCol, err := column(in.NameHeader)
	if err != nil {
		return nil, err
	}
	dateCol, err := column(in.DateHeader)
	if err != nil {
		return nil, err
	}
	lotCol, err := column(in.LotHeader)
	if err != nil {
		return nil, err
	}

	rows := grid[1:]
	if in.SkipRows >= len(rows) {
		return nil, nil
	}
	rows = rows[in.SkipRows:]

	var samples []Sample
	for i := 0; i+in.RowsPerItem <= len(rows); i += in.RowsPerItem {
		group := rows[i : i+in.RowsPerItem]
		s := Sample{
			Name: group[0].at(nameCol).text,
			Date: group[0].at(dateCol).date,
			Lot:  group[0].at(lotCol).text,
		}
		for _, r := range group {
			vals := make([]xlsx.Value, in.ResultCount)
			for c := range vals {
				vals[c] = r.at(in.ResultColumn + c).value
			}
			s.Results = append(s.Results, vals)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

type field struct {
	text  string
	date  string
	value xlsx.Value
}

type record []field

func (r record) at(i int) field {
	if i < 0 || i >= len(r) {
		return field{}
	}
	return r[i]
}

// filledGrid reads the sheet into records, forward filling blank cells
// column by column below the header.
func filledGrid(sheet *tealeg.Sheet, date1904 bool) []record {
	width := 0
	for _, row := range sheet.Rows {
		if row != nil && len(row.Cells) > width {
			width = len(row.Cells)
		}
	}
	last := make([]field, width)
	var grid []record
	for i, row := range sheet.Rows {
		rec := make(record, width)
		if row != nil {
			for j, c := range row.Cells {
				if c != nil {
					rec[j] = readField(c, date1904)
				}
			}
		}
		if i > 0 {
			for j := range rec {
				if rec[j].text == "" {
					rec[j] = last[j]
				}
				last[j] = rec[j]
			}
		}
		grid = append(grid, rec)
	}
	return grid
}

func readField(c *tealeg.Cell, date1904 bool) field {
	raw := strings.TrimSpace(c.Value)
	f := field{text: raw, date: raw}
	if raw == "" {
		return f
	}
	// dates keep only the day part
	if i := strings.IndexAny(raw, " T"); i > 0 {
		f.date = raw[:i]
	}
	switch c.Type() {
	case tealeg.CellTypeBool:
		f.value = xlsx.BoolValue(raw == "1" || strings.EqualFold(raw, "true"))
		return f
	case tealeg.CellTypeString:
		f.value = xlsx.StringValue(raw)
		return f
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.value = xlsx.StringValue(raw)
		return f
	}
	f.value = xlsx.NumberValue(n)
	f.date = tealeg.TimeFromExcelTime(n, date1904).Format("2006-01-02")
	return f
}

// Chunk splits samples into consecutive batches of at most n.
func Chunk(samples []Sample, n int) [][]Sample {
	if n <= 0 {
		return nil
	}
	var out [][]Sample
	for i := 0; i < len(samples); i += n {
		end := i + n
		if end > len(samples) {
			end = len(samples)
		}
		out = append(out, samples[i:end])
	}
	return out
}
