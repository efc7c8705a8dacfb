// Package report assembles paginated lab reports by cloning a styled template
// sheet once per batch of samples and injecting the sample data into it.
package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/aerissecure/xlmodel/xlsx"
)

// InputLayout describes the sample table.
type InputLayout struct {
	Sheet       int    `yaml:"sheet"`
	NameHeader  string `yaml:"name_header"`
	DateHeader  string `yaml:"date_header"`
	LotHeader   string `yaml:"lot_header"`
	SkipRows    int    `yaml:"skip_rows"`
	RowsPerItem int    `yaml:"rows_per_sample"`
	// ResultColumn is the 0-based index of the first result column.
	ResultColumn int `yaml:"result_column"`
	ResultCount  int `yaml:"result_count"`
}

// ResultBlock is a run of consecutive samples whose result grids are laid out
// one under the other starting at Row.
type ResultBlock struct {
	Row     int `yaml:"row"`
	Samples int `yaml:"samples"`
}

// Signature renders Name followed by a grey bold label.
type Signature struct {
	Cell string `yaml:"cell"`
	Name string `yaml:"name"`
}

// Superscript renders Base followed by Sup raised and bold.
type Superscript struct {
	Cell string `yaml:"cell"`
	Base string `yaml:"base"`
	Sup  string `yaml:"sup"`
}

// ColumnRange fixes the width of columns From..To.
type ColumnRange struct {
	From  string  `yaml:"from"`
	To    string  `yaml:"to"`
	Width float64 `yaml:"width"`
}

// Layout says where everything goes on a report page.
type Layout struct {
	Input InputLayout `yaml:"input"`

	// SheetName is a format taking the batch date and the 1-based page number.
	SheetName string `yaml:"sheet_name"`
	BatchSize int    `yaml:"batch_size"`

	DateCell string `yaml:"date_cell"`
	LotCell  string `yaml:"lot_cell"`

	// The batch's names are listed from NameList downwards.
	NameList     string        `yaml:"name_list"`
	NameColumn   string        `yaml:"name_column"`
	ResultColumn string        `yaml:"result_column"`
	Blocks       []ResultBlock `yaml:"blocks"`

	Highlights     []string      `yaml:"highlights"`
	HighlightColor string        `yaml:"highlight_color"`
	Superscript    *Superscript  `yaml:"superscript"`
	Signatures     []Signature   `yaml:"signatures"`
	SignatureLabel string        `yaml:"signature_label"`
	SignatureColor string        `yaml:"signature_color"`
	Columns        []ColumnRange `yaml:"columns"`
}

// DefaultLayout matches the stock raw-data template.
func DefaultLayout() Layout {
	return Layout{
		Input: InputLayout{
			NameHeader:   "검체명",
			DateHeader:   "시험일자",
			LotHeader:    "Plate Lot No.",
			SkipRows:     1,
			RowsPerItem:  3,
			ResultColumn: 7,
			ResultCount:  9,
		},
		SheetName:      "Rawdata_Page_%s_%d",
		BatchSize:      10,
		DateCell:       "K5",
		LotCell:        "S6",
		NameList:       "E10",
		NameColumn:     "F",
		ResultColumn:   "G",
		Blocks:         []ResultBlock{{Row: 45, Samples: 5}, {Row: 63, Samples: 5}},
		Highlights:     []string{"Q43", "Q44"},
		HighlightColor: "FF0000",
		Superscript:    &Superscript{Cell: "J22", Base: "STAR", Sup: "LET"},
		Signatures:     []Signature{{Cell: "C6", Name: "Analyst"}, {Cell: "K6", Name: "Reviewer"}},
		SignatureLabel: "(서명)",
		SignatureColor: "AEAAAA",
		Columns:        []ColumnRange{{From: "G", To: "Y", Width: 6.07}},
	}
}

// LoadLayout reads a YAML layout. Keys missing from the file keep their
// DefaultLayout values.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()
	data, err := os.ReadFile(path)
	if err != nil {
		return l, ErrLayout.Wrap(err, path)
	}
	if err := yaml.UnmarshalStrict(data, &l); err != nil {
		return l, ErrLayout.Wrap(err, path)
	}
	return l, l.Validate()
}

// Validate checks the layout is usable for Build.
func (l Layout) Validate() error {
	if l.BatchSize <= 0 {
		return ErrLayout.New("batch_size must be positive")
	}
	if l.Input.RowsPerItem <= 0 || l.Input.ResultCount <= 0 {
		return ErrLayout.New("rows_per_sample and result_count must be positive")
	}
	capacity := 0
	for _, b := range l.Blocks {
		if b.Row <= 0 || b.Samples <= 0 {
			return ErrLayout.New(fmt.Sprintf("bad result block %+v", b))
		}
		capacity += b.Samples
	}
	if capacity < l.BatchSize {
		return ErrLayout.New(fmt.Sprintf("result blocks hold %d samples, batch_size is %d", capacity, l.BatchSize))
	}
	for _, coord := range append([]string{l.DateCell, l.LotCell, l.NameList}, l.Highlights...) {
		if _, err := xlsx.NormalizeCoordinate(coord); err != nil {
			return ErrLayout.Wrap(err, "cell")
		}
	}
	for _, col := range []string{l.NameColumn, l.ResultColumn} {
		if _, err := xlsx.ColumnNumber(col); err != nil {
			return ErrLayout.Wrap(err, "column")
		}
	}
	return nil
}

// resultAnchor returns the first grid row of the idx-th sample in a batch.
func (l Layout) resultAnchor(idx int) (int, bool) {
	for _, b := range l.Blocks {
		if idx < b.Samples {
			return b.Row + idx*l.Input.RowsPerItem, true
		}
		idx -= b.Samples
	}
	return 0, false
}
