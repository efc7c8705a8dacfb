// Package xlmodel reads spreadsheets into an editable model that keeps every
// visual attribute, and writes the model back out.
//
// The functions here are thin entry points over the xlsx package for callers
// that do not need to configure a Reader or Writer themselves.
package xlmodel

import (
	"fmt"
	"io"
	"time"

	"github.com/aerissecure/xlmodel/xlsx"
)

// ReadToModel loads the spreadsheet at path.
func ReadToModel(path string) (*xlsx.Workbook, error) {
	return (&xlsx.Reader{}).Read(path)
}

// CloneSheet returns an independent deep copy of s.
func CloneSheet(s *xlsx.Sheet) *xlsx.Sheet { return s.Clone() }

// SetCellValue stores value at coord. Besides xlsx.Value it accepts strings,
// bools, integers, floats and time.Time.
func SetCellValue(s *xlsx.Sheet, coord string, value any) error {
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	return s.SetValue(coord, v)
}

// SetStyleOverride applies the set fields of o to the cell at coord.
func SetStyleOverride(s *xlsx.Sheet, coord string, o xlsx.StyleOverride) error {
	return s.ApplyOverride(coord, o)
}

// MakeRichText builds a rich-text value from runs.
func MakeRichText(runs ...xlsx.Run) xlsx.Value { return xlsx.MakeRichText(runs...) }

// SetDimension sets a row height ("12") or column width ("G").
func SetDimension(s *xlsx.Sheet, key string, size float64, hidden bool) error {
	return s.SetDimension(key, size, hidden)
}

// ExportFromModel writes wb to path and returns the recoverable problems met
// on the way, such as merge regions that had to be skipped.
func ExportFromModel(wb *xlsx.Workbook, path string) ([]error, error) {
	w := &xlsx.Writer{}
	if err := w.Write(wb, path); err != nil {
		return nil, err
	}
	return w.Warnings(), nil
}

// ToHTML renders an xlsx document as HTML tables.
func ToHTML(r io.ReaderAt, size int64) (string, error) {
	wb, err := (&xlsx.Reader{}).ReadFrom(r, size)
	if err != nil {
		return "", err
	}
	return xlsx.RenderHTML(wb), nil
}

// ValueOf converts a Go value into a cell value.
func ValueOf(value any) (xlsx.Value, error) {
	switch v := value.(type) {
	case nil:
		return xlsx.Value{}, nil
	case xlsx.Value:
		return v, nil
	case []xlsx.Run:
		return xlsx.MakeRichText(v...), nil
	case string:
		return xlsx.StringValue(v), nil
	case bool:
		return xlsx.BoolValue(v), nil
	case int:
		return xlsx.NumberValue(float64(v)), nil
	case int32:
		return xlsx.NumberValue(float64(v)), nil
	case int64:
		return xlsx.NumberValue(float64(v)), nil
	case float32:
		return xlsx.NumberValue(float64(v)), nil
	case float64:
		return xlsx.NumberValue(v), nil
	case time.Time:
		return xlsx.DateValue(v), nil
	}
	return xlsx.Value{}, xlsx.ErrFormat.New(fmt.Sprintf("unsupported cell value type %T", value))
}
