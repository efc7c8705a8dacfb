package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleWorkbook(t *testing.T) *Workbook {
	t.Helper()
	data := NewSheet("Data")

	header := DefaultStyle()
	header.Font = Font{Name: "Arial", Size: 12, Bold: true, Color: RGB("FFFF0000")}
	header.Fill = Fill{Color: RGB("FFFFFF00")}
	header.Border.Bottom = BorderSide{Style: "medium", Color: RGB("FF000000")}
	header.Alignment = Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	require.NoError(t, data.SetValue("A1", StringValue("Header")))
	require.NoError(t, data.SetStyle("A1", header))

	require.NoError(t, data.SetValue("B2", NumberValue(3.25)))
	require.NoError(t, data.SetStyleField("B2", "number_format", "0.00"))
	require.NoError(t, data.SetValue("C3", BoolValue(true)))
	require.NoError(t, data.SetValue("D4", DateValue(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, data.SetStyleField("D4", "number_format", "yyyy-mm-dd"))
	require.NoError(t, data.SetValue("E5", MakeRichText(
		Plain("H"),
		Styled("2", FontOverride{VertAlign: Ptr("subscript")}),
		Styled("O", FontOverride{Color: Ptr(RGB("FF0000FF")), Bold: Ptr(true)}),
	)))
	require.NoError(t, data.SetValue("F1", StringValue("merged")))
	require.NoError(t, data.Merge("F1:G2"))
	require.NoError(t, data.SetDimension("2", 30, false))
	require.NoError(t, data.SetDimension("B", 20, false))
	require.NoError(t, data.SetDimension("C", 12, true))

	other := NewSheet("Other")
	require.NoError(t, other.SetValue("A1", StringValue("x")))

	return &Workbook{Sheets: []*Sheet{data, other}}
}

func TestRoundTrip(t *testing.T) {
	src := sampleWorkbook(t)
	path := filepath.Join(t.TempDir(), "roundtrip.xlsx")

	w := &Writer{Logger: quietLogger()}
	require.NoError(t, w.Write(src, path))
	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)
	assert.Empty(t, got.Warnings)

	require.Len(t, got.Sheets, 2)
	assert.Equal(t, "Data", got.Sheets[0].Name)
	assert.Equal(t, "Other", got.Sheets[1].Name)

	for i, want := range src.Sheets {
		out := got.Sheets[i]
		for coord, c := range want.Cells {
			rc, ok := out.Cell(coord)
			require.True(t, ok, "%s!%s", want.Name, coord)
			assert.True(t, c.Value.Equal(rc.Value), "%s!%s: want %v got %v", want.Name, coord, c.Value, rc.Value)
			assert.Equal(t, c.Style, rc.Style, "%s!%s", want.Name, coord)
		}
	}

	data := got.Sheets[0]
	assert.Equal(t, Dimension{Size: 30}, data.RowHeights[2])
	assert.Equal(t, Dimension{Size: 20}, data.ColWidths["B"])
	assert.Equal(t, Dimension{Size: 12, Hidden: true}, data.ColWidths["C"])
	require.Len(t, data.Merges, 1)
	assert.Equal(t, src.Sheets[0].Merges[0], data.Merges[0])
	assert.Equal(t, Date, data.Lookup("D4").Value.Kind)
}

func TestWriterWhitewash(t *testing.T) {
	src := sampleWorkbook(t)
	path := filepath.Join(t.TempDir(), "whitewash.xlsx")
	require.NoError(t, (&Writer{Logger: quietLogger()}).Write(src, path))

	// used range ends at column G, so the margin reaches Q
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	for _, col := range []string{"A", "H", "Q"} {
		id, err := f.GetColStyle("Data", col)
		require.NoError(t, err)
		st, err := f.GetStyle(id)
		require.NoError(t, err)
		assert.Equal(t, []string{"FFFFFF"}, st.Fill.Color, col)
	}
	id, err := f.GetColStyle("Data", "R")
	require.NoError(t, err)
	assert.Zero(t, id)

	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)
	data := got.Sheets[0]
	assert.Len(t, data.Cells, len(src.Sheets[0].Cells), "the background adds no cells")
	assert.Len(t, data.ColWidths, 2, "only B and C carry widths")
	c, ok := data.Cell("B2")
	require.True(t, ok)
	assert.True(t, c.Style.Fill.Color.IsZero(), "cells without a fill keep none")
}

func TestRoundTripIsStable(t *testing.T) {
	wb := sampleWorkbook(t)
	dir := t.TempDir()
	r := &Reader{Logger: quietLogger()}
	w := &Writer{Logger: quietLogger()}

	var counts []int
	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("pass%d.xlsx", i))
		require.NoError(t, w.Write(wb, path))
		next, err := r.Read(path)
		require.NoError(t, err)
		wb = next
		bounds, ok := wb.Sheets[0].Bounds()
		require.True(t, ok)
		assert.Equal(t, Area{MinCol: 1, MinRow: 1, MaxCol: 7, MaxRow: 5}, bounds, "pass %d", i)
		assert.Len(t, wb.Sheets[0].ColWidths, 2, "pass %d", i)
		counts = append(counts, len(wb.Sheets[0].Cells)+len(wb.Sheets[1].Cells))
	}
	assert.Equal(t, []int{7, 7, 7}, counts)
}

func TestWriterWhitewashAtSheetEdge(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("XFD1", StringValue("right")))
	require.NoError(t, s.SetValue("A1048576", StringValue("bottom")))
	path := filepath.Join(t.TempDir(), "edge.xlsx")
	require.NoError(t, (&Writer{Logger: quietLogger()}).Write(&Workbook{Sheets: []*Sheet{s}}, path))

	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "right", got.Sheets[0].Lookup("XFD1").Value.Text())
	assert.Equal(t, "bottom", got.Sheets[0].Lookup("A1048576").Value.Text())
}

func TestWriterFullWidthColumns(t *testing.T) {
	path := saveExcelize(t, func(f *excelize.File) {
		require.NoError(t, f.SetColWidth("Sheet1", "A", "XFD", 9.5))
		require.NoError(t, f.SetColVisible("Sheet1", "C:D", false))
		require.NoError(t, f.SetCellStr("Sheet1", "B2", "wide"))
	})
	r := &Reader{Logger: quietLogger()}
	wb, err := r.Read(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets[0].ColWidths, excelize.MaxColumns)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	start := time.Now()
	require.NoError(t, (&Writer{Logger: quietLogger()}).Write(wb, out))
	assert.Less(t, time.Since(start), 10*time.Second)

	got, err := r.Read(out)
	require.NoError(t, err)
	s := got.Sheets[0]
	assert.Len(t, s.ColWidths, excelize.MaxColumns)
	assert.Equal(t, Dimension{Size: 9.5}, s.ColWidths["XFD"])
	assert.Equal(t, Dimension{Size: 9.5, Hidden: true}, s.ColWidths["D"])
	assert.Equal(t, Dimension{Size: 9.5}, s.ColWidths["E"])
	assert.Equal(t, "wide", s.Lookup("B2").Value.Text())
}

func TestWriterDropsAlpha(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("A1", StringValue("x")))
	require.NoError(t, s.SetStyleField("A1", "font.color", RGB("00FF0000")))
	require.NoError(t, s.SetStyleField("A1", "fill.color", RGB("80FFFF00")))

	var buf bytes.Buffer
	require.NoError(t, (&Writer{Logger: quietLogger(), Margin: -1}).WriteTo(&Workbook{Sheets: []*Sheet{s}}, &buf))
	got, err := (&Reader{Logger: quietLogger()}).ReadFrom(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	a1 := got.Sheets[0].Lookup("A1")
	assert.Equal(t, "FFFF0000", a1.Style.Font.Color.RGB)
	assert.Equal(t, "FFFFFF00", a1.Style.Fill.Color.RGB)
}

func TestDateRange(t *testing.T) {
	s := NewSheet("Data")
	early := time.Date(1899, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, ErrFormat.Is(s.SetValue("A1", DateValue(early))))
	_, ok := s.Cell("A1")
	assert.False(t, ok)

	// a model built by hand is checked again on write
	s.Cells["A1"] = &Cell{Coordinate: "A1", Value: DateValue(early), Style: DefaultStyle()}
	err := (&Writer{Logger: quietLogger()}).WriteTo(&Workbook{Sheets: []*Sheet{s}}, io.Discard)
	assert.True(t, ErrFormat.Is(err))

	// zones are dropped, the wall clock is kept
	valid := NewSheet("Data")
	seoul := time.FixedZone("KST", 9*3600)
	require.NoError(t, valid.SetValue("A1", DateValue(time.Date(2024, time.March, 15, 9, 30, 0, 0, seoul))))
	require.NoError(t, valid.SetStyleField("A1", "number_format", "yyyy-mm-dd hh:mm"))
	require.NoError(t, valid.SetValue("A2", DateValue(time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC))))
	var buf bytes.Buffer
	require.NoError(t, (&Writer{Logger: quietLogger()}).WriteTo(&Workbook{Sheets: []*Sheet{valid}}, &buf))
	got, err := (&Reader{Logger: quietLogger()}).ReadFrom(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	a1 := got.Sheets[0].Lookup("A1").Value
	require.Equal(t, Date, a1.Kind)
	assert.True(t, a1.Time.Equal(time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)), a1.Time.String())
	a2 := got.Sheets[0].Lookup("A2").Value
	require.Equal(t, Date, a2.Kind)
	assert.True(t, a2.Time.Equal(time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)), a2.Time.String())
}

func TestWriterFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	wb := &Workbook{Sheets: []*Sheet{NewSheet("Data")}}
	w := &Writer{Logger: quietLogger()}
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.xlsx")
	require.NoError(t, w.Write(wb, fresh))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	private := filepath.Join(dir, "private.xlsx")
	require.NoError(t, os.WriteFile(private, nil, 0o600))
	require.NoError(t, os.Chmod(private, 0o600))
	require.NoError(t, w.Write(wb, private))
	info, err = os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriterMarginDisabled(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("A1", StringValue("x")))
	path := filepath.Join(t.TempDir(), "plain.xlsx")
	require.NoError(t, (&Writer{Logger: quietLogger(), Margin: -1}).Write(&Workbook{Sheets: []*Sheet{s}}, path))

	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)
	assert.Len(t, got.Sheets[0].Cells, 1)
}

func TestWriterThemeColors(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("A1", StringValue("x")))
	require.NoError(t, s.SetStyleField("A1", "fill.color", ThemeColor(4, 0)))
	require.NoError(t, s.SetStyleField("A1", "font.color", ThemeColor(99, 0)))

	var buf bytes.Buffer
	w := &Writer{Logger: quietLogger(), Palette: NewPalette(map[int]string{4: "112233"}, FallbackColor)}
	require.NoError(t, w.WriteTo(&Workbook{Sheets: []*Sheet{s}}, &buf))

	got, err := (&Reader{Logger: quietLogger()}).ReadFrom(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	a1 := got.Sheets[0].Lookup("A1")
	assert.Equal(t, "FF112233", a1.Style.Fill.Color.RGB)
	assert.Equal(t, FallbackColor, a1.Style.Font.Color.RGB, "unknown theme slots degrade to the fallback")
}

func TestWriterErrors(t *testing.T) {
	w := &Writer{Logger: quietLogger()}
	dir := t.TempDir()

	err := w.Write(&Workbook{}, filepath.Join(dir, "empty.xlsx"))
	assert.True(t, ErrFormat.Is(err))

	dup := &Workbook{Sheets: []*Sheet{NewSheet("Data"), NewSheet("data")}}
	err = w.Write(dup, filepath.Join(dir, "dup.xlsx"))
	assert.True(t, ErrFormat.Is(err))
	_, statErr := os.Stat(filepath.Join(dir, "dup.xlsx"))
	assert.True(t, os.IsNotExist(statErr))

	ok := &Workbook{Sheets: []*Sheet{NewSheet("Data")}}
	err = w.Write(ok, filepath.Join(dir, "missing", "out.xlsx"))
	assert.True(t, ErrIO.Is(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial files are left behind")
}
