package xlsx

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestSheetWriter(t *testing.T, s *Sheet) *SheetWriter {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	return newSheetWriter(f, newStyleCache(f, DefaultPalette()), s, true, DefaultMargin, quietLogger())
}

func TestSheetWriterStageOrder(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("A1", StringValue("x")))
	sw := newTestSheetWriter(t, s)

	assert.True(t, ErrStageOrder.Is(sw.ApplyDimensions()))
	assert.True(t, ErrStageOrder.Is(sw.Whitewash()))
	assert.True(t, ErrStageOrder.Is(sw.WriteCells()))
	assert.True(t, ErrStageOrder.Is(sw.ApplyMerges()))
	assert.Equal(t, StageNew, sw.Stage())

	require.NoError(t, sw.Create())
	assert.True(t, ErrStageOrder.Is(sw.Create()))
	assert.True(t, ErrStageOrder.Is(sw.Whitewash()), "dimensions come first")
	require.NoError(t, sw.ApplyDimensions())
	assert.True(t, ErrStageOrder.Is(sw.WriteCells()), "whitewash comes before cells")
	require.NoError(t, sw.Whitewash())
	assert.True(t, ErrStageOrder.Is(sw.ApplyMerges()))
	require.NoError(t, sw.WriteCells())
	require.NoError(t, sw.ApplyMerges())
	assert.Equal(t, StageMergesApplied, sw.Stage())
	assert.True(t, ErrStageOrder.Is(sw.ApplyMerges()))
}

func TestSheetWriterDimensionsAfterWhitewash(t *testing.T) {
	s := NewSheet("Data")
	sw := newTestSheetWriter(t, s)

	require.NoError(t, sw.Create())
	require.NoError(t, sw.SetRowHeight(3, 40, false))
	require.NoError(t, sw.ApplyDimensions())
	require.NoError(t, sw.SetColWidth("g", 6.07, false))
	assert.Equal(t, Dimension{Size: 40}, s.RowHeights[3])
	assert.Equal(t, Dimension{Size: 6.07}, s.ColWidths["G"])

	width, err := sw.f.GetColWidth("Data", "G")
	require.NoError(t, err)
	assert.InDelta(t, 6.07, width, 0.001)

	require.NoError(t, sw.Whitewash())
	err = sw.SetRowHeight(4, 10, false)
	assert.True(t, ErrStageOrder.Is(err))
	assert.True(t, ErrStageOrder.Is(sw.SetColWidth("H", 10, false)))
	_, ok := s.RowHeights[4]
	assert.False(t, ok, "rejected changes do not reach the model")
}

func TestWriterMergeBorderPropagation(t *testing.T) {
	frame := BorderSide{Style: "medium", Color: RGB("FF0000FF")}
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("B2", StringValue("master")))
	require.NoError(t, s.ApplyOverride("B2", StyleOverride{Border: BorderOverride{
		Left: &frame, Right: &frame, Top: &frame, Bottom: &frame,
	}}))
	require.NoError(t, s.SetValue("C2", StringValue("hidden by merge")))
	require.NoError(t, s.SetStyleField("C2", "font.italic", true))
	require.NoError(t, s.Merge("B2:D4"))

	path := filepath.Join(t.TempDir(), "merged.xlsx")
	w := &Writer{Logger: quietLogger()}
	require.NoError(t, w.Write(&Workbook{Sheets: []*Sheet{s}}, path))
	assert.Empty(t, w.Warnings())

	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)
	out := got.Sheets[0]
	require.Len(t, out.Merges, 1)
	assert.Equal(t, "B2:D4", out.Merges[0].Range)

	border := func(coord string) Border { return out.Lookup(coord).Style.Border }
	none := BorderSide{}

	assert.Equal(t, Border{Left: frame, Right: frame, Top: frame, Bottom: frame}, border("B2"))
	assert.Equal(t, Border{Top: frame}, border("C2"))
	assert.Equal(t, Border{Top: frame, Right: frame}, border("D2"))
	assert.Equal(t, Border{Left: frame}, border("B3"))
	assert.Equal(t, Border{}, border("C3"), "interior cells keep their own border")
	assert.Equal(t, Border{Right: frame}, border("D3"))
	assert.Equal(t, Border{Left: frame, Bottom: frame}, border("B4"))
	assert.Equal(t, Border{Bottom: frame}, border("C4"))
	assert.Equal(t, Border{Right: frame, Bottom: frame}, border("D4"))
	assert.Equal(t, none, border("E2").Left)

	c2 := out.Lookup("C2")
	assert.True(t, c2.Value.IsEmpty(), "non-master members carry no value")
	assert.True(t, c2.Style.Font.Italic, "non-master members keep their style")
	assert.Equal(t, "master", out.Lookup("B2").Value.Text())
}

func TestWriterMasterWithoutBorder(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("A1", StringValue("x")))
	require.NoError(t, s.SetStyleField("A1", "border.top.style", "thin"))
	require.NoError(t, s.SetStyleField("B1", "border.bottom.style", "double"))
	require.NoError(t, s.Merge("A1:B1"))

	path := filepath.Join(t.TempDir(), "partial.xlsx")
	require.NoError(t, (&Writer{Logger: quietLogger()}).Write(&Workbook{Sheets: []*Sheet{s}}, path))
	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)

	b1 := got.Sheets[0].Lookup("B1").Style.Border
	assert.Equal(t, "thin", b1.Top.Style, "set master sides are copied")
	assert.Equal(t, "double", b1.Bottom.Style, "empty master sides do not erase")
	assert.Equal(t, "FF000000", b1.Top.Color.RGB, "uncoloured lines are written black")
}

func TestWriterSkipsBadMerge(t *testing.T) {
	s := NewSheet("Data")
	require.NoError(t, s.SetValue("A1", StringValue("x")))
	s.Merges = append(s.Merges, MergeRegion{Range: "A1-B2", Master: "A1"})

	path := filepath.Join(t.TempDir(), "bad-merge.xlsx")
	w := &Writer{Logger: quietLogger()}
	require.NoError(t, w.Write(&Workbook{Sheets: []*Sheet{s}}, path))
	require.Len(t, w.Warnings(), 1)
	assert.True(t, ErrFormat.Is(w.Warnings()[0]))

	got, err := (&Reader{Logger: quietLogger()}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Sheets[0].Lookup("A1").Value.Text())
	assert.Empty(t, got.Sheets[0].Merges)
}
