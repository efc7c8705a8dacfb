package xlsx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Writer turns a model workbook back into an xlsx document. The zero value is
// ready to use.
type Writer struct {
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// Palette resolves theme colour references. Defaults to the Office palette.
	// Colours are written opaque: the alpha byte of an ARGB value is dropped.
	Palette *Palette
	// Margin is how far past the used range the white background reaches.
	// Zero means DefaultMargin; a negative value disables the whitewash.
	Margin int

	warnings []error
}

func (w *Writer) log() logrus.FieldLogger {
	if w.Logger == nil {
		return logrus.StandardLogger()
	}
	return w.Logger
}

func (w *Writer) margin() int {
	if w.Margin == 0 {
		return DefaultMargin
	}
	return w.Margin
}

// Warnings returns the recoverable problems of the last write, such as merge
// regions that were skipped.
func (w *Writer) Warnings() []error { return w.warnings }

// Write saves wb to path. The document is built in a temporary file next to
// path and renamed into place, so a failed write never leaves a partial file.
// A new file gets mode 0644; an existing file keeps its mode.
func (w *Writer) Write(wb *Workbook, path string) error {
	f, err := w.build(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return ErrIO.Wrap(err, path)
	}
	defer os.Remove(tmp.Name())
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return ErrIO.Wrap(err, path)
	}
	n, err := f.WriteTo(tmp)
	if err != nil {
		tmp.Close()
		return ErrIO.Wrap(err, path)
	}
	if err := tmp.Close(); err != nil {
		return ErrIO.Wrap(err, path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return ErrIO.Wrap(err, path)
	}
	w.log().WithFields(logrus.Fields{"path": path, "bytes": n, "sheets": len(wb.Sheets)}).Debug("workbook written")
	return nil
}

// WriteTo streams the document to out.
func (w *Writer) WriteTo(wb *Workbook, out io.Writer) error {
	f, err := w.build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(out); err != nil {
		return ErrIO.Wrap(err, "stream")
	}
	return nil
}

func (w *Writer) build(wb *Workbook) (*excelize.File, error) {
	w.warnings = nil
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, ErrFormat.New("workbook has no sheets")
	}
	seen := make(map[string]bool, len(wb.Sheets))
	for _, s := range wb.Sheets {
		if s == nil {
			return nil, ErrFormat.New("workbook holds a nil sheet")
		}
		// sheet names compare case-insensitively in the format
		key := strings.ToLower(s.Name)
		if seen[key] {
			return nil, ErrFormat.New(fmt.Sprintf("duplicate sheet name %q", s.Name))
		}
		seen[key] = true
	}

	p := w.Palette
	if p == nil {
		p = defaultPalette
	}
	f := excelize.NewFile()
	styles := newStyleCache(f, p)
	for i, s := range wb.Sheets {
		sw := newSheetWriter(f, styles, s, i == 0, w.margin(), w.log())
		err := runStages(sw)
		w.warnings = append(w.warnings, sw.Warnings()...)
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	w.log().WithFields(logrus.Fields{"sheets": len(wb.Sheets), "styles": len(styles.ids)}).Debug("workbook assembled")
	return f, nil
}

func runStages(sw *SheetWriter) error {
	for _, step := range []func() error{
		sw.Create,
		sw.ApplyDimensions,
		sw.Whitewash,
		sw.WriteCells,
		sw.ApplyMerges,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
