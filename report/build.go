package report

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aerissecure/xlmodel/xlsx"
)

// Build returns one page per batch of layout.BatchSize samples. Each page is
// an independent clone of template; the template itself is not modified.
func Build(template *xlsx.Sheet, samples []Sample, layout Layout) ([]*xlsx.Sheet, error) {
	return (&Builder{Layout: layout}).Build(template, samples)
}

// Builder assembles report pages.
type Builder struct {
	Layout Layout
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

func (b *Builder) log() logrus.FieldLogger {
	if b.Logger == nil {
		return logrus.StandardLogger()
	}
	return b.Logger
}

// Build renders the pages concurrently, one goroutine per batch.
func (b *Builder) Build(template *xlsx.Sheet, samples []Sample) ([]*xlsx.Sheet, error) {
	if template == nil {
		return nil, ErrLayout.New("no template sheet")
	}
	if err := b.Layout.Validate(); err != nil {
		return nil, err
	}
	batches := Chunk(samples, b.Layout.BatchSize)
	pages := make([]*xlsx.Sheet, len(batches))
	var g errgroup.Group
	for i, batch := range batches {
		g.Go(func() error {
			page, err := b.page(template.Clone(), batch, i+1)
			if err != nil {
				return err
			}
			pages[i] = page
			b.log().WithFields(logrus.Fields{"sheet": page.Name, "samples": len(batch)}).Debug("page built")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (b *Builder) page(s *xlsx.Sheet, batch []Sample, n int) (*xlsx.Sheet, error) {
	l := b.Layout
	first := batch[0]
	s.Name = fmt.Sprintf(l.SheetName, first.Date, n)

	if err := s.SetValue(l.DateCell, xlsx.StringValue(first.Date)); err != nil {
		return nil, err
	}
	if err := s.SetValue(l.LotCell, xlsx.StringValue(first.Lot)); err != nil {
		return nil, err
	}

	listCol, listRow, err := xlsx.ParseCoordinate(l.NameList)
	if err != nil {
		return nil, err
	}
	resultCol, err := xlsx.ColumnNumber(l.ResultColumn)
	if err != nil {
		return nil, err
	}
	for idx, sample := range batch {
		name := xlsx.StringValue(sample.Name)
		if err := s.SetValue(xlsx.Coordinate(xlsx.ColumnLetter(listCol), listRow+idx), name); err != nil {
			return nil, err
		}
		row, ok := l.resultAnchor(idx)
		if !ok {
			return nil, ErrLayout.New(fmt.Sprintf("no result block for sample %d", idx+1))
		}
		for r := 0; r < l.Input.RowsPerItem; r++ {
			if err := s.SetValue(xlsx.Coordinate(l.NameColumn, row+r), name); err != nil {
				return nil, err
			}
		}
		for r, values := range sample.Results {
			for c, v := range values {
				coord := xlsx.Coordinate(xlsx.ColumnLetter(resultCol+c), row+r)
				if err := s.SetValue(coord, v); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := decorate(s, l); err != nil {
		return nil, err
	}
	return s, nil
}

// decorate applies the fixed formatting of a page. Decorations only touch
// cells the template already has.
func decorate(s *xlsx.Sheet, l Layout) error {
	for _, coord := range l.Highlights {
		if _, ok := s.Cell(coord); !ok {
			continue
		}
		red := xlsx.RGB(l.HighlightColor)
		if err := s.ApplyOverride(coord, xlsx.StyleOverride{Font: xlsx.FontOverride{Color: &red}}); err != nil {
			return err
		}
	}
	if sup := l.Superscript; sup != nil {
		if _, ok := s.Cell(sup.Cell); ok {
			v := xlsx.MakeRichText(
				xlsx.Plain(sup.Base),
				xlsx.Styled(sup.Sup, xlsx.FontOverride{
					VertAlign: xlsx.Ptr("superscript"),
					Bold:      xlsx.Ptr(true),
					Size:      xlsx.Ptr(10.0),
				}),
			)
			if err := s.SetValue(sup.Cell, v); err != nil {
				return err
			}
		}
	}
	grey := xlsx.RGB(l.SignatureColor)
	for _, sig := range l.Signatures {
		if _, ok := s.Cell(sig.Cell); !ok {
			continue
		}
		v := xlsx.MakeRichText(
			xlsx.Plain(sig.Name),
			xlsx.Styled(l.SignatureLabel, xlsx.FontOverride{Color: &grey, Bold: xlsx.Ptr(true), Size: xlsx.Ptr(10.0)}),
		)
		if err := s.SetValue(sig.Cell, v); err != nil {
			return err
		}
	}
	for _, cr := range l.Columns {
		from, err := xlsx.ColumnNumber(cr.From)
		if err != nil {
			return err
		}
		to, err := xlsx.ColumnNumber(cr.To)
		if err != nil {
			return err
		}
		for c := from; c <= to; c++ {
			if err := s.SetColWidth(xlsx.ColumnLetter(c), cr.Width, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config names the inputs and output of a report run.
type Config struct {
	Layout   Layout
	Template string
	Input    string
	Output   string
	Logger   logrus.FieldLogger
}

// Generate reads the template and sample table, builds the pages and writes
// them to cfg.Output.
func Generate(cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	tpl, err := (&xlsx.Reader{Logger: log}).Read(cfg.Template)
	if err != nil {
		return err
	}
	if len(tpl.Sheets) == 0 {
		return ErrLayout.New(fmt.Sprintf("template %s has no sheets", cfg.Template))
	}
	samples, err := LoadSamples(cfg.Input, cfg.Layout.Input)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return ErrSamples.New(cfg.Input, "no complete samples")
	}
	pages, err := (&Builder{Layout: cfg.Layout, Logger: log}).Build(tpl.Sheets[0], samples)
	if err != nil {
		return err
	}
	w := &xlsx.Writer{Logger: log}
	if err := w.Write(&xlsx.Workbook{Sheets: pages}, cfg.Output); err != nil {
		return err
	}
	for _, warning := range w.Warnings() {
		log.Warn(warning.Error())
	}
	log.WithFields(logrus.Fields{
		"output":  filepath.Base(cfg.Output),
		"pages":   len(pages),
		"samples": humanize.Comma(int64(len(samples))),
	}).Info("report generated")
	return nil
}
