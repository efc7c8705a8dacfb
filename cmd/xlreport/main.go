// Command xlreport builds paginated reports from a styled template, and
// round-trips or previews xlsx documents through the style-preserving model.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/aerissecure/xlmodel/report"
	"github.com/aerissecure/xlmodel/xlsx"
)

func main() {
	app := kingpin.New("xlreport", "Style-preserving xlsx report builder.")
	app.HelpFlag.Short('h')
	verbose := app.Flag("verbose", "log each write stage").Short('v').Bool()

	generate := app.Command("generate", "Fill one template page per batch of samples.")
	layoutPath := generate.Flag("config", "YAML layout; defaults apply when omitted").Short('c').ExistingFile()
	templatePath := generate.Flag("template", "template workbook; its first sheet is the page").Short('t').Required().ExistingFile()
	inputPath := generate.Flag("input", "sample table").Short('i').Required().ExistingFile()
	outputPath := generate.Flag("output", "destination workbook").Short('o').Required().String()

	roundtrip := app.Command("roundtrip", "Read a workbook into the model and write it back out.")
	rtIn := roundtrip.Arg("in", "source workbook").Required().ExistingFile()
	rtOut := roundtrip.Arg("out", "destination workbook").Required().String()
	margin := roundtrip.Flag("margin", "white background margin past the used range; 0 selects the default, negative disables").Default("10").Int()

	preview := app.Command("preview", "Render a workbook as HTML tables.")
	pvIn := preview.Arg("in", "source workbook").Required().ExistingFile()
	pvOut := preview.Arg("out", "destination HTML file").Required().String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var err error
	switch command {
	case generate.FullCommand():
		err = runGenerate(log, *layoutPath, *templatePath, *inputPath, *outputPath)
	case roundtrip.FullCommand():
		err = runRoundtrip(log, *rtIn, *rtOut, *margin)
	case preview.FullCommand():
		err = runPreview(log, *pvIn, *pvOut)
	}
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func runGenerate(log *logrus.Logger, layoutPath, template, input, output string) error {
	layout := report.DefaultLayout()
	if layoutPath != "" {
		var err error
		if layout, err = report.LoadLayout(layoutPath); err != nil {
			return err
		}
	}
	if err := report.Generate(report.Config{
		Layout:   layout,
		Template: template,
		Input:    input,
		Output:   output,
		Logger:   log,
	}); err != nil {
		return err
	}
	return reportSize(log, output)
}

func runRoundtrip(log *logrus.Logger, in, out string, margin int) error {
	wb, err := (&xlsx.Reader{Logger: log}).Read(in)
	if err != nil {
		return err
	}
	w := &xlsx.Writer{Logger: log, Margin: margin}
	if err := w.Write(wb, out); err != nil {
		return err
	}
	for _, warning := range w.Warnings() {
		log.Warn(warning.Error())
	}
	log.WithFields(logrus.Fields{
		"sheets":   len(wb.Sheets),
		"warnings": len(wb.Warnings) + len(w.Warnings()),
	}).Info("round trip complete")
	return reportSize(log, out)
}

func runPreview(log *logrus.Logger, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	wb, err := (&xlsx.Reader{Logger: log}).ReadFrom(f, info.Size())
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(xlsx.RenderHTML(wb)), 0o644); err != nil {
		return xlsx.ErrIO.Wrap(err, out)
	}
	return reportSize(log, out)
}

func reportSize(log *logrus.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	log.Infof("wrote %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return nil
}
