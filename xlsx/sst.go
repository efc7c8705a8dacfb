package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

const (
	sharedStringsContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	sharedStringsRelType     = "/sharedStrings"
	defaultSharedStrings     = "xl/sharedStrings.xml"
)

type contentTypesXML struct {
	Override []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

type relationshipsXML struct {
	Relationship []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// sharedStrings returns the shared string table of wb. When the workbook has
// shared-string cells but the spreadsheet package loaded no table, which
// happens when the workbook relationship targets the part by absolute path,
// the part is located and decoded from the archive directly.
func sharedStrings(wb *spreadsheet.Workbook, ra io.ReaderAt, size int64) (*sml.Sst, error) {
	if x := wb.SharedStrings.X(); x != nil && len(x.Si) > 0 {
		return x, nil
	}
	if !hasSharedStringCells(wb) {
		return sml.NewSst(), nil
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	name := sharedStringsPart(zr)
	data, ok, err := zipPart(zr, name)
	if err != nil || !ok {
		return sml.NewSst(), err
	}
	sst := sml.NewSst()
	if err := xml.Unmarshal(data, sst); err != nil {
		return nil, err
	}
	return sst, nil
}

func hasSharedStringCells(wb *spreadsheet.Workbook) bool {
	for _, sheet := range wb.Sheets() {
		ws := sheet.X()
		if ws == nil || ws.SheetData == nil {
			continue
		}
		for _, row := range ws.SheetData.Row {
			if row == nil {
				continue
			}
			for _, c := range row.C {
				if c != nil && c.TAttr.String() == "s" {
					return true
				}
			}
		}
	}
	return false
}

// sharedStringsPart finds the part name from the content type overrides,
// then the workbook relationships, then the conventional location.
func sharedStringsPart(zr *zip.Reader) string {
	if data, ok, _ := zipPart(zr, "[Content_Types].xml"); ok {
		var ct contentTypesXML
		if xml.Unmarshal(data, &ct) == nil {
			for _, o := range ct.Override {
				if o.ContentType == sharedStringsContentType {
					return strings.TrimPrefix(o.PartName, "/")
				}
			}
		}
	}
	if data, ok, _ := zipPart(zr, "xl/_rels/workbook.xml.rels"); ok {
		var rels relationshipsXML
		if xml.Unmarshal(data, &rels) == nil {
			for _, rel := range rels.Relationship {
				if !strings.HasSuffix(rel.Type, sharedStringsRelType) {
					continue
				}
				if strings.HasPrefix(rel.Target, "/") {
					return strings.TrimPrefix(rel.Target, "/")
				}
				return path.Join("xl", rel.Target)
			}
		}
	}
	return defaultSharedStrings
}

func zipPart(zr *zip.Reader, name string) ([]byte, bool, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		return data, err == nil, err
	}
	return nil, false, nil
}
