package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"picklist/internal"
	"picklist/internal/util"
)

// Extraction is what a row extraction backend hands to the pipeline: an
// ordered row stream grouped by source page order, plus the page-1
// document header and, for PDF input, the page where the packing-list
// section begins (1-based, 0 when absent).
type Extraction struct {
	Rows        []internal.RawRow
	Header      internal.DocumentHeader
	Detect      DetectResult
	PackingPage int
}

// dataLine matches one printed picking row: line number, product code,
// combined old-code + article, quantity (comma decimal), stock and
// warehouse. The old code and article share one column in the printed
// layout and are split afterwards.
var dataLine = regexp.MustCompile(`^(\d+)\s+([A-Z]{2}[A-Z0-9]+)\s+(.+?)\s+(\d+,\d{2})\s+(-?[\d.]+)\s+([A-Z]+)\s*$`)

// noisePrefixes are page furniture the PDF text extraction interleaves
// with table rows.
var noisePrefixes = []string{"PICKING LIST", "COD ", "N°:", "Nº:", "FECHA:", "HORA:", "ESTADO:", "CONTROLO:"}

// ExtractPDF extracts picking rows page by page from a PDF. Extraction
// stops at the first page that belongs to the packing-list section;
// marker lines inside the table flow through as one-cell rows so the
// boundary filter can act on them.
func ExtractPDF(content []byte) (Extraction, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Extraction{}, err
	}

	var ext Extraction
	firstPageText := ""
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}

		if isPackingPage(text) {
			ext.PackingPage = i
			break
		}
		if i == 1 {
			firstPageText = text
			ext.Header = parseDocumentHeader(text)
		}

		for _, line := range splitLines(text) {
			row, ok := parsePDFLine(line)
			if !ok {
				continue
			}
			row.Page = i
			ext.Rows = append(ext.Rows, row)
		}
	}

	ext.Detect = DetectPickingList(firstPageText, len(ext.Rows))
	return ext, nil
}

// parsePDFLine turns one text line into a raw row. Marker lines become
// one-cell rows; noise lines are dropped.
func parsePDFLine(line string) (internal.RawRow, bool) {
	line = util.NormalizeSpaces(line)
	if line == "" {
		return internal.RawRow{}, false
	}

	if strings.Contains(strings.ToUpper(line), markerText) {
		return internal.RawRow{Source: internal.SourcePDF, Cells: []string{line}}, true
	}

	upper := strings.ToUpper(line)
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(upper, strings.ToUpper(prefix)) {
			return internal.RawRow{}, false
		}
	}
	if strings.Contains(upper, "PÁGINA") || strings.Contains(upper, "PAGINA") || strings.Contains(upper, "COD VIEJO") {
		return internal.RawRow{}, false
	}

	m := dataLine.FindStringSubmatch(line)
	if m == nil {
		return internal.RawRow{}, false
	}

	oldCode, article := util.SplitOldCodeArticle(m[3])
	if strings.TrimSpace(article) == "" {
		article = m[3]
	}

	return internal.RawRow{
		Source: internal.SourcePDF,
		Cells:  []string{m[1], m[2], oldCode, strings.TrimSpace(article), m[4], m[5], m[6], ""},
	}, true
}

// isPackingPage recognizes the first page of the per-client packing
// list that the source document appends after the picking table.
func isPackingPage(text string) bool {
	return strings.Contains(text, "Codigo Cliente") &&
		strings.Contains(text, "LN") &&
		strings.Contains(text, "Liberado")
}

// ExtractXLSX reads picking rows from a spreadsheet export, one sheet
// after another, cells as-is.
func ExtractXLSX(content []byte) (Extraction, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Extraction{}, err
	}
	defer f.Close()

	var ext Extraction
	for sheetNo, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, cells := range rows {
			trimmed := make([]string, len(cells))
			for i, c := range cells {
				trimmed[i] = util.NormalizeSpaces(c)
			}
			// GetRows drops empty trailing cells; pad back to the
			// fixed column count so mapping sees a full row.
			for len(trimmed) < internal.ColumnCount {
				trimmed = append(trimmed, "")
			}
			ext.Rows = append(ext.Rows, internal.RawRow{Page: sheetNo + 1, Source: internal.SourceXLSX, Cells: trimmed})
		}
	}
	return ext, nil
}

// ExtractHTML reads picking rows from an HTML export of the list.
func ExtractHTML(content []byte) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Extraction{}, err
	}

	var ext Extraction
	doc.Find("table").Each(func(tableNo int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			for len(cells) < internal.ColumnCount {
				cells = append(cells, "")
			}
			ext.Rows = append(ext.Rows, internal.RawRow{Page: tableNo + 1, Source: internal.SourceHTML, Cells: cells})
		})
	})
	return ext, nil
}

// ExtractEmailRaw pulls the picking list out of a raw RFC 5322 message:
// the first PDF or XLSX attachment wins.
func ExtractEmailRaw(raw []byte) (Extraction, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return Extraction{}, err
	}

	for _, att := range env.Attachments {
		lower := strings.ToLower(strings.TrimSpace(att.FileName))
		switch {
		case strings.HasSuffix(lower, ".pdf"):
			return ExtractPDF(att.Content)
		case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
			return ExtractXLSX(att.Content)
		}
	}
	return Extraction{}, ErrNoDataRows
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
