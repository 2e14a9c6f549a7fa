package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// pdfFontFamily names the embedded UTF-8 face inside the document.
const pdfFontFamily = "export"

// PDFExporter renders datasets into a tabular PDF. Schedule tables are wide,
// so pages are laid out in landscape. The built-in core fonts only cover
// cp1252, so rendering Japanese text requires a UTF-8 TTF supplied at
// construction; without one, only ASCII datasets are accepted.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath points at a TTF with
// CJK coverage (e.g. Noto Sans JP); empty restricts output to ASCII.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// HasUnicodeFont reports whether a UTF-8 font was configured.
func (e *PDFExporter) HasUnicodeFont() bool {
	return e.fontPath != ""
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	family := "Arial"
	if e.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", e.fontPath)
		pdf.AddUTF8Font(pdfFontFamily, "B", e.fontPath)
		family = pdfFontFamily
	} else if !datasetIsASCII(data, title) {
		return nil, fmt.Errorf("dataset contains non-latin text; pdf export needs a configured unicode font")
	}
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pageWidth, _ := pdf.GetPageSize()
	tableWidth := pageWidth - 20
	colWidth := tableWidth / float64(len(data.Headers))

	pdf.SetFont(family, "B", 10)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func datasetIsASCII(data Dataset, title string) bool {
	if !asciiString(title) {
		return false
	}
	for _, header := range data.Headers {
		if !asciiString(header) {
			return false
		}
	}
	for _, row := range data.Rows {
		for _, value := range row {
			if !asciiString(value) {
				return false
			}
		}
	}
	return true
}

func asciiString(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
