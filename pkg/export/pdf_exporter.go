package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 277.0
	unicodeFont = "body"
	coreFont    = "Helvetica"
)

// PDFExporter renders datasets into a landscape tabular PDF. Cyrillic text
// needs a UTF-8 TrueType font; without one the core font is used.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. An empty fontPath selects the
// core font.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)

	family := coreFont
	translate := func(s string) string { return s }
	if e.fontPath != "" {
		if _, err := os.Stat(e.fontPath); err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
		pdf.AddUTF8Font(unicodeFont, "", e.fontPath)
		pdf.AddUTF8Font(unicodeFont, "B", e.fontPath)
		family = unicodeFont
	} else {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}

	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, translate(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := data.columnWidths(pageWidth)
	pdf.SetFont(family, "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, translate(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, translate(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
