package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content. Weights, when set, size the PDF
// columns proportionally and must match Headers in length.
type Dataset struct {
	Headers []string
	Weights []float64
	Rows    []map[string]string
}

func (d Dataset) columnWidths(total float64) []float64 {
	widths := make([]float64, len(d.Headers))
	if len(d.Weights) != len(d.Headers) {
		for i := range widths {
			widths[i] = total / float64(len(d.Headers))
		}
		return widths
	}
	sum := 0.0
	for _, w := range d.Weights {
		sum += w
	}
	for i, w := range d.Weights {
		widths[i] = total * w / sum
	}
	return widths
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. The output starts with a
// UTF-8 byte order mark so spreadsheet tools detect the encoding.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.WriteString("\ufeff")
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
