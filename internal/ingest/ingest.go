// Package ingest turns input documents (PDF, XLSX, CSV, plain text) into
// the raw text the extraction prompt embeds.
package ingest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadFile reads one document, dispatching on the file extension.
func ReadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".xlsx":
		return readXLSX(path)
	case ".xls":
		// tealeg/xlsx reads only the zip-based format, not the legacy
		// binary one, so fail with a usable message instead of an opaque
		// open error.
		return "", eris.New("ingest: legacy binary .xls is not supported, convert the file to .xlsx")
	case ".csv":
		return readCSV(path)
	case ".txt", ".tsv", ".md", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrap(err, "ingest: read text file")
		}
		return string(data), nil
	default:
		return "", eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", eris.Wrap(err, "ingest: open pdf")
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", eris.Wrap(err, "ingest: extract pdf text")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", eris.Wrap(err, "ingest: read pdf text")
	}
	return buf.String(), nil
}

// readXLSX renders every sheet as a "Sheet: <name>" heading followed by
// tab-joined rows, so statement tables keep their column alignment for
// the model.
func readXLSX(path string) (string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return "", eris.Wrap(err, "ingest: open spreadsheet")
	}

	var b strings.Builder
	for _, sheet := range f.Sheets {
		b.WriteString("Sheet: ")
		b.WriteString(sheet.Name)
		b.WriteByte('\n')
		for _, row := range sheet.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			b.WriteString(strings.Join(cells, "\t"))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func readCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", eris.Wrap(err, "ingest: parse csv")
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
