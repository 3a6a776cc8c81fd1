package interchange

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/parsers"
	"github.com/username/equityflow/src/security/validation"
)

// RowDiagnostic describes a delimited-text line that was skipped.
type RowDiagnostic struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// ImportResult holds the parsed records and the lines that were skipped.
type ImportResult struct {
	Records []models.Transaction
	Skipped []RowDiagnostic
}

// ReadCSV parses delimited text with one header row. Bad lines never stop the
// read; they are collected in Skipped. Only I/O failures return an error.
func ReadCSV(r io.Reader) (ImportResult, error) {
	result := ImportResult{Records: []models.Transaction{}, Skipped: []RowDiagnostic{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		tx, err := parsers.ParseRow(text)
		if err != nil {
			result.Skipped = append(result.Skipped, RowDiagnostic{Line: lineNo, Text: text, Reason: err.Error(), Err: err})
			continue
		}
		result.Records = append(result.Records, tx)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("error reading delimited text: %w", err)
	}
	return result, nil
}

// WriteCSV writes the projection header followed by rows. Stock names are
// guarded against spreadsheet formula injection.
func WriteCSV(w io.Writer, p models.Projection, rows [][]string) error {
	header := p.Header()
	symbolCol := -1
	for i, h := range header {
		if h == "Stock_Name" {
			symbolCol = i
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d fields, %s expects %d", i+1, len(row), p, len(header))
		}
		if symbolCol >= 0 {
			row = append([]string(nil), row...)
			row[symbolCol] = validation.SanitizeForFormulaInjection(row[symbolCol])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing delimited text: %w", err)
	}
	return nil
}
