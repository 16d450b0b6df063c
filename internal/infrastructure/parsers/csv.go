package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Column names of a name table header.
const (
	ColumnID       = "wikidata_id"
	ColumnLanguage = "language"
	ColumnLabel    = "label"
)

// DelimitedParser parses name tables with a header row, such as the
// ParaNames TSV dump. Unknown columns are ignored.
type DelimitedParser struct {
	comma rune
}

// NewTSVParser returns a parser for tab-separated tables.
func NewTSVParser() *DelimitedParser {
	return &DelimitedParser{comma: '\t'}
}

// NewCSVParser returns a parser for comma-separated tables.
func NewCSVParser() *DelimitedParser {
	return &DelimitedParser{comma: ','}
}

// Parse reads the table and returns one row per record.
// Expected columns: wikidata_id, language, label
func (p *DelimitedParser) Parse(r io.Reader) ([]NameRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the header row.
func (p *DelimitedParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}

	for _, col := range []string{ColumnID, ColumnLanguage, ColumnLabel} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to NameRows.
func (p *DelimitedParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]NameRow, error) {
	var rows []NameRow
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		rows = append(rows, NameRow{
			ID:       strings.TrimSpace(getColumn(record, colIndex, ColumnID)),
			Language: strings.TrimSpace(getColumn(record, colIndex, ColumnLanguage)),
			Label:    strings.TrimSpace(getColumn(record, colIndex, ColumnLabel)),
			LineNum:  lineNum,
		})
	}

	return rows, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
