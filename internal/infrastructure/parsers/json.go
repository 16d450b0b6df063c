package parsers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONParser parses name tables stored as a JSON array of rows.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed rows.
func (p *JSONParser) Parse(r io.Reader) ([]NameRow, error) {
	var rows []NameRow

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed)
	for i := range rows {
		rows[i].ID = strings.TrimSpace(rows[i].ID)
		rows[i].Language = strings.TrimSpace(rows[i].Language)
		rows[i].Label = strings.TrimSpace(rows[i].Label)
		rows[i].LineNum = i + 1
	}

	return rows, nil
}
