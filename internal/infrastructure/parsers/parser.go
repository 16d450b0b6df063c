// Package parsers reads secondary name tables from delimited and JSON files.
package parsers

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when no parser handles a format or extension.
var ErrUnsupportedFormat = errors.New("unsupported name table format")

// NameRow is one label of an entity in a secondary name table.
type NameRow struct {
	ID       string `json:"wikidata_id"`
	Language string `json:"language"`
	Label    string `json:"label"`
	LineNum  int    `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing name tables.
type Parser interface {
	Parse(r io.Reader) ([]NameRow, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "tsv", "csv", "json".
func ForFormat(format string) (Parser, error) {
	switch strings.ToLower(format) {
	case "tsv":
		return NewTSVParser(), nil
	case "csv":
		return NewCSVParser(), nil
	case "json":
		return &JSONParser{}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) (Parser, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ForFormat(ext)
}
