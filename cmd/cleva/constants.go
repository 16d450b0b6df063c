package main

// Default limits for CLI commands.
const (
	DefaultListLimit      = 50
	DefaultTeammatesLimit = 100
	DefaultExportLimit    = 10000
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}
