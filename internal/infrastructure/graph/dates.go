package graph

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// markerKind classifies a date marker found on a node.
type markerKind int

const (
	markerAbsent markerKind = iota
	markerYear
	markerPlaceholder
	markerInvalid
)

// ParseYear returns the year from an ISO-8601 date string such as
// "2004-10-01T00:00:00Z" or "+2004-10-01T00:00:00Z".
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	negative := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	}
	if len(s) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	if negative {
		year = -year
	}
	return year, true
}

// dateMarker reads the date stored under key. Values may be a bare string,
// a typed literal {"@value": ...}, or a placeholder node {"@id": "_:..."}.
func dateMarker(n Node, key string) (int, markerKind) {
	raw, ok := n[key]
	if !ok {
		return 0, markerAbsent
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, markerAbsent
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, markerInvalid
		}
		if y, ok := ParseYear(s); ok {
			return y, markerYear
		}
		return 0, markerInvalid
	case '{':
		var obj struct {
			ID    string `json:"@id"`
			Value string `json:"@value"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0, markerInvalid
		}
		if strings.HasPrefix(obj.ID, PlaceholderPrefix) {
			return 0, markerPlaceholder
		}
		if y, ok := ParseYear(obj.Value); ok {
			return y, markerYear
		}
		return 0, markerInvalid
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return 0, markerInvalid
		}
		return dateMarker(Node{key: items[0]}, key)
	default:
		return 0, markerInvalid
	}
}
