package mocks

import (
	"context"
	"strings"
	"time"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
)

// DocumentSource is a mock implementation of ports.DocumentSource backed by
// in-memory JSON-LD strings keyed by path.
type DocumentSource struct {
	Paths    []string
	Docs     map[string]string
	LoadErrs map[string]error
	Delays   map[string]time.Duration
	Err      error
}

// NewDocumentSource creates a mock source. Paths are listed in the order given.
func NewDocumentSource() *DocumentSource {
	return &DocumentSource{
		Docs:     make(map[string]string),
		LoadErrs: make(map[string]error),
		Delays:   make(map[string]time.Duration),
	}
}

// Add registers a document body under path.
func (m *DocumentSource) Add(path, body string) *DocumentSource {
	m.Paths = append(m.Paths, path)
	m.Docs[path] = body
	return m
}

// List returns the registered paths.
func (m *DocumentSource) List(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]string(nil), m.Paths...), nil
}

// Load decodes the registered document at path.
func (m *DocumentSource) Load(ctx context.Context, path string) (*graph.Document, error) {
	if d := m.Delays[path]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.LoadErrs[path]; err != nil {
		return nil, err
	}

	id, err := graph.EntityIDFromPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := graph.Decode(strings.NewReader(m.Docs[path]))
	if err != nil {
		return nil, err
	}
	doc.ID = id
	doc.Path = path
	return doc, nil
}
