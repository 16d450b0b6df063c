package ports

import (
	"context"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
)

// DocumentSource lists and loads per-entity statement graphs.
type DocumentSource interface {
	// List returns the paths of all documents in a stable order.
	List(ctx context.Context) ([]string, error)

	// Load reads and decodes one document. The document's ID is derived from its path.
	Load(ctx context.Context, path string) (*graph.Document, error)
}
