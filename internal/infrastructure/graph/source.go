package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// ErrMissingID is returned when a document's entity id cannot be derived from its filename.
var ErrMissingID = errors.New("missing entity id")

// EntityIDFromPath derives the entity id from a filename of the form "<id>.<ext>".
func EntityIDFromPath(path string) (entities.EntityID, error) {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	id = strings.TrimSpace(id)
	if id == "" || id == "." {
		return "", fmt.Errorf("%s: %w", path, ErrMissingID)
	}
	return entities.EntityID(id), nil
}

// DirSource lists and loads documents from a directory.
type DirSource struct {
	dir string
	ext string
}

// NewDirSource creates a source over files in dir with extension ext (e.g. ".jsonld").
func NewDirSource(dir, ext string) *DirSource {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &DirSource{dir: dir, ext: ext}
}

// Dir returns the directory the source reads.
func (s *DirSource) Dir() string {
	return s.dir
}

// Matches reports whether path has the source's document extension.
func (s *DirSource) Matches(path string) bool {
	return s.ext == "" || strings.EqualFold(filepath.Ext(path), s.ext)
}

// List returns the document paths in lexical order.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading document directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !s.Matches(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}

// Load reads and decodes the document at path.
func (s *DirSource) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := EntityIDFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, err
	}
	doc.ID = id
	doc.Path = path

	return doc, nil
}
