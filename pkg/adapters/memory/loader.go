package memory

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// Loader implements ports.DocumentLoader using an in-memory map.
type Loader struct {
	docs map[string][]byte
}

// NewLoader creates a new Loader with the provided raw YAML documents.
func NewLoader(data map[string]string) *Loader {
	docs := make(map[string][]byte, len(data))
	for k, v := range data {
		docs[k] = []byte(v)
	}
	return &Loader{docs: docs}
}

// NewFromFS loads every *.yaml file at the root of fsys, keyed by file name
// without extension. Used with embedded recipe catalogs.
func NewFromFS(fsys fs.FS) (*Loader, error) {
	matches, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	docs := make(map[string][]byte, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", m, err)
		}
		docs[strings.TrimSuffix(path.Base(m), ".yaml")] = data
	}
	return &Loader{docs: docs}, nil
}

// GetDocument retrieves the raw YAML of a document by name.
func (l *Loader) GetDocument(name string) ([]byte, error) {
	content, ok := l.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
	}
	return content, nil
}

// ListDocuments returns all document names.
func (l *Loader) ListDocuments() ([]string, error) {
	keys := make([]string, 0, len(l.docs))
	for k := range l.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
