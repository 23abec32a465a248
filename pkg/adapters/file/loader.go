package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// Loader implements ports.DocumentLoader over a directory of *.yaml files.
type Loader struct {
	Dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// GetDocument reads <Dir>/<name>.yaml.
func (l *Loader) GetDocument(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: %q", domain.ErrDocumentNotFound, name)
	}
	data, err := os.ReadFile(filepath.Join(l.Dir, name+ext))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// ListDocuments returns the names of the *.yaml files in Dir.
func (l *Loader) ListDocuments() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
