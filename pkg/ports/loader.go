package ports

// DocumentLoader gives access to a catalog of named YAML documents
// (recipes). Names carry no extension.
type DocumentLoader interface {
	// GetDocument returns the raw YAML of a document.
	// Returns domain.ErrDocumentNotFound if the name is unknown.
	GetDocument(name string) ([]byte, error)

	// ListDocuments returns every document name, sorted.
	ListDocuments() ([]string, error)
}
