package ports

import (
	"context"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// ManifestStore persists the manifests of successful builds, so that an
// experiment can be reproduced from the exact document it was built from.
type ManifestStore interface {
	// Save persists m under m.ID, replacing any previous manifest with that ID.
	Save(ctx context.Context, m *domain.Manifest) error

	// Load retrieves a manifest.
	// Returns domain.ErrManifestNotFound if the ID is unknown.
	Load(ctx context.Context, id string) (*domain.Manifest, error)

	// Delete removes a manifest. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored manifests.
	List(ctx context.Context) ([]string, error)
}
