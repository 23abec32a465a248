package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunManifestStoreContract runs a suite of tests to verify that a ManifestStore
// implementation adheres to the defined interface contract.
func RunManifestStoreContract(t *testing.T, store ManifestStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405.000000")

	sample := func(id string) *domain.Manifest {
		return &domain.Manifest{
			ID:        id,
			Source:    "recipes/lm.yaml",
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Seed:      1234,
			Overrides: []string{"lr: 0.5"},
			Document:  "seed: !seed 1234\nlr: 0.5\n",
			Order:     []string{"seed", "lr"},
			Nodes: map[string]domain.ManifestEntry{
				"seed": {Spec: "literal", Kind: "eager", Type: "int", Value: 1234},
				"lr":   {Spec: "literal", Kind: "eager", Type: "float64", Value: 0.5},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		m := sample(id)
		require.NoError(t, store.Save(ctx, m), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, m.ID, loaded.ID)
		assert.Equal(t, m.Source, loaded.Source)
		assert.True(t, m.CreatedAt.Equal(loaded.CreatedAt))
		assert.Equal(t, m.Seed, loaded.Seed)
		assert.Equal(t, m.Overrides, loaded.Overrides)
		assert.Equal(t, m.Document, loaded.Document)
		assert.Equal(t, m.Order, loaded.Order)
		require.Contains(t, loaded.Nodes, "lr")
		assert.Equal(t, "float64", loaded.Nodes["lr"].Type)
		// Encodings may change numeric types, so only presence is checked.
		assert.NotNil(t, loaded.Nodes["lr"].Value)
	})

	t.Run("Stored copy is isolated", func(t *testing.T) {
		m := sample(id + "-iso")
		require.NoError(t, store.Save(ctx, m))
		m.Order[0] = "mutated"

		loaded, err := store.Load(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "seed", loaded.Order[0])
		_ = store.Delete(ctx, m.ID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrManifestNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(id)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrManifestNotFound, "Load after Delete should return ErrManifestNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, sample(id1)))
		require.NoError(t, store.Save(ctx, sample(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
		assert.NotContains(t, ids, id)
	})
}

// RunDocumentLoaderContract verifies a DocumentLoader against the documents
// it is expected to hold.
func RunDocumentLoaderContract(t *testing.T, loader DocumentLoader, want map[string][]byte) {
	t.Helper()

	t.Run("GetDocument", func(t *testing.T) {
		for name, content := range want {
			got, err := loader.GetDocument(name)
			require.NoError(t, err, name)
			assert.Equal(t, string(content), string(got), name)
		}
	})

	t.Run("GetDocument Not Found", func(t *testing.T) {
		_, err := loader.GetDocument("non-existent-document")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("ListDocuments", func(t *testing.T) {
		names, err := loader.ListDocuments()
		require.NoError(t, err)
		assert.Len(t, names, len(want))
		assert.IsIncreasing(t, names)
		for name := range want {
			assert.Contains(t, names, name)
		}
	})
}
