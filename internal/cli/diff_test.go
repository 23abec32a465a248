package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffManifests(t *testing.T) {
	env := newTestEnv(t)
	path := writeDoc(t, doc)
	ctx := context.Background()

	save := func(sets ...string) string {
		var out bytes.Buffer
		require.NoError(t, env.Resolve(ctx, &out, RunOptions{
			DocumentOptions: DocumentOptions{Path: path, Sets: append([]string{"data_folder=/data"}, sets...)},
			JSON:            true,
			Save:            true,
		}))
		var res ResolveOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		return res.ManifestID
	}
	first := save("lr=0.25")
	second := save()

	var out bytes.Buffer
	require.NoError(t, env.DiffManifests(ctx, &out, first, second))
	assert.Equal(t, "~ lr: 0.25 -> 0.5\n", out.String())

	out.Reset()
	require.NoError(t, env.DiffManifests(ctx, &out, first, first))
	assert.Contains(t, out.String(), "No changes")

	err := env.DiffManifests(ctx, &out, first, "missing")
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}
