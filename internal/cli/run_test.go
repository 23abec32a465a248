package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/hpgraph/internal/compiler"
	"github.com/aretw0/hpgraph/internal/config"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `seed: !seed 3
data_folder: !PLACEHOLDER
lr: 0.5
save: !ref <data_folder>/save
layer: !new:nn.linear {input_size: 3, n_neurons: 2}
`

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = config.StoreMemory
	cfg.Log.Level = "error"
	env, err := newEnv(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hparams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetOverrides(t *testing.T) {
	out, err := SetOverrides([]string{"lr=0.1", "dir = /data", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []string{"lr: 0.1", "dir:  /data", "empty: "}, out)

	_, err = SetOverrides([]string{"novalue"})
	assert.Error(t, err)
	_, err = SetOverrides([]string{"=1"})
	assert.Error(t, err)
}

func TestSetOverrides_DottedNames(t *testing.T) {
	out, err := SetOverrides([]string{"layer.n_neurons=4", "a.b.c=x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"layer:\n  n_neurons: 4", "a:\n  b:\n    c: x"}, out)

	for _, bad := range []string{"layers[0]=1", "a..b=1", "a.=1"} {
		_, err := SetOverrides([]string{bad})
		assert.Error(t, err, bad)
	}

	parsed, err := compiler.NewParser().Parse([]byte(doc), "hparams.yaml", out[0])
	require.NoError(t, err)
	spec, ok := parsed.Node("layer")
	require.True(t, ok)
	layer, ok := spec.(domain.Constructor)
	require.True(t, ok)
	assert.Equal(t, "nn.linear", layer.Target)
	assert.Equal(t, domain.Literal{Value: 4}, layer.Named.Values["n_neurons"])
	assert.Equal(t, domain.Literal{Value: 3}, layer.Named.Values["input_size"])
}

func TestResolve_JSON(t *testing.T) {
	env := newTestEnv(t)
	path := writeDoc(t, doc)

	var out bytes.Buffer
	err := env.Resolve(context.Background(), &out, RunOptions{
		DocumentOptions: DocumentOptions{Path: path, Overrides: []string{"data_folder: /data"}, Sets: []string{"lr=0.25"}},
		JSON:            true,
		Save:            true,
	})
	require.NoError(t, err)

	var res ResolveOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, path, res.Source)
	assert.Equal(t, int64(3), res.Seed)
	assert.Equal(t, []string{"seed", "data_folder", "lr", "save", "layer"}, res.Order)
	assert.Equal(t, 0.25, res.Nodes["lr"].Value)
	assert.Equal(t, "/data/save", res.Nodes["save"].Value)
	require.NotEmpty(t, res.ManifestID)

	m, err := env.Store.Load(context.Background(), res.ManifestID)
	require.NoError(t, err)
	assert.Equal(t, []string{"data_folder: /data", "lr: 0.25"}, m.Overrides)
}

func TestResolve_Summary(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	err := env.Resolve(context.Background(), &out, RunOptions{
		DocumentOptions: DocumentOptions{Path: writeDoc(t, doc), Sets: []string{"data_folder=/d"}},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "| `layer` | constructor | nn.linear |")
	assert.NotContains(t, out.String(), "Manifest saved")
}

func TestResolve_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	var out bytes.Buffer

	err := env.Resolve(ctx, &out, RunOptions{DocumentOptions: DocumentOptions{Path: writeDoc(t, doc)}})
	assert.ErrorIs(t, err, domain.ErrMissingPlaceholder)

	err = env.Resolve(ctx, &out, RunOptions{DocumentOptions: DocumentOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")}})
	assert.ErrorContains(t, err, "failed to read document")

	err = env.Resolve(ctx, &out, RunOptions{DocumentOptions: DocumentOptions{Path: "x.yaml", Recipe: "tacotron2"}})
	assert.Error(t, err)

	err = env.Resolve(ctx, &out, RunOptions{})
	assert.ErrorContains(t, err, "no document given")

	env.Store = nil
	err = env.Resolve(ctx, &out, RunOptions{DocumentOptions: DocumentOptions{Path: writeDoc(t, "a: 1\n")}, Save: true})
	assert.ErrorContains(t, err, "--save needs a manifest store")
}

func TestResolve_Recipe(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	err := env.Resolve(context.Background(), &out, RunOptions{
		DocumentOptions: DocumentOptions{Recipe: "transformer_lm", Sets: []string{"data_folder=/corpus"}},
		JSON:            true,
	})
	require.NoError(t, err)

	var res ResolveOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "recipe:transformer_lm", res.Source)
	assert.Equal(t, int64(2602), res.Seed)
	assert.Equal(t, "/corpus/train.csv", res.Nodes["train_csv"].Value)
}

func TestValidate(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	require.NoError(t, env.Validate(&out, DocumentOptions{Path: writeDoc(t, "b: !ref <a>\na: 1\n")}))
	assert.Contains(t, out.String(), "is valid: 2 nodes")
	assert.Contains(t, out.String(), "a -> b")

	err := env.Validate(&out, DocumentOptions{Path: writeDoc(t, "a: !ref <b>\nb: !ref <a>\n")})
	assert.ErrorIs(t, err, domain.ErrCyclicReference)
}

func TestGraph(t *testing.T) {
	env := newTestEnv(t)
	path := writeDoc(t, "a: 1\nb: !ref <a>\nc: !new:nn.linear {input_size: !ref <a>, n_neurons: 0}\n")

	var out bytes.Buffer
	require.NoError(t, env.Graph(context.Background(), &out, DocumentOptions{Path: path}, false))
	assert.Contains(t, out.String(), "a --> b")
	assert.NotContains(t, out.String(), "classDef")

	out.Reset()
	require.NoError(t, env.Graph(context.Background(), &out, DocumentOptions{Path: path}, true))
	assert.Contains(t, out.String(), "class c failed;")
}

func TestFormat(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	require.NoError(t, env.Format(&out, DocumentOptions{Path: writeDoc(t, doc), Sets: []string{"data_folder=/x"}}))
	assert.Contains(t, out.String(), "data_folder: /x")
	assert.Contains(t, out.String(), "seed: !seed 3")
}

func TestFormatError(t *testing.T) {
	be := &domain.BuildError{Kind: domain.ErrCyclicReference, Node: "a", Cycle: []string{"a", "b", "a"}, Cause: "loop"}
	text := FormatError(be)
	assert.Contains(t, text, `cyclic_reference at node "a"`)
	assert.Contains(t, text, "cycle: a -> b -> a")

	be = &domain.BuildError{Kind: domain.ErrParse, Line: 3, Column: 5}
	assert.Equal(t, "parse (line 3, column 5)", FormatError(be))

	assert.Equal(t, "plain", FormatError(errors.New("plain")))
}
