package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/pkg/builtins"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Document(t *testing.T) {
	b := New("lm")

	b.Add("seed").Seed(3)
	b.Add("data_folder").Placeholder()
	b.Add("d_model").Value(16)
	b.Add("train_csv").Template("<data_folder>/train.csv")
	b.Add("enc").New("nn.linear").
		With("input_size", Ref("d_model")).
		With("n_neurons", 4)
	b.Add("enc_copy").Copy("enc")
	b.Add("opt").Name("optim.adam").With("lr", 0.01)
	b.Add("sizes").Value([]int{1, 2})
	b.Add("extra").Value(map[string]any{"b": true, "a": "x"})

	doc, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "lm", doc.Source)
	assert.Equal(t, "seed", doc.SeedNode())
	assert.Equal(t, []string{"seed", "data_folder", "d_model", "train_csv", "enc", "enc_copy", "opt", "sizes", "extra"}, doc.Names())

	spec, _ := doc.Node("train_csv")
	tpl, ok := spec.(domain.Template)
	require.True(t, ok)
	assert.Equal(t, "<data_folder>/train.csv", tpl.Raw)

	spec, _ = doc.Node("enc")
	ctor, ok := spec.(domain.Constructor)
	require.True(t, ok)
	assert.Equal(t, "nn.linear", ctor.Target)
	assert.Equal(t, []string{"input_size", "n_neurons"}, ctor.Named.Keys)
	assert.Equal(t, domain.Reference{Path: domain.Path{Root: "d_model"}}, ctor.Named.Values["input_size"])

	spec, _ = doc.Node("opt")
	assert.Equal(t, domain.KindFunction, spec.Kind())

	spec, _ = doc.Node("extra")
	m, ok := spec.(*domain.Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, m.Keys)
}

func TestBuilder_Resolves(t *testing.T) {
	b := New("")
	b.Add("seed").Seed(5)
	b.Add("d").Value(int64(8))
	b.Add("layer").New("nn.linear").With("input_size", Ref("d")).With("n_neurons", uint8(2))
	b.Add("total").New("math.add", Ref("d"), Ref("layer.n_params"))
	b.Add("warm").Apply("math.add_one").With("x", float32(0.5))

	doc, err := b.Build()
	require.NoError(t, err)

	g, err := hpgraph.New().Resolve(context.Background(), doc)
	require.NoError(t, err)

	layer, _ := g.Get("layer")
	assert.Equal(t, 18, layer.(*builtins.Linear).NParams())
	total, _ := g.Get("total")
	assert.Equal(t, 26, total)
	warm, _ := g.Get("warm")
	assert.Equal(t, 1.5, warm)
	assert.Equal(t, int64(5), g.Seed)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New("x")
	b.Add("a").Value(1)
	b.Add("a").Value(2)

	doc, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
	spec, _ := doc.Node("a")
	assert.Equal(t, domain.Literal{Value: 2}, spec)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		node  string
	}{
		{"with before call", func(b *Builder) { b.Add("a").With("x", 1) }, "a"},
		{"bad reference", func(b *Builder) { b.Add("a").Ref("") }, "a"},
		{"template without reference", func(b *Builder) { b.Add("a").Template("plain") }, "a"},
		{"unsupported value", func(b *Builder) { b.Add("a").Value(struct{}{}) }, "a"},
		{"non-string keys", func(b *Builder) { b.Add("a").Value(map[int]int{1: 1}) }, "a"},
		{"bad argument", func(b *Builder) { b.Add("a").Value(1); b.Add("b").New("f").With("x", make(chan int)) }, "b"},
		{"two seeds", func(b *Builder) { b.Add("s1").Seed(1); b.Add("s2").Seed(2) }, "s2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("errors")
			tt.build(b)
			_, err := b.Build()
			require.ErrorIs(t, err, domain.ErrParse)
			var be *domain.BuildError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.node, be.Node)
		})
	}
}
