package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string, overrides ...string) *domain.Document {
	t.Helper()
	doc, err := NewParser().Parse([]byte(src), "test.yaml", overrides...)
	require.NoError(t, err)
	return doc
}

func parseErr(t *testing.T, src string, overrides ...string) *domain.BuildError {
	t.Helper()
	_, err := NewParser().Parse([]byte(src), "test.yaml", overrides...)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrParse)
	var be *domain.BuildError
	require.True(t, errors.As(err, &be))
	return be
}

func TestParse_LiteralsAndConstructor(t *testing.T) {
	doc := parse(t, `
a: 5
name: transformer
ratio: 0.25
flag: true
b: !new:add_one
  x: !ref <a>
`)
	assert.Equal(t, []string{"a", "name", "ratio", "flag", "b"}, doc.Names())

	a, _ := doc.Node("a")
	assert.Equal(t, domain.Literal{Value: 5}, a)
	ratio, _ := doc.Node("ratio")
	assert.Equal(t, domain.Literal{Value: 0.25}, ratio)

	b, _ := doc.Node("b")
	ctor, ok := b.(domain.Constructor)
	require.True(t, ok)
	assert.Equal(t, "add_one", ctor.Target)
	assert.False(t, ctor.Apply)
	assert.Equal(t, []string{"x"}, ctor.Named.Keys)
	assert.Equal(t, domain.Reference{Path: domain.Path{Root: "a"}}, ctor.Named.Values["x"])
}

func TestParse_ConstructorForms(t *testing.T) {
	doc := parse(t, `
relu: !new:nn.relu
total: !apply:math.add [1, 2]
opt: !name:optim.adam
  lr: 0.001
`)
	relu, _ := doc.Node("relu")
	assert.Equal(t, domain.Constructor{Target: "nn.relu"}, relu)

	total, _ := doc.Node("total")
	ctor := total.(domain.Constructor)
	assert.True(t, ctor.Apply)
	assert.Equal(t, []domain.Spec{domain.Literal{Value: 1}, domain.Literal{Value: 2}}, ctor.Positional)

	opt, _ := doc.Node("opt")
	fn, ok := opt.(domain.FunctionRef)
	require.True(t, ok)
	assert.Equal(t, "optim.adam", fn.Target)
	assert.Equal(t, domain.Literal{Value: 0.001}, fn.Named.Values["lr"])
}

func TestParse_References(t *testing.T) {
	doc := parse(t, `
deep: !ref <model.encoder[0]>
out: !ref <folder>/save
ffn: !ref <d_model> * 4
backup: !copy <model>
`)
	deep, _ := doc.Node("deep")
	assert.Equal(t, domain.Reference{Path: domain.Path{Root: "model", Steps: []domain.Step{
		{Field: "encoder"},
		{Index: 0, IsIndex: true},
	}}}, deep)

	out, _ := doc.Node("out")
	tpl, ok := out.(domain.Template)
	require.True(t, ok)
	assert.Equal(t, "<folder>/save", tpl.Raw)
	require.Len(t, tpl.Parts, 2)
	assert.Equal(t, "folder", tpl.Parts[0].Ref.Root)
	assert.Equal(t, "/save", tpl.Parts[1].Text)

	ffn, _ := doc.Node("ffn")
	assert.Equal(t, []string{"d_model"}, domain.Dependencies(ffn))

	backup, _ := doc.Node("backup")
	assert.Equal(t, domain.Copy{Path: domain.Path{Root: "model"}}, backup)
}

func TestParse_PlaceholderAndSeed(t *testing.T) {
	doc := parse(t, `
seed: !seed 1234
data_folder: !PLACEHOLDER
`)
	assert.Equal(t, "seed", doc.SeedNode())
	seed, _ := doc.Node("seed")
	assert.Equal(t, domain.Literal{Value: 1234}, seed)
	folder, _ := doc.Node("data_folder")
	assert.True(t, domain.HasPlaceholder(folder))
}

func TestParse_AnchorsAndMergeKeys(t *testing.T) {
	doc := parse(t, `
base: &base
  lr: 0.1
  eps: 0.5
dims: &dims [1, 2]
again: *dims
opt: !name:optim.adam
  <<: *base
  lr: 0.01
`)
	again, _ := doc.Node("again")
	assert.Equal(t, domain.Sequence{Items: []domain.Spec{domain.Literal{Value: 1}, domain.Literal{Value: 2}}}, again)

	opt, _ := doc.Node("opt")
	named := opt.(domain.FunctionRef).Named
	assert.Equal(t, []string{"lr", "eps"}, named.Keys)
	assert.Equal(t, domain.Literal{Value: 0.01}, named.Values["lr"])
	assert.Equal(t, domain.Literal{Value: 0.5}, named.Values["eps"])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		node string
	}{
		{"malformed yaml", "a: [1, 2", ""},
		{"root is a list", "- a\n- b\n", ""},
		{"unknown tag", "a: !lambda x\n", "a"},
		{"ref without brackets", "a: !ref b\n", "a"},
		{"bad copy", "a: !copy <b>/c\n", "a"},
		{"nested seed", "a:\n  b: !seed 1\n", "a"},
		{"two seeds", "a: !seed 1\nb: !seed 2\n", "b"},
		{"non-integer seed", "a: !seed abc\n", "a"},
		{"scalar constructor args", "a: !new:math.add 3\n", "a"},
		{"empty target", "a: !new:\n", "a"},
		{"malformed path", "a: !ref <b[>\n", "a"},
		{"duplicate node", "a: 1\na: 2\n", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := parseErr(t, tt.src)
			assert.Equal(t, tt.node, be.Node)
		})
	}
}

func TestParse_ErrorCarriesPosition(t *testing.T) {
	be := parseErr(t, "a: 1\nb: !oops 2\n")
	assert.Equal(t, 2, be.Line)
	assert.Positive(t, be.Column)
}

func TestParse_EmptyDocument(t *testing.T) {
	doc := parse(t, "")
	assert.Equal(t, 0, doc.Len())
}

func TestParse_Overrides(t *testing.T) {
	src := `
seed: !seed 1
folder: !PLACEHOLDER
model: !new:nn.linear
  in_features: 80
  out_features: 10
`
	t.Run("fills placeholders", func(t *testing.T) {
		doc := parse(t, src, "folder: /tmp/exp")
		folder, _ := doc.Node("folder")
		assert.Equal(t, domain.Literal{Value: "/tmp/exp"}, folder)
	})

	t.Run("merges constructor arguments", func(t *testing.T) {
		doc := parse(t, src, "model: {out_features: 42}")
		model, _ := doc.Node("model")
		ctor, ok := model.(domain.Constructor)
		require.True(t, ok, "constructor tag must survive the override")
		assert.Equal(t, domain.Literal{Value: 80}, ctor.Named.Values["in_features"])
		assert.Equal(t, domain.Literal{Value: 42}, ctor.Named.Values["out_features"])
	})

	t.Run("tagged override replaces", func(t *testing.T) {
		doc := parse(t, src, "model: !new:nn.relu")
		model, _ := doc.Node("model")
		assert.Equal(t, domain.Constructor{Target: "nn.relu"}, model)
	})

	t.Run("keeps seed designation", func(t *testing.T) {
		doc := parse(t, src, "seed: 99")
		assert.Equal(t, "seed", doc.SeedNode())
		seed, _ := doc.Node("seed")
		assert.Equal(t, domain.Literal{Value: 99}, seed)
	})

	t.Run("appends new keys in order", func(t *testing.T) {
		doc := parse(t, src, "extra: 1", "more: 2")
		names := doc.Names()
		assert.Equal(t, []string{"extra", "more"}, names[len(names)-2:])
	})

	t.Run("later overrides win", func(t *testing.T) {
		doc := parse(t, src, "folder: a", "folder: b")
		folder, _ := doc.Node("folder")
		assert.Equal(t, domain.Literal{Value: "b"}, folder)
	})

	t.Run("bad override", func(t *testing.T) {
		be := parseErr(t, src, "folder: [")
		assert.Contains(t, be.Cause, "override 1")
	})
}

func TestMerge_DoesNotLeakIntoAliases(t *testing.T) {
	doc := parse(t, `
base: &base {lr: 0.1, eps: 0.5}
copy: *base
`, "copy: {lr: 0.2}")

	base, _ := doc.Node("base")
	assert.Equal(t, domain.Literal{Value: 0.1}, base.(*domain.Mapping).Values["lr"])
	cp, _ := doc.Node("copy")
	assert.Equal(t, domain.Literal{Value: 0.2}, cp.(*domain.Mapping).Values["lr"])
}

// nestedAliases builds a document where each level is a list of ten aliases
// to the previous one, so the top level expands to 10^levels scalars.
func nestedAliases(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 x\n")
	for i := 1; i <= levels; i++ {
		fmt.Fprintf(&b, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*l%d", i-1)
		}
		b.WriteString("]\n")
	}
	return b.String()
}

func TestParse_AliasExpansionBudget(t *testing.T) {
	t.Run("exponential expansion is rejected", func(t *testing.T) {
		be := parseErr(t, nestedAliases(7))
		assert.Contains(t, be.Error(), "aliases")
		assert.NotEmpty(t, be.Node)
	})

	t.Run("moderate reuse still compiles", func(t *testing.T) {
		doc := parse(t, nestedAliases(3))
		spec, ok := doc.Node("l3")
		require.True(t, ok)
		seq, ok := spec.(domain.Sequence)
		require.True(t, ok)
		assert.Len(t, seq.Items, 10)
	})
}
