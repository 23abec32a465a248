package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/hpgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	b := hpgraph.New()
	doc, err := b.Parse([]byte(`
seed: !seed 9
name: a|b
long: `+strings.Repeat("x", 80)+`
l: !new:nn.linear {input_size: 2, n_neurons: 1}
`), "report.yaml")
	require.NoError(t, err)
	g, err := b.Resolve(context.Background(), doc)
	require.NoError(t, err)

	out := Summary(doc, g)
	assert.Contains(t, out, "# report.yaml")
	assert.Contains(t, out, "**seed** `9`")
	assert.Contains(t, out, "| 1 | `seed` | literal |")
	assert.Contains(t, out, `a\|b`)
	assert.Contains(t, out, strings.Repeat("x", 45)+"...")
	assert.Contains(t, out, "| `l` | constructor | nn.linear | `*builtins.Linear` |  |")
}

func TestRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
