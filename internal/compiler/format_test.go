package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_RoundTrip(t *testing.T) {
	src := `
seed: !seed 7
folder: !PLACEHOLDER
d_model: 512
lr: 1.0
ffn: !ref <d_model> * 4
save: !ref <folder>/save
layers: [!ref <d_model>, 10]
encoder: !new:nn.linear
  in_features: !ref <d_model>
  out_features: 10
total: !apply:math.add [1, 2]
relu: !new:nn.relu
opt: !name:optim.adam
  lr: !ref <lr>
backup: !copy <encoder>
`
	doc := parse(t, src)

	out, err := Format(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "!new:nn.linear")
	assert.Contains(t, string(out), "!seed 7")
	assert.Contains(t, string(out), "lr: 1.0")

	again, err := NewParser().Parse(out, "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}
