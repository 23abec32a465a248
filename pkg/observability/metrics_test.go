package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, b *hpgraph.Builder, src string) error {
	t.Helper()
	doc, err := b.Parse([]byte(src), "metrics.yaml")
	require.NoError(t, err)
	_, err = b.Resolve(context.Background(), doc)
	return err
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	b := hpgraph.New(hpgraph.WithHooks(m.Hooks()))

	require.NoError(t, resolve(t, b, `
d: 4
l: !new:nn.linear {input_size: !ref <d>, n_neurons: 2}
opt: !name:optim.adam {lr: 0.1}
`))
	// Fails at construction time: the layer size is only known after `d` is built.
	assert.Error(t, resolve(t, b, "d: 0\nl: !new:nn.linear {input_size: !ref <d>, n_neurons: 2}\n"))

	const builds = `
# HELP hpgraph_builds_total Total number of resolution passes, by result
# TYPE hpgraph_builds_total counter
hpgraph_builds_total{result="error"} 1
hpgraph_builds_total{result="ok"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(reg, bytes.NewBufferString(builds), "hpgraph_builds_total"))

	const nodes = `
# HELP hpgraph_nodes_built_total Total number of nodes constructed, by spec and value kind
# TYPE hpgraph_nodes_built_total counter
hpgraph_nodes_built_total{kind="deferred",spec="function"} 1
hpgraph_nodes_built_total{kind="eager",spec="constructor"} 1
hpgraph_nodes_built_total{kind="eager",spec="literal"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(reg, bytes.NewBufferString(nodes), "hpgraph_nodes_built_total"))

	const failures = `
# HELP hpgraph_node_failures_total Total number of node failures, by error kind
# TYPE hpgraph_node_failures_total counter
hpgraph_node_failures_total{error="argument_mismatch"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(reg, bytes.NewBufferString(failures), "hpgraph_node_failures_total"))

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "hpgraph_factory_duration_seconds"))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := hpgraph.New(hpgraph.WithHooks(observability.LogHooks(logger)))

	require.NoError(t, resolve(t, b, "a: 1\nb: !new:math.add_one {x: !ref <a>}\n"))
	out := buf.String()
	assert.Contains(t, out, "msg=build_start")
	assert.Contains(t, out, "msg=node_built node=b spec=constructor target=math.add_one kind=eager")
	assert.Contains(t, out, "msg=build_done")

	buf.Reset()
	assert.Error(t, resolve(t, b, "a: !new:nn.linear {input_size: 1, n_neurons: 1}\nb: !new:nn.sequential [!ref <a>, 3]\n"))
	assert.Contains(t, buf.String(), "msg=node_failed node=b")
}
