package registry

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addOne(_ *Call, args Args) (any, error) {
	var in struct {
		X int `hp:"x"`
	}
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	return in.X + 1, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("math.add_one", addOne, WithDoc("adds one"))
	r.Register("optim.adam", addOne, AsLazy())

	f, ok := r.Lookup("math.add_one")
	require.True(t, ok)
	assert.Equal(t, Eager, f.Mode)
	assert.Equal(t, "adds one", f.Doc)

	f, ok = r.Lookup("optim.adam")
	require.True(t, ok)
	assert.Equal(t, Lazy, f.Mode)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"math.add_one", "optim.adam"}, r.Targets())
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("x", addOne)
	r.Register("x", func(*Call, Args) (any, error) { return "second", nil })

	f, _ := r.Lookup("x")
	out, err := f.Invoke(&Call{}, Args{})
	require.NoError(t, err)
	assert.Equal(t, "second", out)
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry()
	r.Register("b", addOne, WithParams(schema.Schema{"x": schema.Int()}))
	r.Register("a", addOne, AsLazy())

	infos := r.Describe()
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Target)
	assert.Equal(t, "lazy", infos[0].Mode)
	assert.Equal(t, "int", infos[1].Params["x"].Name())
}

func TestFactory_InvokeValidatesParams(t *testing.T) {
	f := &Factory{Target: "math.add_one", Fn: addOne, Params: schema.Schema{"x": schema.Int()}}

	out, err := f.Invoke(&Call{}, Args{Named: map[string]any{"x": 5}})
	require.NoError(t, err)
	assert.Equal(t, 6, out)

	_, err = f.Invoke(&Call{}, Args{Named: map[string]any{"x": "five"}})
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)

	_, err = f.Invoke(&Call{}, Args{Named: map[string]any{"x": 1, "y": 2}})
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)

	_, err = f.Invoke(&Call{}, Args{})
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
}

func TestFactory_CheckPartial(t *testing.T) {
	f := &Factory{Target: "optim.adam", Fn: addOne, Params: schema.Schema{
		"params": schema.Any(),
		"lr":     schema.Float(),
	}}

	assert.NoError(t, f.CheckPartial(map[string]any{"lr": 0.1}))
	assert.ErrorIs(t, f.CheckPartial(map[string]any{"lr": "fast"}), domain.ErrArgumentMismatch)
	assert.ErrorIs(t, f.CheckPartial(map[string]any{"momentum": 0.9}), domain.ErrArgumentMismatch)
}

func TestArgs_Decode(t *testing.T) {
	var cfg struct {
		LR      float64       `hp:"lr"`
		Steps   int           `hp:"steps"`
		Warmup  time.Duration `hp:"warmup"`
		Betas   []float64     `hp:"betas"`
		Comment string        `hp:"comment"`
	}
	args := Args{Named: map[string]any{
		"lr":     1, // ints widen to float
		"steps":  25000,
		"warmup": "1m30s",
		"betas":  []any{0.9, 0.98},
	}}
	require.NoError(t, args.Decode(&cfg))
	assert.Equal(t, 1.0, cfg.LR)
	assert.Equal(t, 25000, cfg.Steps)
	assert.Equal(t, 90*time.Second, cfg.Warmup)
	assert.Equal(t, []float64{0.9, 0.98}, cfg.Betas)

	err := Args{Named: map[string]any{"unknown": 1}}.Decode(&cfg)
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)

	err = Args{Named: map[string]any{"steps": "many"}}.Decode(&cfg)
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
}

func TestArgs_Numbers(t *testing.T) {
	nums, err := Args{Positional: []any{1, 2.5, int64(3)}}.Numbers()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 3}, nums)

	_, err = Args{Positional: []any{"x"}}.Numbers()
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
}

func TestPartial_MergesArguments(t *testing.T) {
	var seen Args
	f := &Factory{Target: "capture", Mode: Lazy, Fn: func(_ *Call, args Args) (any, error) {
		seen = args
		return "ok", nil
	}}

	p := NewPartial(f, &Call{Node: "opt"}, Args{
		Positional: []any{"a"},
		Named:      map[string]any{"lr": 0.1, "eps": 1e-8},
	})
	var _ domain.Callable = p
	assert.Equal(t, "capture", p.Target())

	out, err := p.Call(context.Background(), []any{"b"}, map[string]any{"lr": 0.5})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []any{"a", "b"}, seen.Positional)
	assert.Equal(t, 0.5, seen.Named["lr"])
	assert.Equal(t, 1e-8, seen.Named["eps"])

	// captured arguments are untouched by the call
	assert.Equal(t, 0.1, p.Bound().Named["lr"])
}

func TestPartial_RandomStreamIsDeterministic(t *testing.T) {
	f := &Factory{Target: "draw", Fn: func(call *Call, _ Args) (any, error) {
		return call.Rand.Float64(), nil
	}}

	draw := func() any {
		build := rand.New(rand.NewPCG(42, 0))
		p := NewPartial(f, &Call{Rand: build}, Args{})
		v, err := p.Call(context.Background(), nil, nil)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, draw(), draw())
}
