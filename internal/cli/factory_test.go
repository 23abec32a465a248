package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hpgraph/internal/config"
	"github.com/aretw0/hpgraph/pkg/adapters/file"
	"github.com/aretw0/hpgraph/pkg/adapters/memory"
	"github.com/aretw0/hpgraph/pkg/adapters/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     config.Store
		check   func(t *testing.T, store any)
		wantErr bool
	}{
		{name: "none", cfg: config.Store{Backend: config.StoreNone}, check: func(t *testing.T, s any) { assert.Nil(t, s) }},
		{name: "memory", cfg: config.Store{Backend: config.StoreMemory}, check: func(t *testing.T, s any) { assert.IsType(t, &memory.Store{}, s) }},
		{name: "file", cfg: config.Store{Backend: config.StoreFile, Dir: t.TempDir()}, check: func(t *testing.T, s any) { assert.IsType(t, &file.Store{}, s) }},
		{name: "redis", cfg: config.Store{Backend: config.StoreRedis, Redis: config.Redis{Addr: mr.Addr(), Prefix: "t:"}}, check: func(t *testing.T, s any) { assert.IsType(t, &redis.Store{}, s) }},
		{name: "unknown", cfg: config.Store{Backend: "s3"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closer, err := OpenStore(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if closer != nil {
				defer closer()
			}
			tt.check(t, store)
		})
	}
}

func TestOpenRecipes(t *testing.T) {
	builtin, err := OpenRecipes("")
	require.NoError(t, err)
	names, err := builtin.ListDocuments()
	require.NoError(t, err)
	assert.Contains(t, names, "transformer_lm")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.yaml"), []byte("a: 1\n"), 0644))
	custom, err := OpenRecipes(dir)
	require.NoError(t, err)
	names, err = custom.ListDocuments()
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, names)
}

func TestNewEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(config.DefaultFile, []byte("store:\n  backend: memory\nlog:\n  level: warn\n"), 0644))

	seed := int64(77)
	env, err := NewEnv(EnvOptions{Seed: &seed, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer env.Close()

	assert.IsType(t, &memory.Store{}, env.Store)
	assert.NotNil(t, env.Metrics)
	assert.Equal(t, int64(77), *env.Config.Seed)

	env2, err := NewEnv(EnvOptions{Store: config.StoreNone, Debug: true})
	require.NoError(t, err)
	assert.Nil(t, env2.Store)
	assert.Equal(t, "debug", env2.Config.Log.Level)

	_, err = NewEnv(EnvOptions{Store: "tape"})
	assert.Error(t, err)
}
