package memory_test

import (
	"testing"
	"testing/fstest"

	"github.com/aretw0/hpgraph/pkg/adapters/memory"
	"github.com/aretw0/hpgraph/pkg/ports"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"lm":   "d_model: 512\n",
		"tts":  "n_mels: 80\n",
		"asr":  "vocab: 1000\n",
	}
	want := make(map[string][]byte)
	for k, v := range data {
		want[k] = []byte(v)
	}

	ports.RunDocumentLoaderContract(t, memory.NewLoader(data), want)
}

func TestMemoryLoader_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"lm.yaml":    {Data: []byte("d_model: 512\n")},
		"notes.md":   {Data: []byte("# ignored")},
		"tts.yaml":   {Data: []byte("n_mels: 80\n")},
	}
	loader, err := memory.NewFromFS(fsys)
	require.NoError(t, err)

	ports.RunDocumentLoaderContract(t, loader, map[string][]byte{
		"lm":  []byte("d_model: 512\n"),
		"tts": []byte("n_mels: 80\n"),
	})
}
