package builtins

import (
	"embed"
	"io/fs"

	"github.com/aretw0/hpgraph/pkg/adapters/memory"
)

//go:embed recipes/*.yaml
var recipeFS embed.FS

// Recipes returns the bundled example documents, keyed by file name
// without extension ("transformer_lm", "tacotron2").
func Recipes() (*memory.Loader, error) {
	sub, err := fs.Sub(recipeFS, "recipes")
	if err != nil {
		return nil, err
	}
	return memory.NewFromFS(sub)
}
