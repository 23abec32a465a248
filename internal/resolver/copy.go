package resolver

import (
	"fmt"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// deepCopy copies plain data recursively and defers to domain.Copier for
// constructed objects.
func deepCopy(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, int, int64, uint64, float64:
		return t, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := deepCopy(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			c, err := deepCopy(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = c
		}
		return out, nil
	case domain.Copier:
		return t.Copy(), nil
	default:
		return nil, fmt.Errorf("%T cannot be copied", v)
	}
}
