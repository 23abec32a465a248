package builtins

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/aretw0/hpgraph/pkg/schema"
)

func registerText(reg *registry.Registry) {
	reg.Register("str.join", func(_ *registry.Call, args registry.Args) (any, error) {
		var in struct {
			Sep string `hp:"sep"`
		}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		parts, err := toStrings(args.Positional)
		if err != nil {
			return nil, err
		}
		return strings.Join(parts, in.Sep), nil
	}, registry.WithParams(schema.Schema{"sep": schema.Optional(schema.String())}),
		registry.WithDoc("Join the positional strings with sep."))

	reg.Register("path.join", func(_ *registry.Call, args registry.Args) (any, error) {
		parts, err := toStrings(args.Positional)
		if err != nil {
			return nil, err
		}
		return path.Join(parts...), nil
	}, registry.WithParams(schema.Schema{}), registry.WithDoc("Join the positional path elements with '/'."))

	reg.Register("time.duration", func(_ *registry.Call, args registry.Args) (any, error) {
		var in struct {
			Value time.Duration `hp:"value"`
		}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		return in.Value, nil
	}, registry.WithParams(schema.Schema{"value": schema.String()}),
		registry.WithDoc("Parse a Go duration string such as \"1m30s\"."))
}

func toStrings(values []any) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		switch s := v.(type) {
		case string:
			out[i] = s
		case int, int64, float64, bool:
			out[i] = fmt.Sprint(s)
		default:
			return nil, fmt.Errorf("%w: argument %d: expected string, got %T", domain.ErrArgumentMismatch, i, v)
		}
	}
	return out, nil
}
