package resolver

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const arithmeticChars = "0123456789.+-*/%() \t"

// template evaluates `!ref` text with embedded references. When every
// reference is a number and the surrounding text is an arithmetic
// expression the result is a number; otherwise the parts are concatenated.
func (b *build) template(name string, t domain.Template) (any, error) {
	values := make([]any, len(t.Parts))
	for i, part := range t.Parts {
		if part.Ref == nil {
			continue
		}
		v, err := b.lookup(name, *part.Ref)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	if isArithmetic(t, values) {
		out, err := evalArithmetic(t, values)
		if err != nil {
			return nil, domain.WrapError(domain.ErrConstruction, name, fmt.Errorf("evaluate %q: %w", t.Raw, err))
		}
		return out, nil
	}

	var sb strings.Builder
	for i, part := range t.Parts {
		if part.Ref == nil {
			sb.WriteString(part.Text)
			continue
		}
		s, err := stringify(values[i])
		if err != nil {
			return nil, domain.WrapError(domain.ErrConstruction, name, fmt.Errorf("interpolate <%s>: %w", part.Ref, err))
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func isArithmetic(t domain.Template, values []any) bool {
	hasOperator := false
	for i, part := range t.Parts {
		if part.Ref != nil {
			if _, ok := registry.ToFloat(values[i]); !ok {
				return false
			}
			continue
		}
		if strings.Trim(part.Text, arithmeticChars) != "" {
			return false
		}
		if strings.ContainsAny(part.Text, "+-*/%") {
			hasOperator = true
		}
	}
	return hasOperator
}

// evalArithmetic rewrites references to variables v0, v1, ... and evaluates
// the expression with HCL. Integral results come back as int, or as uint64
// above the int64 range.
func evalArithmetic(t domain.Template, values []any) (any, error) {
	var expr strings.Builder
	vars := make(map[string]cty.Value)
	for i, part := range t.Parts {
		if part.Ref == nil {
			expr.WriteString(part.Text)
			continue
		}
		name := "v" + strconv.Itoa(i)
		val, err := numberValue(values[i])
		if err != nil {
			return nil, err
		}
		vars[name] = val
		expr.WriteString(" " + name + " ")
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(expr.String()), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}
	result, diags := parsed.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return nil, diags
	}
	if result.IsNull() || !result.IsKnown() || result.Type() != cty.Number {
		return nil, fmt.Errorf("expression is not a number")
	}

	bf := result.AsBigFloat()
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return int(i), nil
		}
		if u, acc := bf.Uint64(); acc == big.Exact {
			return u, nil
		}
	}
	var f float64
	if err := gocty.FromCtyValue(result, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func numberValue(v any) (cty.Value, error) {
	switch n := v.(type) {
	case int:
		return cty.NumberIntVal(int64(n)), nil
	case int64:
		return cty.NumberIntVal(n), nil
	case uint64:
		return cty.NumberUIntVal(n), nil
	}
	f, _ := registry.ToFloat(v)
	return gocty.ToCtyValue(f, cty.Number)
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("cannot interpolate %T into a string", v)
	}
}
