package builtins

import (
	"math"

	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/aretw0/hpgraph/pkg/schema"
)

func registerMath(reg *registry.Registry) {
	reg.Register("math.add", func(_ *registry.Call, args registry.Args) (any, error) {
		if ints, ok := integers(args.Positional); ok {
			if sum, ok := addInts(ints); ok {
				return sum, nil
			}
		}
		nums, err := args.Numbers()
		if err != nil {
			return nil, err
		}
		sum := 0.0
		for _, n := range nums {
			sum += n
		}
		return number(sum, allInts(args.Positional)), nil
	}, registry.WithParams(schema.Schema{}), registry.WithDoc("Sum of the positional numbers."))

	reg.Register("math.mul", func(_ *registry.Call, args registry.Args) (any, error) {
		if ints, ok := integers(args.Positional); ok {
			if product, ok := mulInts(ints); ok {
				return product, nil
			}
		}
		nums, err := args.Numbers()
		if err != nil {
			return nil, err
		}
		product := 1.0
		for _, n := range nums {
			product *= n
		}
		return number(product, allInts(args.Positional)), nil
	}, registry.WithParams(schema.Schema{}), registry.WithDoc("Product of the positional numbers."))

	reg.Register("math.add_one", func(_ *registry.Call, args registry.Args) (any, error) {
		var in struct {
			X any `hp:"x"`
		}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		if ints, ok := integers([]any{in.X}); ok {
			if sum, ok := addInts(append(ints, 1)); ok {
				return sum, nil
			}
		}
		f, _ := registry.ToFloat(in.X)
		return number(f+1, allInts([]any{in.X})), nil
	}, registry.WithParams(schema.Schema{"x": schema.Float()}), registry.WithDoc("x + 1."))
}

// integers returns values as int64 when every one of them is an integer.
func integers(values []any) ([]int64, bool) {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		case int32:
			out = append(out, int64(n))
		default:
			return nil, false
		}
	}
	return out, true
}

// addInts sums exactly; ok is false on overflow.
func addInts(values []int64) (int, bool) {
	var sum int64
	for _, v := range values {
		next := sum + v
		if (v > 0 && next < sum) || (v < 0 && next > sum) {
			return 0, false
		}
		sum = next
	}
	return int(sum), true
}

// mulInts multiplies exactly; ok is false on overflow.
func mulInts(values []int64) (int, bool) {
	product := int64(1)
	for _, v := range values {
		if v == 0 {
			return 0, true
		}
		next := product * v
		if next/v != product || (product == -1 && v == math.MinInt64) || (v == -1 && product == math.MinInt64) {
			return 0, false
		}
		product = next
	}
	return int(product), true
}

func allInts(values []any) bool {
	for _, v := range values {
		switch v.(type) {
		case int, int64, int32:
		default:
			return false
		}
	}
	return true
}

// number returns f as an int when the inputs were integers.
func number(f float64, ints bool) any {
	if ints && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}
