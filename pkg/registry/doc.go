// Package registry maps target identifiers to factories.
//
// The registry is supplied by the host application; the builder only reads
// it. A factory receives a Call (context, node name, seeded random source,
// logger) and the resolved Args:
//
//	reg := registry.NewRegistry()
//	reg.Register("math.add_one", func(call *registry.Call, args registry.Args) (any, error) {
//	    var in struct {
//	        X int `hp:"x"`
//	    }
//	    if err := args.Decode(&in); err != nil {
//	        return nil, err
//	    }
//	    return in.X + 1, nil
//	})
//
// Factories registered with AsLazy produce a *Partial when referenced with
// `!new:`; every `!name:` node produces one regardless of mode.
package registry
