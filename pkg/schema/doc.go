// Package schema declares the parameters a factory accepts.
//
// A Schema maps parameter names to types. The registry validates resolved
// arguments against it before calling the factory, so a document that passes
// `lr: "fast"` to an optimizer fails with an argument mismatch naming the node
// instead of a panic deep inside the factory.
//
//	params := schema.Schema{
//	    "lr":           schema.Float(),
//	    "betas":        schema.Optional(schema.Slice(schema.Float())),
//	    "weight_decay": schema.Optional(schema.Float()),
//	}
//
//	if err := schema.Validate(params, args, true); err != nil {
//	    // err is an *AggregateError listing every failing parameter
//	}
//
// Schemas can also be parsed from type strings ("float", "[int]", "{any}",
// "string?"), which is how the HTTP and MCP adapters describe targets.
package schema
