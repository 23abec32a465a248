package schema

import "sort"

// Schema maps parameter names to their expected types.
// Example: {"lr": Float(), "betas": Optional(Slice(Float()))}
type Schema map[string]Type

// Names returns the parameter names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks that args conform to the schema. Every non-optional
// parameter must be present. When strict is set, arguments that the schema
// does not declare are rejected as well.
func Validate(schema Schema, args map[string]any, strict bool) error {
	if schema == nil {
		return nil
	}

	var errs []error
	for _, name := range schema.Names() {
		typ := schema[name]
		value, exists := args[name]
		if !exists {
			if _, optional := typ.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	if strict {
		extra := make([]string, 0)
		for name := range args {
			if _, declared := schema[name]; !declared {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			errs = append(errs, &ValidationError{Key: name, Reason: "unknown parameter", Value: args[name]})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidatePresent validates only the arguments that are present. The
// resolver uses it before construction, when references are still unbuilt.
func ValidatePresent(schema Schema, args map[string]any) error {
	var errs []error
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		typ, ok := schema[name]
		if !ok {
			continue
		}
		if err := typ.Validate(args[name]); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: args[name]})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
