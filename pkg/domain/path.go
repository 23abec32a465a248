package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one level of descent into a value: a field name or a list index.
type Step struct {
	Field   string
	Index   int
	IsIndex bool
}

// Path addresses a node, or a value nested inside a node.
type Path struct {
	Root  string
	Steps []Step
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Root)
	for _, s := range p.Steps {
		if s.IsIndex {
			sb.WriteString("[" + strconv.Itoa(s.Index) + "]")
		} else {
			sb.WriteString("." + s.Field)
		}
	}
	return sb.String()
}

// ParsePath parses `name`, `name.field`, `name[0]` and `name[key]`.
func ParsePath(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Path{}, fmt.Errorf("empty reference")
	}

	end := strings.IndexAny(raw, ".[")
	if end == -1 {
		return Path{Root: raw}, nil
	}
	if end == 0 {
		return Path{}, fmt.Errorf("reference %q has no node name", raw)
	}

	p := Path{Root: raw[:end]}
	rest := raw[end:]
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			n := strings.IndexAny(rest, ".[")
			if n == -1 {
				n = len(rest)
			}
			if n == 0 {
				return Path{}, fmt.Errorf("reference %q has an empty field", raw)
			}
			p.Steps = append(p.Steps, Step{Field: rest[:n]})
			rest = rest[n:]
		case '[':
			closing := strings.IndexByte(rest, ']')
			if closing <= 1 {
				return Path{}, fmt.Errorf("reference %q has a malformed index", raw)
			}
			key := strings.TrimSpace(rest[1:closing])
			if i, err := strconv.Atoi(key); err == nil {
				p.Steps = append(p.Steps, Step{Index: i, IsIndex: true})
			} else {
				p.Steps = append(p.Steps, Step{Field: strings.Trim(key, `"'`)})
			}
			rest = rest[closing+1:]
		default:
			return Path{}, fmt.Errorf("reference %q has unexpected %q", raw, rest[0])
		}
	}
	return p, nil
}

// Fielder is implemented by constructed objects that expose named fields to
// dotted references.
type Fielder interface {
	Field(name string) (any, bool)
}

// Traverse descends into value following steps. Maps, slices and Fielder
// implementations are supported.
func Traverse(value any, steps []Step) (any, error) {
	cur := value
	for _, s := range steps {
		next, err := step(cur, s)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func step(value any, s Step) (any, error) {
	if s.IsIndex {
		switch v := value.(type) {
		case []any:
			if s.Index < 0 || s.Index >= len(v) {
				return nil, fmt.Errorf("index %d out of range (len %d)", s.Index, len(v))
			}
			return v[s.Index], nil
		case map[string]any:
			if out, ok := v[strconv.Itoa(s.Index)]; ok {
				return out, nil
			}
			return nil, fmt.Errorf("key %d not found", s.Index)
		case Fielder:
			if out, ok := v.Field(strconv.Itoa(s.Index)); ok {
				return out, nil
			}
			return nil, fmt.Errorf("index %d not found on %T", s.Index, value)
		}
		return nil, fmt.Errorf("cannot index %T", value)
	}

	switch v := value.(type) {
	case map[string]any:
		if out, ok := v[s.Field]; ok {
			return out, nil
		}
		return nil, fmt.Errorf("key %q not found", s.Field)
	case Fielder:
		if out, ok := v.Field(s.Field); ok {
			return out, nil
		}
		return nil, fmt.Errorf("field %q not found on %T", s.Field, value)
	}
	return nil, fmt.Errorf("cannot access field %q on %T", s.Field, value)
}
