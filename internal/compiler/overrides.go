package compiler

import "gopkg.in/yaml.v3"

// Merge applies the override mapping src onto dst in place.
//
// Mappings merge recursively (a constructor keeps its tag when an untagged
// mapping overrides some of its arguments), any other node is replaced, and
// keys missing from dst are appended. An untagged scalar that overrides a
// `!seed` node keeps the seed designation.
func Merge(dst, src *yaml.Node) {
	dst, src = resolveAlias(dst), resolveAlias(src)
	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], src.Content[i+1]
		idx := keyIndex(dst, key.Value)
		if idx < 0 {
			dst.Content = append(dst.Content, key, value)
			continue
		}

		cur, val := resolveAlias(dst.Content[idx+1]), resolveAlias(value)
		switch {
		case cur.Kind == yaml.MappingNode && val.Kind == yaml.MappingNode && !isCustomTag(val.Tag):
			merged := clone(cur)
			Merge(merged, val)
			dst.Content[idx+1] = merged
		case cur.Tag == TagSeed && val.Kind == yaml.ScalarNode && !isCustomTag(val.Tag):
			seed := *val
			seed.Tag = TagSeed
			dst.Content[idx+1] = &seed
		default:
			dst.Content[idx+1] = value
		}
	}
}

func keyIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := m.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return i
		}
	}
	return -1
}

// clone deep-copies n so that merging into an anchored node does not leak
// into its aliases.
func clone(n *yaml.Node) *yaml.Node {
	out := *n
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = clone(c)
		}
	}
	return &out
}
