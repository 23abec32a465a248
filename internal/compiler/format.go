package compiler

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/hpgraph/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format renders doc back to tagged YAML. Parsing the output yields an
// equivalent document; anchors are not restored.
func Format(doc *domain.Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range doc.Names() {
		spec, _ := doc.Node(name)
		var (
			value *yaml.Node
			err   error
		)
		if name == doc.SeedNode() {
			value, err = seedNode(spec)
		} else {
			value, err = encodeSpec(spec)
		}
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		root.Content = append(root.Content, scalar("!!str", name), value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func seedNode(spec domain.Spec) (*yaml.Node, error) {
	lit, ok := spec.(domain.Literal)
	if !ok {
		return nil, fmt.Errorf("seed node is not a literal")
	}
	return scalar(TagSeed, fmt.Sprint(lit.Value)), nil
}

func encodeSpec(spec domain.Spec) (*yaml.Node, error) {
	switch s := spec.(type) {
	case domain.Literal:
		if f, ok := s.Value.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			// keep whole floats from reading back as ints
			return scalar("!!float", strconv.FormatFloat(f, 'f', 1, 64)), nil
		}
		n := &yaml.Node{}
		if err := n.Encode(s.Value); err != nil {
			return nil, err
		}
		return n, nil
	case domain.Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range s.Items {
			child, err := encodeSpec(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case *domain.Mapping:
		return encodeMapping(s, "!!map")
	case domain.Mapping:
		return encodeMapping(&s, "!!map")
	case domain.Reference:
		return scalar(TagRef, "<"+s.Path.String()+">"), nil
	case domain.Template:
		return scalar(TagRef, s.Raw), nil
	case domain.Copy:
		return scalar(TagCopy, "<"+s.Path.String()+">"), nil
	case domain.Placeholder:
		return scalar(TagPlaceholder, ""), nil
	case domain.Constructor:
		tag := TagNew + s.Target
		if s.Apply {
			tag = TagApply + s.Target
		}
		return encodeCall(tag, s.Positional, s.Named)
	case domain.FunctionRef:
		return encodeCall(TagName+s.Target, s.Positional, s.Named)
	default:
		return nil, fmt.Errorf("cannot format %T", spec)
	}
}

func encodeCall(tag string, positional []domain.Spec, named *domain.Mapping) (*yaml.Node, error) {
	switch {
	case len(positional) > 0 && named.Len() > 0:
		return nil, fmt.Errorf("%s: cannot format both positional and named arguments", tag)
	case len(positional) > 0:
		n, err := encodeSpec(domain.Sequence{Items: positional})
		if err != nil {
			return nil, err
		}
		n.Tag = tag
		return n, nil
	case named.Len() > 0:
		return encodeMapping(named, tag)
	default:
		return scalar(tag, ""), nil
	}
}

func encodeMapping(m *domain.Mapping, tag string) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: tag}
	for _, k := range m.Keys {
		child, err := encodeSpec(m.Values[k])
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, scalar("!!str", k), child)
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
