package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Tags understood by the parser. Constructor tags carry the target after the colon.
const (
	TagNew         = "!new:"
	TagApply       = "!apply:"
	TagName        = "!name:"
	TagRef         = "!ref"
	TagCopy        = "!copy"
	TagPlaceholder = "!PLACEHOLDER"
	TagSeed        = "!seed"
)

const maxAliasDepth = 64

// Alias expansion budget: a document may compile at most aliasRatio times its
// own node count plus minExpansion nodes.
const (
	aliasRatio   = 10
	minExpansion = 10000
)

var refPattern = regexp.MustCompile(`<([^<>]+)>`)

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// Parser converts YAML hyperparameter documents into domain documents.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data, merges the overrides over it in order and compiles the
// result. Every failure is a *domain.BuildError of kind domain.ErrParse.
func (p *Parser) Parse(data []byte, source string, overrides ...string) (*domain.Document, error) {
	root, err := decodeMapping(data)
	if err != nil {
		return nil, err
	}
	for i, raw := range overrides {
		ov, err := decodeMapping([]byte(raw))
		if err != nil {
			var be *domain.BuildError
			if errors.As(err, &be) {
				be.Cause = fmt.Sprintf("override %d: %s", i+1, be.Cause)
			}
			return nil, err
		}
		Merge(root, ov)
	}

	c := &compilation{doc: domain.NewDocument(source), budget: aliasRatio*countNodes(root) + minExpansion}
	if err := c.document(root); err != nil {
		return nil, err
	}
	return c.doc, nil
}

// decodeMapping parses YAML into its root mapping node. Empty input yields an
// empty mapping so that blank override snippets are harmless.
func decodeMapping(data []byte) (*yaml.Node, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		be := &domain.BuildError{Kind: domain.ErrParse, Cause: strings.TrimPrefix(err.Error(), "yaml: "), Err: err}
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			be.Line, _ = strconv.Atoi(m[1])
		}
		return nil, be
	}
	if n.Kind == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	root := &n
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "", "document root must be a mapping of node names")
	}
	return root, nil
}

type compilation struct {
	doc        *domain.Document
	aliasDepth int
	expanded   int
	budget     int
}

// countNodes counts the nodes written in the document, without following
// aliases.
func countNodes(n *yaml.Node) int {
	total := 1
	for _, child := range n.Content {
		total += countNodes(child)
	}
	return total
}

func (c *compilation) document(root *yaml.Node) error {
	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nodeError(key, "", "node names must be non-empty strings")
		}
		name := key.Value
		if seen[name] {
			return nodeError(key, name, "duplicate node name")
		}
		seen[name] = true

		if resolveAlias(value).Tag == TagSeed {
			spec, err := c.seed(resolveAlias(value), name)
			if err != nil {
				return err
			}
			c.doc.Set(name, spec)
			continue
		}

		spec, err := c.compile(value, name)
		if err != nil {
			return err
		}
		c.doc.Set(name, spec)
	}
	return nil
}

func (c *compilation) seed(n *yaml.Node, name string) (domain.Spec, error) {
	if prev := c.doc.SeedNode(); prev != "" {
		return nil, nodeError(n, name, "more than one seed node (already %q)", prev)
	}
	if n.Kind != yaml.ScalarNode {
		return nil, nodeError(n, name, "seed must be an integer")
	}
	v, err := strconv.ParseInt(strings.TrimSpace(n.Value), 0, 64)
	if err != nil {
		return nil, nodeError(n, name, "seed must be an integer, got %q", n.Value)
	}
	c.doc.SetSeedNode(name)
	return domain.Literal{Value: int(v)}, nil
}

func (c *compilation) compile(n *yaml.Node, name string) (domain.Spec, error) {
	c.expanded++
	if c.expanded > c.budget {
		return nil, nodeError(n, name, "document expands too much through aliases")
	}
	if n.Kind == yaml.AliasNode {
		if c.aliasDepth >= maxAliasDepth {
			return nil, nodeError(n, name, "alias nesting too deep")
		}
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.compile(n.Alias, name)
	}

	tag := n.Tag
	if !isCustomTag(tag) {
		return c.plain(n, name)
	}

	switch {
	case strings.HasPrefix(tag, TagNew), strings.HasPrefix(tag, TagApply):
		target := tag[strings.IndexByte(tag, ':')+1:]
		pos, named, err := c.arguments(n, name, target)
		if err != nil {
			return nil, err
		}
		return domain.Constructor{Target: target, Positional: pos, Named: named, Apply: strings.HasPrefix(tag, TagApply)}, nil
	case strings.HasPrefix(tag, TagName):
		target := strings.TrimPrefix(tag, TagName)
		pos, named, err := c.arguments(n, name, target)
		if err != nil {
			return nil, err
		}
		return domain.FunctionRef{Target: target, Positional: pos, Named: named}, nil
	case tag == TagRef:
		return c.ref(n, name)
	case tag == TagCopy:
		if n.Kind != yaml.ScalarNode {
			return nil, nodeError(n, name, "!copy expects <name>")
		}
		path, err := wholeRef(n.Value)
		if err != nil {
			return nil, nodeError(n, name, "!copy: %v", err)
		}
		return domain.Copy{Path: path}, nil
	case tag == TagPlaceholder:
		return domain.Placeholder{}, nil
	case tag == TagSeed:
		return nil, nodeError(n, name, "!seed is only allowed on top-level nodes")
	default:
		return nil, nodeError(n, name, "unknown tag %s", tag)
	}
}

func (c *compilation) plain(n *yaml.Node, name string) (domain.Spec, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, nodeError(n, name, "%v", err)
		}
		return domain.Literal{Value: v}, nil
	case yaml.SequenceNode:
		items, err := c.sequence(n, name)
		if err != nil {
			return nil, err
		}
		return domain.Sequence{Items: items}, nil
	case yaml.MappingNode:
		return c.mapping(n, name)
	default:
		return nil, nodeError(n, name, "unsupported YAML node")
	}
}

func (c *compilation) sequence(n *yaml.Node, name string) ([]domain.Spec, error) {
	items := make([]domain.Spec, 0, len(n.Content))
	for _, item := range n.Content {
		spec, err := c.compile(item, name)
		if err != nil {
			return nil, err
		}
		items = append(items, spec)
	}
	return items, nil
}

// mapping compiles a mapping node. Keys inherited through `<<` merge keys
// never replace keys written explicitly.
func (c *compilation) mapping(n *yaml.Node, name string) (*domain.Mapping, error) {
	out := domain.NewMapping()
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" {
			merges = append(merges, value)
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return nil, nodeError(key, name, "mapping keys must be scalars")
		}
		if _, dup := out.Values[key.Value]; dup {
			return nil, nodeError(key, name, "duplicate key %q", key.Value)
		}
		spec, err := c.compile(value, name)
		if err != nil {
			return nil, err
		}
		out.Set(key.Value, spec)
	}

	for _, m := range merges {
		sources := []*yaml.Node{resolveAlias(m)}
		if sources[0].Kind == yaml.SequenceNode {
			sources = sources[0].Content
		}
		for _, src := range sources {
			inherited, err := c.compile(src, name)
			if err != nil {
				return nil, err
			}
			im, ok := inherited.(*domain.Mapping)
			if !ok {
				return nil, nodeError(src, name, "merge key expects a mapping")
			}
			for _, k := range im.Keys {
				if _, exists := out.Values[k]; !exists {
					out.Set(k, im.Values[k])
				}
			}
		}
	}
	return out, nil
}

func (c *compilation) arguments(n *yaml.Node, name, target string) ([]domain.Spec, *domain.Mapping, error) {
	if target == "" {
		return nil, nil, nodeError(n, name, "constructor tag without a target")
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if strings.TrimSpace(n.Value) != "" {
			return nil, nil, nodeError(n, name, "arguments of %s must be a mapping or a list", target)
		}
		return nil, nil, nil
	case yaml.SequenceNode:
		items, err := c.sequence(n, name)
		return items, nil, err
	case yaml.MappingNode:
		named, err := c.mapping(n, name)
		return nil, named, err
	default:
		return nil, nil, nodeError(n, name, "arguments of %s must be a mapping or a list", target)
	}
}

func (c *compilation) ref(n *yaml.Node, name string) (domain.Spec, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, nodeError(n, name, "!ref expects a scalar")
	}
	spec, err := ParseRef(n.Value)
	if err != nil {
		return nil, nodeError(n, name, "%v", err)
	}
	return spec, nil
}

// ParseRef compiles the text of a `!ref` scalar. A value that is exactly one
// `<path>` is a Reference; anything else is a Template.
func ParseRef(raw string) (domain.Spec, error) {
	if path, err := wholeRef(raw); err == nil {
		return domain.Reference{Path: path}, nil
	}

	matches := refPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("!ref %q contains no <reference>", raw)
	}
	tpl := domain.Template{Raw: raw}
	last := 0
	for _, m := range matches {
		if m[0] > last {
			tpl.Parts = append(tpl.Parts, domain.TemplatePart{Text: raw[last:m[0]]})
		}
		path, err := domain.ParsePath(raw[m[2]:m[3]])
		if err != nil {
			return nil, err
		}
		tpl.Parts = append(tpl.Parts, domain.TemplatePart{Ref: &path})
		last = m[1]
	}
	if last < len(raw) {
		tpl.Parts = append(tpl.Parts, domain.TemplatePart{Text: raw[last:]})
	}
	return tpl, nil
}

// wholeRef parses a value that is exactly one `<path>`.
func wholeRef(raw string) (domain.Path, error) {
	raw = strings.TrimSpace(raw)
	m := refPattern.FindStringSubmatchIndex(raw)
	if m == nil || m[0] != 0 || m[1] != len(raw) {
		return domain.Path{}, fmt.Errorf("expected <name>, got %q", raw)
	}
	return domain.ParsePath(raw[m[2]:m[3]])
}

func isCustomTag(tag string) bool {
	return strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!")
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for i := 0; n.Kind == yaml.AliasNode && n.Alias != nil && i < maxAliasDepth; i++ {
		n = n.Alias
	}
	return n
}

func nodeError(n *yaml.Node, name, format string, args ...any) *domain.BuildError {
	be := domain.NewError(domain.ErrParse, name, format, args...)
	if n != nil {
		be.Line, be.Column = n.Line, n.Column
	}
	return be
}
