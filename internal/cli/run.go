package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/hpgraph/internal/presentation/graph"
	"github.com/aretw0/hpgraph/internal/presentation/tui"
	"github.com/aretw0/hpgraph/pkg/domain"
)

// DocumentOptions select a document and the overrides applied to it.
type DocumentOptions struct {
	// Path is a YAML file; "-" reads Stdin.
	Path string
	// Recipe names a document of the recipe catalog.
	Recipe string
	// Overrides are YAML documents merged in order.
	Overrides []string
	// Sets are name=value pairs applied after Overrides.
	Sets []string
}

// RunOptions contains the configuration of the resolve command.
type RunOptions struct {
	DocumentOptions
	Save  bool
	JSON  bool
	Watch bool
}

// ResolveOutput is printed by `resolve --json`.
type ResolveOutput struct {
	Source     string                          `json:"source"`
	Seed       int64                           `json:"seed"`
	Order      []string                        `json:"order"`
	Nodes      map[string]domain.ManifestEntry `json:"nodes"`
	ManifestID string                          `json:"manifest_id,omitempty"`
}

// SetOverrides converts name=value pairs into YAML override documents.
// The value is parsed as YAML, so `lr=0.1` is a float and `dir=/data` a string.
// A dotted name addresses a key inside a mapping node: `model.d_model=128`
// overrides one argument of `model`. List indices are not supported.
func SetOverrides(sets []string) ([]string, error) {
	out := make([]string, 0, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", s)
		}
		if strings.ContainsAny(name, "[]") {
			return nil, fmt.Errorf("invalid --set %q: list indices are not supported, override the whole list", s)
		}
		keys := strings.Split(name, ".")
		var b strings.Builder
		for depth, key := range keys {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("invalid --set %q: empty key in %q", s, name)
			}
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(key)
			b.WriteString(":")
			if depth < len(keys)-1 {
				b.WriteString("\n")
			}
		}
		b.WriteString(" ")
		b.WriteString(value)
		out = append(out, b.String())
	}
	return out, nil
}

// overrides returns Overrides followed by the converted Sets.
func (o DocumentOptions) overrides() ([]string, error) {
	sets, err := SetOverrides(o.Sets)
	if err != nil {
		return nil, err
	}
	return append(append([]string{}, o.Overrides...), sets...), nil
}

// LoadDocument reads and parses the selected document.
func (e *Env) LoadDocument(opts DocumentOptions) (*domain.Document, []string, error) {
	overrides, err := opts.overrides()
	if err != nil {
		return nil, nil, err
	}

	var data []byte
	source := opts.Path
	switch {
	case opts.Path != "" && opts.Recipe != "":
		return nil, nil, fmt.Errorf("use either a file or --recipe, not both")
	case opts.Recipe != "":
		data, err = e.Recipes.GetDocument(opts.Recipe)
		source = "recipe:" + opts.Recipe
	case opts.Path == "-":
		data, err = io.ReadAll(os.Stdin)
		source = "stdin"
	case opts.Path != "":
		data, err = os.ReadFile(opts.Path)
	default:
		return nil, nil, fmt.Errorf("no document given")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := e.Builder.Parse(data, source, overrides...)
	if err != nil {
		return nil, nil, err
	}
	return doc, overrides, nil
}

// Resolve builds the selected document and prints a summary to out.
func (e *Env) Resolve(ctx context.Context, out io.Writer, opts RunOptions) error {
	doc, overrides, err := e.LoadDocument(opts.DocumentOptions)
	if err != nil {
		return err
	}

	g, err := e.Builder.Resolve(ctx, doc)
	if err != nil {
		return err
	}

	var manifestID string
	if opts.Save {
		if e.Store == nil {
			return fmt.Errorf("--save needs a manifest store (store backend is %q)", e.Config.Store.Backend)
		}
		m, err := e.Builder.Record(ctx, doc, g, overrides...)
		if err != nil {
			return err
		}
		manifestID = m.ID
	}

	if opts.JSON {
		nodes, order := domain.Summarize(doc, g)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ResolveOutput{
			Source:     doc.Source,
			Seed:       g.Seed,
			Order:      order,
			Nodes:      nodes,
			ManifestID: manifestID,
		})
	}

	if err := e.render(out, tui.Summary(doc, g)); err != nil {
		return err
	}
	if manifestID != "" {
		PrintSystemMessage(out, "Manifest saved: %s", manifestID)
	}
	return nil
}

// Validate checks the selected document and prints its construction order.
func (e *Env) Validate(out io.Writer, opts DocumentOptions) error {
	doc, _, err := e.LoadDocument(opts)
	if err != nil {
		return err
	}
	order, err := e.Builder.Order(doc)
	if err != nil {
		return err
	}
	PrintSystemMessage(out, "%s is valid: %d nodes", doc.Source, len(order))
	fmt.Fprintln(out, strings.Join(order, " -> "))
	return nil
}

// Graph prints the Mermaid diagram of the selected document. With build set
// the document is also resolved and the outcome is overlaid.
func (e *Env) Graph(ctx context.Context, out io.Writer, opts DocumentOptions, build bool) error {
	doc, _, err := e.LoadDocument(opts)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if build {
		overlay = &graph.GraphOverlay{}
		g, err := e.Builder.Resolve(ctx, doc)
		if err != nil {
			var be *domain.BuildError
			if !errors.As(err, &be) {
				return err
			}
			overlay.FailedNode = be.Node
		} else {
			overlay.BuiltNodes = g.Order()
		}
	}

	_, err = fmt.Fprint(out, graph.GenerateMermaid(doc, overlay))
	return err
}

// Format prints the effective document: the source with overrides applied.
func (e *Env) Format(out io.Writer, opts DocumentOptions) error {
	doc, _, err := e.LoadDocument(opts)
	if err != nil {
		return err
	}
	text, err := e.Builder.Format(doc)
	if err != nil {
		return err
	}
	_, err = out.Write(text)
	return err
}

func (e *Env) render(out io.Writer, markdown string) error {
	if isTerminal(out) {
		rendered, err := tui.NewRenderer()(markdown)
		if err == nil {
			markdown = rendered
		}
	}
	_, err := io.WriteString(out, markdown)
	return err
}
