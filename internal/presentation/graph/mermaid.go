package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// GraphOverlay contains build results to visualize on the graph.
type GraphOverlay struct {
	BuiltNodes []string
	FailedNode string
}

// GenerateMermaid produces a Mermaid flowchart of a document's dependency graph.
// Edges point from a node to the nodes that reference it. It applies semantic styling:
// - Seed: ((Circle))
// - Constructor: [[Subroutine]]
// - Function (deferred): [/Parallelogram/]
// - Placeholder: {{Hexagon}}
// - Default: [Rectangle]
// Copies are drawn as dotted edges.
func GenerateMermaid(doc *domain.Document, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range doc.Names() {
		spec, _ := doc.Node(name)
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		label := name
		switch s := spec.(type) {
		case domain.Constructor:
			opener, closer = "[[", "]]"
			label = fmt.Sprintf("%s <br/> %s", name, s.Target)
		case domain.FunctionRef:
			opener, closer = "[/", "/]"
			label = fmt.Sprintf("%s <br/> %s", name, s.Target)
		case domain.Placeholder:
			opener, closer = "{{", "}}"
		}
		if name == doc.SeedNode() {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	for _, name := range doc.Names() {
		spec, _ := doc.Node(name)
		copies := copyRoots(spec)
		for _, dep := range domain.Dependencies(spec) {
			arrow := "-->"
			if copies[dep] {
				arrow = "-. copy .->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(dep), arrow, sanitizeMermaidID(name)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef built fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.BuiltNodes {
			safeID := sanitizeMermaidID(name)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s built;\n", safeID))
			}
		}

		if overlay.FailedNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s failed;\n", sanitizeMermaidID(overlay.FailedNode)))
		}
	}

	return sb.String()
}

// copyRoots returns the nodes spec reaches only through `!copy`.
func copyRoots(spec domain.Spec) map[string]bool {
	copies := make(map[string]bool)
	refs := make(map[string]bool)
	domain.Walk(spec, func(s domain.Spec) bool {
		switch v := s.(type) {
		case domain.Copy:
			copies[v.Path.Root] = true
		case domain.Reference:
			refs[v.Path.Root] = true
		case domain.Template:
			for _, p := range v.Parts {
				if p.Ref != nil {
					refs[p.Ref.Root] = true
				}
			}
		}
		return true
	})
	for name := range refs {
		delete(copies, name)
	}
	return copies
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
