package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// maxCell bounds the width of the value column.
const maxCell = 48

// Summary renders a resolved graph as a markdown report.
func Summary(doc *domain.Document, g *domain.Graph) string {
	entries, order := domain.Summarize(doc, g)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Source)
	fmt.Fprintf(&sb, "**seed** `%d` · **nodes** %d\n\n", g.Seed, len(order))
	sb.WriteString("| # | node | spec | target | type | value |\n")
	sb.WriteString("|---|------|------|--------|------|-------|\n")
	for i, name := range order {
		e := entries[name]
		value := ""
		if e.Value != nil {
			value = cell(fmt.Sprint(e.Value))
		}
		fmt.Fprintf(&sb, "| %d | `%s` | %s | %s | `%s` | %s |\n", i+1, name, e.Spec, e.Target, e.Type, value)
	}
	return sb.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > maxCell {
		s = s[:maxCell-3] + "..."
	}
	return s
}
