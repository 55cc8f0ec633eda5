// Package graph renders finalized plans as Mermaid flowcharts for quick
// visual inspection of pipeline wiring.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/facewire/facewire/pkg/graph"
)

// GenerateMermaid produces Mermaid flowchart syntax (graph TD) from a plan.
// Shapes carry semantics:
//   - graph inputs: ((circle))
//   - embedded subgraphs: [[subroutine]]
//   - graph outputs: [/parallelogram/]
//   - stages: [rectangle]
//
// Edges are labeled with the consuming port tag.
func GenerateMermaid(p *graph.Plan) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, in := range p.Inputs {
		id := inputID(in.Tag)
		label := in.Tag
		if in.Optional {
			label += "?"
		}
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", id, label))
	}

	for _, n := range p.Nodes {
		safeID := sanitizeMermaidID(n.ID)
		opener, closer := "[", "]"
		if n.Graph != nil {
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, n.ID, closer))

		for _, tag := range sortedTags(n.Inputs) {
			srcID, ok := refID(n.Inputs[tag])
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", srcID, tag, safeID))
		}
	}

	for _, out := range p.Outputs {
		id := outputID(out.Tag)
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, out.Tag))
		if srcID, ok := refID(out.From); ok {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", srcID, id))
		}
	}

	return sb.String()
}

func sortedTags(inputs map[string]string) []string {
	tags := make([]string, 0, len(inputs))
	for tag := range inputs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// refID maps a source reference to the Mermaid id of its producer.
func refID(ref string) (string, bool) {
	node, tag, found := strings.Cut(ref, ":")
	if !found {
		return "", false
	}
	if node == "graph" {
		return inputID(tag), true
	}
	return sanitizeMermaidID(node), true
}

func inputID(tag string) string {
	return "in_" + sanitizeMermaidID(tag)
}

func outputID(tag string) string {
	return "out_" + sanitizeMermaidID(tag)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
