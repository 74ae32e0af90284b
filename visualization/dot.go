// Package visualization renders graph descriptions as Graphviz DOT text.
// The engine itself stops at this textual interface; turning DOT into SVG
// or PNG is an external renderer's job.
package visualization

import (
	"bytes"
	"fmt"

	"github.com/playproof/playproof/playbook"
)

// DOT renders a graph description as a Graphviz digraph. Final states use
// doublecircle, the initial state gets an entry arrow from a point node,
// and edges are labeled with their event plus guard when present.
func DOT(desc *playbook.GraphDescription) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", desc.MachineID)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle fontname=\"Helvetica\"];\n")

	for _, n := range desc.Nodes {
		shape := "circle"
		if n.Final {
			shape = "doublecircle"
		}
		label := n.ID
		if n.Description != "" {
			label = n.ID + "\n" + n.Description
		}
		fmt.Fprintf(&buf, "  %q [shape=%s label=%q];\n", n.ID, shape, label)
		if n.Initial {
			buf.WriteString("  \"__start\" [shape=point];\n")
			fmt.Fprintf(&buf, "  \"__start\" -> %q;\n", n.ID)
		}
	}

	for _, e := range desc.Edges {
		label := e.Event
		if e.Guard != "" {
			label += " [" + e.Guard + "]"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}
