package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/hfsm/pkg/domain"
)

// Overlay highlights live state on the chart. Paths are slash separated
// titles below the root, as returned by runtime.Tree.ActivePath joined.
type Overlay struct {
	Active  []string
	Current string
}

// GenerateMermaid renders layer as a Mermaid flowchart. Composites become
// subgraphs and their children are drawn with semantic shapes:
//   - Default child: ([Stadium])
//   - Exit child: (((Double circle)))
//   - Any node: {{Hexagon}}
//   - Inert node: (Rounded)
//   - Leaf: [Rectangle]
//
// Transitions out of the any node are dotted. Labels carry the guard, the
// exit time gate and non-unit weights.
func GenerateMermaid(layer *domain.Layer, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if comp := layer.Composite(); comp != nil {
		writeGroup(&sb, layer, comp, 1)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef active fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, p := range overlay.Active {
			id := nodeID(p)
			if p == "" || seen[id] || p == overlay.Current {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s active;\n", id)
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}
	return sb.String()
}

func writeGroup(sb *strings.Builder, layer *domain.Layer, c *domain.CompositeState, depth int) {
	indent := strings.Repeat("    ", depth)
	for i, n := range c.Nodes {
		if n == nil {
			continue
		}
		id := nodeID(n.Path())
		if n.IsComposite() {
			fmt.Fprintf(sb, "%ssubgraph %s[%s]\n", indent, id, quote(n.Title))
			writeGroup(sb, layer, n.State.Composite, depth+1)
			fmt.Fprintf(sb, "%send\n", indent)
			continue
		}

		opener, closer := "[", "]"
		switch {
		case i == c.DefaultIndex:
			opener, closer = "([", "])"
		case i == c.ExitIndex:
			opener, closer = "(((", ")))"
		case i == c.AnyIndex:
			opener, closer = "{{", "}}"
		case n.State.Kind == domain.KindNone:
			opener, closer = "(", ")"
		}
		fmt.Fprintf(sb, "%s%s%s%s%s\n", indent, id, opener, quote(n.Title), closer)
	}

	for i, n := range c.Nodes {
		if n == nil {
			continue
		}
		from := nodeID(n.Path())
		for _, t := range n.Transitions {
			if t.Target < 0 || t.Target >= len(c.Nodes) || c.Nodes[t.Target] == nil {
				continue
			}
			to := nodeID(c.Nodes[t.Target].Path())
			label := Label(layer, t)
			dotted := i == c.AnyIndex
			switch {
			case label == "" && dotted:
				fmt.Fprintf(sb, "%s%s -.-> %s\n", indent, from, to)
			case label == "":
				fmt.Fprintf(sb, "%s%s --> %s\n", indent, from, to)
			case dotted:
				fmt.Fprintf(sb, "%s%s -. %s .-> %s\n", indent, from, quote(label), to)
			default:
				fmt.Fprintf(sb, "%s%s -- %s --> %s\n", indent, from, quote(label), to)
			}
		}
	}
}

// Label summarizes a transition: its guard, the exit time gate when it is
// partial and the weight when it differs from 1.
func Label(layer *domain.Layer, t domain.Transition) string {
	var parts []string
	if guard := t.Guard(layer); guard != "" {
		parts = append(parts, guard)
	}
	if t.HasExitTime && t.ExitTime < 1 {
		parts = append(parts, "@"+strconv.FormatFloat(t.ExitTime, 'g', -1, 64))
	}
	if t.Weight != 1 {
		parts = append(parts, "w="+strconv.FormatFloat(t.Weight, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}

// nodeID prefixes every id so that titles such as "end" never collide
// with Mermaid keywords.
func nodeID(path string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "__", "\\", "_", " ", "_")
	return "n_" + r.Replace(path)
}
