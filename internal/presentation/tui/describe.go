package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/hfsm/internal/presentation/graph"
	"github.com/aretw0/hfsm/pkg/domain"
)

// Describe renders layer as markdown: the value table followed by one
// section per composite listing its children and their transitions.
func Describe(layer *domain.Layer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", orDash(layer.Name))

	if len(layer.Values) > 0 {
		sb.WriteString("## Values\n\n| Name | Type | Default |\n|---|---|---|\n")
		for _, v := range layer.Values {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", v.Name, v.Type, defaultOf(v))
		}
		sb.WriteString("\n")
	}

	if layer.Root != nil && layer.Root.IsComposite() {
		describeGroup(&sb, layer, layer.Root, 2)
	}
	return sb.String()
}

func describeGroup(sb *strings.Builder, layer *domain.Layer, n *domain.Node, level int) {
	c := n.State.Composite
	title := n.Title
	if n.Parent() != nil {
		title = n.Path()
	}
	fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", min(level, 6)), title)

	for i, child := range c.Nodes {
		if child == nil {
			continue
		}
		fmt.Fprintf(sb, "- **%s**%s\n", child.Title, roles(c, i, child))
		for _, s := range child.Services {
			fmt.Fprintf(sb, "  - service `%s` at %d Hz\n", tagOf(s), s.TicksPerSecond())
		}
		for _, t := range child.Transitions {
			target := strconv.Itoa(t.Target)
			if t.Target >= 0 && t.Target < len(c.Nodes) && c.Nodes[t.Target] != nil {
				target = c.Nodes[t.Target].Title
			}
			line := "  - → " + target
			if t.Name != "" {
				line += " (" + t.Name + ")"
			}
			if label := graph.Label(layer, t); label != "" {
				line += ": `" + label + "`"
			}
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString("\n")

	for _, child := range c.Nodes {
		if child != nil && child.IsComposite() {
			describeGroup(sb, layer, child, level+1)
		}
	}
}

func roles(c *domain.CompositeState, i int, n *domain.Node) string {
	var tags []string
	switch n.State.Kind {
	case domain.KindComposite:
		tags = append(tags, "group")
	case domain.KindLeaf:
		tags = append(tags, tagOf(n.State.Leaf))
	}
	if i == c.DefaultIndex {
		tags = append(tags, "default")
	}
	if i == c.AnyIndex {
		tags = append(tags, "any")
	}
	if i == c.ExitIndex {
		tags = append(tags, "exit")
	}
	if len(tags) == 0 {
		return ""
	}
	return " _" + strings.Join(tags, ", ") + "_"
}

func tagOf(v any) string {
	if t, ok := v.(domain.Typed); ok {
		return t.TypeTag()
	}
	return fmt.Sprintf("%T", v)
}

func defaultOf(v domain.ValueDef) string {
	switch v.Type {
	case domain.ValueBool, domain.ValueTrigger:
		return strconv.FormatBool(v.Bool)
	case domain.ValueInteger:
		return strconv.Itoa(v.Int)
	case domain.ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return strconv.Quote(v.String)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
