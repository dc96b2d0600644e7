package runtime

import "github.com/aretw0/hfsm/pkg/domain"

// Group holds the children of a composite node in an index arena. At most
// one child is active; changeState is the only place that mutates it.
type Group struct {
	Children []*Node
	Default  int
	Any      int
	Exit     int
	active   int
}

func newGroup(c *domain.CompositeState) *Group {
	return &Group{
		Children: make([]*Node, 0, len(c.Nodes)),
		Default:  c.DefaultIndex,
		Any:      c.AnyIndex,
		Exit:     c.ExitIndex,
		active:   domain.NoIndex,
	}
}

// Active returns the index of the active child or domain.NoIndex.
func (g *Group) Active() int { return g.active }

// ActiveNode returns the active child, nil when none.
func (g *Group) ActiveNode() *Node { return g.child(g.active) }

func (g *Group) child(i int) *Node {
	if i < 0 || i >= len(g.Children) {
		return nil
	}
	return g.Children[i]
}

// finishedAt reports whether a switch landing on index i completes the group.
func (g *Group) finishedAt(i int) domain.Response {
	if i == domain.NoIndex || g.child(i) == nil || i == g.Exit {
		return domain.Finished
	}
	return domain.Running
}

// startGroup activates the group. With a route, the first index replaces
// the default child and the remainder is passed down.
func (n *Node) startGroup(route []int) {
	n.running = true
	n.tree.emit(domain.Event{Type: domain.EventGroupStarted, Node: n.def, Path: n.path})
	n.startServices(false)

	g := n.group
	target := g.Default
	if len(route) > 0 {
		target = route[0]
		route = route[1:]
	}
	if g.child(target) == nil {
		return
	}
	n.changeState(target, route)
	n.updateGroup(0)
}

func (n *Node) updateGroup(dt float64) domain.Response {
	g := n.group

	if g.Exit != domain.NoIndex && g.active == g.Exit {
		n.changeState(domain.NoIndex, nil)
		return domain.Finished
	}

	if anyNode := g.child(g.Any); anyNode != nil {
		if i := anyNode.evaluate(false); i >= 0 {
			return n.switchTo(anyNode, i)
		}
	}

	active := g.ActiveNode()
	if active == nil {
		return domain.Finished
	}

	if i := active.evaluate(false); i >= 0 {
		return n.switchTo(active, i)
	}
	if active.update(dt) == domain.Finished {
		if i := active.evaluate(true); i >= 0 {
			return n.switchTo(active, i)
		}
	}

	return n.tickServices(dt)
}

// switchTo follows transition i of from, which belongs to n's group.
func (n *Node) switchTo(from *Node, i int) domain.Response {
	t := &from.transitions[i]
	prev := n.group.ActiveNode()
	n.changeState(t.Target, nil)

	e := domain.Event{Type: domain.EventTransition, From: from.path}
	if prev != nil {
		e.From = prev.path
	}
	if next := n.group.ActiveNode(); next != nil {
		e.Node, e.Path, e.State = next.def, next.path, next.leaf()
	}
	n.tree.emit(e)
	return n.group.finishedAt(n.group.active)
}

// changeState ends the active child, if any, and starts the child at index
// target. The route is handed to a group child as its start route.
func (n *Node) changeState(target int, route []int) {
	g := n.group
	if prev := g.ActiveNode(); prev != nil {
		prev.end()
	}
	next := g.child(target)
	if next == nil {
		g.active = domain.NoIndex
		return
	}
	g.active = target
	if next.group != nil {
		next.startGroup(route)
	} else {
		next.start()
	}
	n.tree.setCurrent(next)
}

func (n *Node) endGroup() {
	n.endServices()
	if active := n.group.ActiveNode(); active != nil {
		active.end()
	}
	n.group.active = domain.NoIndex
	n.running = false
	n.tree.emit(domain.Event{Type: domain.EventGroupEnded, Node: n.def, Path: n.path})
}
