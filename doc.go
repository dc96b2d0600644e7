/*
Package hfsm is a hierarchical finite-state-machine runtime for tick driven
hosts such as games, simulations and control loops.

A layer is authored once (with pkg/dsl, a YAML/JSON document or the binary
layout of pkg/persist), compiled into a live tree and advanced one discrete
tick at a time. Each tick decides which leaf is active, when to switch and
when periodic services fire.

# Concept

A layer is a root composite state. Composites hold an ordered list of
child nodes and up to three distinguished children:

  - Default: the child activated when the composite starts.
  - Any: a child whose transitions are checked whatever child is active.
  - Exit: a child that, once active, completes the composite.

Transitions link siblings. They carry a chain of conditions over named
values folded left to right with AND/OR, a weight (the strictly heaviest
satisfied transition wins) and an optional exit time that waits for the
source state to reach a completion ratio.

# Usage

	b := dsl.New("locomotion").Float("speed", 0).Trigger("jump")
	root := b.Root("Root").Default("Idle")
	root.Leaf("Idle", &states.Base{}).Go("Run").Immediate().When("speed", ">", 0.1)
	root.Leaf("Run", &states.Timed{Duration: 0.5, Loop: true}).Go("Idle").Immediate().When("speed", "<=", 0.1)
	layer, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	anim, err := hfsm.New(layer, hfsm.WithLogger(slog.Default()))
	if err != nil {
		log.Fatal(err)
	}
	anim.Start()
	anim.SetFloat("speed", 1)
	anim.Update(1.0 / 60)
	fmt.Println(anim.ActivePath()) // [Run]

Hosts without their own frame loop can use Loop, which ticks from a wall
clock and can autosave snapshots to a ports.SnapshotStore.
*/
package hfsm
