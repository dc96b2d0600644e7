/*
Package dsl provides a fluent Go builder for hfsm layers.

It is the programmatic counterpart of YAML/JSON documents: nodes are referenced
by title and the builder resolves titles into the sibling indices the runtime
works with.

Example usage:

	b := dsl.New("locomotion").
		Float("speed", 0).
		Trigger("jump")

	root := b.Root("Root").Default("Idle").Exit("Done")
	root.Leaf("Idle", &states.Base{}).
		Go("Run").Immediate().When("speed", ">", 0.1)
	root.Leaf("Run", &states.Timed{Duration: 0.5, Loop: true}).
		Go("Idle").Immediate().When("speed", "<=", 0.1).
		Go("Done").Immediate().When("jump", "==", true)
	root.Empty("Done")

	layer, err := b.Build()
*/
package dsl
