package hfsm_test

import (
	"fmt"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/states"
)

func Example() {
	b := dsl.New("locomotion").Float("speed", 0)
	root := b.Root("Root").Default("Idle")
	root.Leaf("Idle", &states.Base{}).Go("Run").Immediate().When("speed", ">", 0.1)
	root.Leaf("Run", &states.Timed{Duration: 0.5, Loop: true}).Go("Idle").Immediate().When("speed", "<=", 0.1)
	layer, err := b.Build()
	if err != nil {
		panic(err)
	}

	anim, err := hfsm.New(layer)
	if err != nil {
		panic(err)
	}
	anim.Start()
	fmt.Println(anim.ActivePath())

	_ = anim.SetFloat("speed", 1)
	anim.Update(1.0 / 60)
	fmt.Println(anim.ActivePath())

	_ = anim.SetFloat("speed", 0)
	anim.Update(1.0 / 60)
	fmt.Println(anim.Current())
	// Output:
	// [Idle]
	// [Run]
	// Idle
}

func ExampleAnimator_Play() {
	b := dsl.New("combat")
	root := b.Root("Root").Default("Guard")
	root.Leaf("Guard", states.Running())
	attack := root.Group("Attack").Default("Windup")
	attack.Leaf("Windup", states.Running())
	attack.Leaf("Strike", states.Running())
	layer, _ := b.Build()

	anim, _ := hfsm.New(layer)
	anim.Start()
	anim.Play("Attack/Strike")
	fmt.Println(anim.ActivePath())
	// Output: [Attack Strike]
}
