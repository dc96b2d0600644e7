/*
Package domain contains the authored model of a hierarchical state machine.

It is kept pure and free of I/O: documents, binary layouts and the fluent
builder all produce these types, and the compiler consumes them.

# Key Entities

  - Layer: a value table plus a composite root node.
  - Node: a title, one State, ordered Transitions and ordered Services.
  - State: tagged union over Leaf (a LeafState behaviour) and Composite
    (an index arena of child nodes with default, any and exit indices).
  - Transition: a guarded edge to a sibling index with weight and exit-time gate.
  - Condition: one term of a guard, folded left to right with And/Or.
  - Event / Listener: synchronous lifecycle notifications.
*/
package domain
