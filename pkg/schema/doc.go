// Package schema reads and writes layers as YAML or JSON documents.
//
// A document names its values, then nests nodes under a root group. Groups
// list their children and name the default, any and exit child by title;
// transitions name their sibling target by title too:
//
//	name: locomotion
//	values:
//	  - {name: speed, type: float, default: 0}
//	  - {name: jump, type: trigger}
//	root:
//	  title: Root
//	  default: Idle
//	  exit: Done
//	  nodes:
//	    - title: Idle
//	      state: {type: State}
//	      transitions:
//	        - to: Run
//	          immediate: true
//	          when:
//	            - {value: speed, op: ">", const: 0.1}
//	    - title: Run
//	      state: {type: TimedState, duration: 0.5, loop: true}
//	      services:
//	        - {type: Timeout, min: 2, max: 4}
//	      transitions:
//	        - to: Done
//	    - title: Done
//
// State and service parameters are decoded with mapstructure into the
// instance built by the Registry for their type tag. Problems are collected
// and returned together as an *AggregateError of *ValidationError.
package schema
