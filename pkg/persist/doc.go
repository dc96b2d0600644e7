/*
Package persist reads and writes the order-sensitive binary layout of a layer.

The layout uses the primitives of .NET's BinaryWriter (little-endian, 7-bit
length-prefixed strings, single precision floats, 32-bit ints, one-byte bools)
so that graphs exported by existing tooling stay readable:

	layer   := name, valueCount, value*, node
	value   := name, type, constant
	node    := title, rect(4 x float32), stateTag, statePayload, transitionCount, transition*
	state   := "" | "ComposedState" name any default exit nodeCount node* | <tag> <leaf payload>
	transition := name, weight, hasExitTime, targetIndex, conditionCount, condition*
	condition  := valueName, operation, combinator, constant

Transition exit times and services are not part of the layout; decoded
transitions get an exit time of 1.
*/
package persist
