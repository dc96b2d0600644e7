// Package states provides the built-in leaf behaviours of a layer.
//
// Every persistable state carries a type tag (see Defaults) and a binary
// payload codec used by package persist. Func is the escape hatch for host
// code that wants to drive a node from plain closures.
package states
