// Package values implements the typed blackboard read by transition conditions.
//
// A Store holds named Bool, Integer, Float, String, Other and Trigger values.
// Compiled conditions keep *Value handles, so evaluation never performs a
// name lookup. Trigger values clear themselves when a condition reads them.
package values
