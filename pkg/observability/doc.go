/*
Package observability turns runtime lifecycle events into Prometheus
metrics and structured log lines.

Both Metrics and LogListener implement domain.Listener and are attached
with hfsm.WithListeners. They run synchronously inside the tick that
emitted the event, so they must stay cheap.
*/
package observability
