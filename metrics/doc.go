/*
Package metrics provides counters, gauges and histograms reported through
the host runtime.

Emission follows Prometheus-style ergonomics: Inc, Dec and Observe return
no errors, and marshal or host-call failures are dropped. Handles are
nil-safe so optional instrumentation needs no guards at call sites.
*/
package metrics
