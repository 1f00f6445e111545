// Package metrics counts validator verdicts with Prometheus collectors.
//
// Hooks are short-lived processes, so nothing is served over HTTP. Instead
// [Recorder.WriteTextfile] writes the registry in the text exposition format
// for node_exporter's textfile collector.
package metrics
