// Package metric provides Prometheus metrics for SolBox.
//
//   - prometheus.go: instruction, error and message-size metrics
//   - collector.go: region store gauges read on every scrape
//   - snapshot.go: flattening a registry for the CLI
//
// Each Registry owns a private prometheus.Registry so several runtimes
// (and tests) can coexist in one process.
package metric
