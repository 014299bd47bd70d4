// Package logger provides structured logging for SolBox.
//
// It wraps log/slog:
//
//   - logger.go: handler construction and the global level
//   - context.go: context propagation of the logger and call IDs
//   - redact.go: message bodies and secrets never reach the output
//
// Message payloads are user content. Any string attribute whose key names
// a body is replaced by its byte length before the handler sees it.
package logger
