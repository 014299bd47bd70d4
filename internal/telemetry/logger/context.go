package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "solbox.logger"
	callIDKey    contextKey = "solbox.call_id"
	programIDKey contextKey = "solbox.program_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithCallID tags the context with the ID of the execution it serves.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey, id)
}

// CallIDFromContext extracts the call ID from context.
func CallIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(callIDKey).(string); ok {
		return id
	}
	return ""
}

// WithProgramID tags the context with the program the call targets.
func WithProgramID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, programIDKey, id)
}

// ProgramIDFromContext extracts the program ID from context.
func ProgramIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(programIDKey).(string); ok {
		return id
	}
	return ""
}

// L returns the logger carried by ctx, bound to ctx so records pick up
// its call ID, and tagged with its program ID.
func L(ctx context.Context) Logger {
	l := FromContext(ctx).WithContext(ctx)
	if id := ProgramIDFromContext(ctx); id != "" {
		l = l.With("program_id", id)
	}
	return l
}
