package ports

import "context"

// Logger is the structured logging interface used throughout the engine.
// Field maps carry key/value context; implementations decide formatting.
// Keeping this behind an interface allows swapping the backend (standard
// log, zerolog) without touching decision logic.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error logs an error with an explanatory message.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}
