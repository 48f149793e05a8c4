package logger

import (
	"context"
	"time"
)

// Logger is the logging abstraction every component depends on.
// Concrete implementation lives in zap.go.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// WithContext returns a logger enriched with request-scoped fields
	// (request id, session id) found in ctx.
	WithContext(ctx context.Context) Logger

	// WithFields returns a logger that always emits the given fields.
	WithFields(fields ...Field) Logger

	// Sync flushes any buffered log entries
	Sync() error
}

// Field is a single structured key/value in a log entry.
type Field struct {
	Key   string
	Value interface{}
}

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	sessionIDKey ctxKey = "session_id"
)

// ContextWithRequestID stores a request id picked up by WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithSessionID stores the cart session id picked up by WithContext.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func contextFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	var fields []Field
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		fields = append(fields, String(string(requestIDKey), v))
	}
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		fields = append(fields, String(string(sessionIDKey), v))
	}
	return fields
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
