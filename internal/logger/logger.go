package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog with the structured fields every tableside service emits.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a JSON logger for the named service.
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID returns a unique id carried through logs for one request.
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) log(level slog.Level, action, message, requestID string, details map[string]any, err error) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range details {
		attrs = append(attrs, slog.Any(k, v))
	}

	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}

// Info logs an informational event.
func (l *Logger) Info(action, message, requestID string, details map[string]any) {
	l.log(slog.LevelInfo, action, message, requestID, details, nil)
}

// Debug logs a debug event.
func (l *Logger) Debug(action, message, requestID string, details map[string]any) {
	l.log(slog.LevelDebug, action, message, requestID, details, nil)
}

// Error logs a failure with its error.
func (l *Logger) Error(action, message, requestID string, err error, details map[string]any) {
	l.log(slog.LevelError, action, message, requestID, details, err)
}
