package logging

import (
	"maps"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// WithRenderContext enriches the provided logger with the identifiers shared
// by every render pass. Empty values are ignored.
func WithRenderContext(logger interfaces.Logger, id string, depth int) interfaces.Logger {
	fields := map[string]any{}
	if id != "" {
		fields["render_id"] = id
	}
	if depth > 0 {
		fields["depth"] = depth
	}
	return WithFields(logger, fields)
}
