package logging

import (
	"context"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

const (
	rootModule      = "chat"
	tokensModule    = "chat.tokens"
	sourcesModule   = "chat.sources"
	renderModule    = "chat.render"
	citationsModule = "chat.citations"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// TokensLogger returns the logger namespace reserved for the tokenizer.
func TokensLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tokensModule)
}

// SourcesLogger returns the logger namespace reserved for source extraction.
func SourcesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sourcesModule)
}

// RenderLogger returns the logger namespace reserved for the token renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// CitationsLogger returns the logger namespace reserved for the citation strip.
func CitationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, citationsModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
