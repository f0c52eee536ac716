package logging

import (
	"context"
	"testing"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

type recordingLogger struct {
	fields map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{fields: merged}
}

type recordingProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	p.requested = append(p.requested, name)
	return p.logger
}

func TestModuleLoggerNilProvider(t *testing.T) {
	logger := ModuleLogger(nil, "chat.render")
	if logger == nil {
		t.Fatal("expected a logger")
	}
	logger.Info("must not panic")
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	provider := &recordingProvider{logger: &recordingLogger{}}

	logger := RenderLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != "chat.render" {
		t.Fatalf("unexpected requested modules: %v", provider.requested)
	}

	recorded, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected fields-aware logger, got %T", logger)
	}
	if recorded.fields["module"] != "chat.render" {
		t.Fatalf("module field missing: %v", recorded.fields)
	}
}

func TestModuleLoggerDefaultsRootModule(t *testing.T) {
	provider := &recordingProvider{logger: &recordingLogger{}}

	ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != "chat" {
		t.Fatalf("expected root module request, got %v", provider.requested)
	}
}
