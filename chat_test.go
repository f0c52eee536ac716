package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestService(t *testing.T, cfg Config, opts ...Option) *Service {
	t.Helper()
	cfg.Logging.Enabled = false
	svc, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestRenderMessagePipeline(t *testing.T) {
	markdown := strings.Join([]string{
		"# Answer",
		"",
		"Some **useful** context.",
		"",
		"| A | B |",
		"|---|---|",
		"| 1 | 2 |",
		"",
		"**Sources:**",
		"",
		"- [Intro lecture](https://youtube.com/watch?v=dQw4w9WgXcQ&t=42)",
		"- [Course notes](https://example.com/notes)",
	}, "\n")

	svc := newTestService(t, DefaultConfig())

	result, err := svc.RenderMessage(context.Background(), []byte(markdown), "msg-1")
	if err != nil {
		t.Fatalf("RenderMessage: %v", err)
	}

	html := string(result.HTML)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<table") {
		t.Fatalf("body markup missing blocks: %s", html)
	}
	if strings.Contains(strings.ToLower(html), "sources:") {
		t.Fatalf("sources block leaked into body: %s", html)
	}

	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 source records, got %d", len(result.Sources))
	}
	if result.Sources[0].Title != "Intro lecture" {
		t.Fatalf("unexpected first record: %+v", result.Sources[0])
	}
	if !strings.Contains(html, `class="citations"`) {
		t.Fatalf("citation strip missing: %s", html)
	}
	if !strings.Contains(html, "img.youtube.com/vi/dQw4w9WgXcQ/0.jpg") {
		t.Fatalf("youtube thumbnail missing: %s", html)
	}

	if len(result.Artifacts) != 1 {
		t.Fatalf("expected 1 table artifact, got %d", len(result.Artifacts))
	}
	if result.Artifacts[0].Filename != "table-msg-1-2.csv" {
		t.Fatalf("unexpected artifact filename: %s", result.Artifacts[0].Filename)
	}
}

func TestRenderMessageForwardsCSVExport(t *testing.T) {
	var exported []CSVArtifact
	svc := newTestService(t, DefaultConfig(), WithCallbacks(Callbacks{
		OnCSVExport: func(artifact CSVArtifact) { exported = append(exported, artifact) },
	}))

	markdown := "| X |\n|---|\n| 1 |\n"
	result, err := svc.RenderMessage(context.Background(), []byte(markdown), "m")
	if err != nil {
		t.Fatalf("RenderMessage: %v", err)
	}
	if len(result.Artifacts) != 1 || len(exported) != 1 {
		t.Fatalf("artifact fan-out mismatch: result=%d host=%d", len(result.Artifacts), len(exported))
	}
	if exported[0].Filename != result.Artifacts[0].Filename {
		t.Fatalf("artifact mismatch: %s vs %s", exported[0].Filename, result.Artifacts[0].Filename)
	}
}

func TestRenderMessageGeneratesID(t *testing.T) {
	svc := newTestService(t, DefaultConfig())

	result, err := svc.RenderMessage(context.Background(), []byte("| A |\n|---|\n| 1 |\n"), "")
	if err != nil {
		t.Fatalf("RenderMessage: %v", err)
	}
	if len(result.Artifacts) != 1 {
		t.Fatalf("expected artifact, got %d", len(result.Artifacts))
	}
	name := result.Artifacts[0].Filename
	if !strings.HasPrefix(name, "table-") || !strings.HasSuffix(name, "-0.csv") {
		t.Fatalf("generated id not threaded into filename: %s", name)
	}
	if name == "table--0.csv" {
		t.Fatalf("empty id was not replaced: %s", name)
	}
}

func TestRenderTokensFromWireForm(t *testing.T) {
	payload := []byte(`[{"type":"heading","depth":2,"text":"Recap","tokens":[{"type":"text","text":"Recap"}]}]`)

	toks, err := DecodeTokens(payload)
	if err != nil {
		t.Fatalf("DecodeTokens: %v", err)
	}

	svc := newTestService(t, DefaultConfig())
	result, err := svc.RenderTokens(context.Background(), toks, "wire")
	if err != nil {
		t.Fatalf("RenderTokens: %v", err)
	}
	if !strings.Contains(string(result.HTML), "<h2") {
		t.Fatalf("heading missing: %s", result.HTML)
	}
}

func TestRenderMessageDepthGuard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.MaxDepth = 2

	markdown := "> > > > > deep\n"
	svc := newTestService(t, cfg)

	_, err := svc.RenderMessage(context.Background(), []byte(markdown), "deep")
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestToggleTaskForwarding(t *testing.T) {
	var got []TaskToggleEvent
	svc := newTestService(t, DefaultConfig(), WithCallbacks(Callbacks{
		OnTaskToggle: func(event TaskToggleEvent) { got = append(got, event) },
	}))

	toks, err := svc.Tokenize([]byte("- [ ] write tests\n- [x] ship\n"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	if err := svc.ToggleTask("msg", toks, 0, 0, true); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if len(got) != 1 || got[0].ItemIndex != 0 || !got[0].Checked {
		t.Fatalf("unexpected event: %+v", got)
	}

	if err := svc.ToggleTask("msg", toks, 5, 0, true); err == nil {
		t.Fatal("expected range error for token index")
	}
}

type quietLogger struct{}

func (quietLogger) Trace(string, ...any) {}
func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}
func (quietLogger) Fatal(string, ...any) {}

func (l quietLogger) WithContext(context.Context) Logger { return l }
func (l quietLogger) WithFields(map[string]any) Logger   { return l }

type namespaceProvider struct {
	requested map[string]bool
}

func (p *namespaceProvider) GetLogger(name string) Logger {
	p.requested[name] = true
	return quietLogger{}
}

func TestModuleLoggerNamespacesWired(t *testing.T) {
	provider := &namespaceProvider{requested: map[string]bool{}}

	cfg := DefaultConfig()
	cfg.Logging.Enabled = false
	svc, err := New(cfg, WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	markdown := "hello\n\n**Sources:**\n\n- [Ref](https://example.com)\n"
	if _, err := svc.RenderMessage(context.Background(), []byte(markdown), "ns"); err != nil {
		t.Fatalf("RenderMessage: %v", err)
	}

	for _, namespace := range []string{"chat", "chat.tokens", "chat.sources", "chat.render", "chat.citations"} {
		if !provider.requested[namespace] {
			t.Fatalf("namespace %s never requested; got %v", namespace, provider.requested)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.MaxDepth = 0
	cfg.Logging.Enabled = false

	if _, err := New(cfg); !errors.Is(err, ErrMaxDepthInvalid) {
		t.Fatalf("expected ErrMaxDepthInvalid, got %v", err)
	}
}
