package render

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/umairqidwai1/YQ-Chatbot/internal/runtimeconfig"
	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Fatal(string, ...any) {}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

type stubCode struct {
	called    bool
	lang      string
	collapsed bool
}

func (s *stubCode) RenderCode(lang, code string, collapsed bool) (template.HTML, error) {
	s.called = true
	s.lang = lang
	s.collapsed = collapsed
	return template.HTML("<x-code>" + code + "</x-code>"), nil
}

type stubMath struct {
	calls int
}

func (s *stubMath) RenderMath(expression string, displayMode bool) (template.HTML, error) {
	s.calls++
	if displayMode {
		return template.HTML("<x-math-block>" + expression + "</x-math-block>"), nil
	}
	return template.HTML("<x-math>" + expression + "</x-math>"), nil
}

func newTestRenderer(opts ...Option) *Renderer {
	return New(runtimeconfig.DefaultConfig().Render, opts...)
}

func render(t *testing.T, r *Renderer, toks []interfaces.Token) string {
	t.Helper()
	out, err := r.Render(context.Background(), toks, Context{ID: "msg", Top: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func TestRenderParagraphAndRule(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{
		{Kind: interfaces.KindParagraph, Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "hello"}}},
		{Kind: interfaces.KindHorizontalRule},
	})

	if out != "<p>hello</p><hr/>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHeadingClampsDepth(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{{
		Kind:   interfaces.KindHeading,
		Depth:  9,
		Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "Deep Title"}},
	}})

	if !strings.HasPrefix(out, "<h6") || !strings.HasSuffix(out, "</h6>") {
		t.Fatalf("expected clamped h6, got %q", out)
	}
	if !strings.Contains(out, `id="deep-title"`) {
		t.Fatalf("expected slug anchor, got %q", out)
	}
}

func TestRenderCodeWithoutFencesStaysLiteral(t *testing.T) {
	code := &stubCode{}
	out := render(t, newTestRenderer(WithCodeRenderer(code)), []interfaces.Token{{
		Kind: interfaces.KindCode,
		Raw:  "odd indented text",
		Text: "odd indented text",
	}})

	if code.called {
		t.Fatalf("collaborator must not run for unfenced code")
	}
	if !strings.Contains(out, "odd indented text") || strings.Contains(out, "<x-code>") {
		t.Fatalf("expected literal text, got %q", out)
	}
}

func TestRenderFencedCodeDelegates(t *testing.T) {
	code := &stubCode{}
	cfg := runtimeconfig.DefaultConfig().Render
	cfg.CollapseCodeBlocks = true

	r := New(cfg, WithCodeRenderer(code))
	out := render(t, r, []interfaces.Token{{
		Kind: interfaces.KindCode,
		Lang: "go",
		Raw:  "```go\nx := 1\n```",
		Text: "x := 1\n",
	}})

	if code.lang != "go" || !code.collapsed {
		t.Fatalf("collaborator saw lang=%q collapsed=%v", code.lang, code.collapsed)
	}
	if !strings.Contains(out, "<x-code>") {
		t.Fatalf("expected delegated output, got %q", out)
	}
}

func TestTableCSVQuoting(t *testing.T) {
	tok := interfaces.Token{
		Kind:   interfaces.KindTable,
		Header: []interfaces.TableCell{{Text: "A"}, {Text: "B"}},
		Rows: [][]interfaces.TableCell{{
			{Text: "x,y"},
			{Text: `He said "hi"`},
		}},
	}

	artifact := TableCSV(tok, "msg", 3)
	if artifact.Filename != "table-msg-3.csv" {
		t.Fatalf("unexpected filename %q", artifact.Filename)
	}

	content := string(artifact.Content)
	if !strings.HasPrefix(content, "\xEF\xBB\xBF") {
		t.Fatalf("expected UTF-8 BOM prefix")
	}
	want := `"A","B"` + "\n" + `"x,y","He said ""hi"""`
	if got := strings.TrimPrefix(content, "\xEF\xBB\xBF"); got != want {
		t.Fatalf("unexpected csv content %q, want %q", got, want)
	}
}

func TestRenderTableAlignmentAndExport(t *testing.T) {
	var exported []interfaces.CSVArtifact
	r := newTestRenderer(WithCallbacks(interfaces.Callbacks{
		OnCSVExport: func(artifact interfaces.CSVArtifact) {
			exported = append(exported, artifact)
		},
	}))

	out := render(t, r, []interfaces.Token{{
		Kind:   interfaces.KindTable,
		Align:  []interfaces.Alignment{interfaces.AlignRight},
		Header: []interfaces.TableCell{{Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "H"}}}},
		Rows: [][]interfaces.TableCell{{
			{Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "v"}}},
		}},
	}})

	if !strings.Contains(out, `<th style="text-align: right">H</th>`) {
		t.Fatalf("expected aligned header, got %q", out)
	}
	if !strings.Contains(out, "<td") || !strings.Contains(out, ">v</td>") {
		t.Fatalf("expected body cell, got %q", out)
	}
	if len(exported) != 1 || exported[0].Filename != "table-msg-0.csv" {
		t.Fatalf("expected one export offer, got %#v", exported)
	}
}

func TestRenderOrderedListHonorsStart(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{{
		Kind:    interfaces.KindList,
		Ordered: true,
		Start:   5,
		Items: []interfaces.ListItem{
			{Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "five"}}},
		},
	}})

	if !strings.Contains(out, `<ol start="5">`) {
		t.Fatalf("expected start attribute, got %q", out)
	}
}

func TestRenderUnorderedListNoStart(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{{
		Kind:  interfaces.KindList,
		Start: 5,
		Items: []interfaces.ListItem{
			{Task: true, Checked: true, Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "done"}}},
		},
	}})

	if strings.Contains(out, "start=") {
		t.Fatalf("unordered lists must not carry start, got %q", out)
	}
	if !strings.Contains(out, `type="checkbox"`) || !strings.Contains(out, "checked") {
		t.Fatalf("expected checked task checkbox, got %q", out)
	}
}

func TestToggleTaskForwardsEvent(t *testing.T) {
	var events []interfaces.TaskToggleEvent
	r := newTestRenderer(WithCallbacks(interfaces.Callbacks{
		OnTaskToggle: func(event interfaces.TaskToggleEvent) {
			events = append(events, event)
		},
	}))

	toks := []interfaces.Token{{
		Kind: interfaces.KindList,
		Items: []interfaces.ListItem{
			{Task: true, Checked: false, Text: "open"},
		},
	}}

	if err := r.ToggleTask("msg", toks, 0, 0, true); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one forwarded event, got %d", len(events))
	}
	event := events[0]
	if event.ID != "msg" || event.TokenIndex != 0 || event.ItemIndex != 0 || !event.Checked {
		t.Fatalf("unexpected event %#v", event)
	}

	if err := r.ToggleTask("msg", toks, 5, 0, true); err == nil {
		t.Fatalf("expected range error for bad token index")
	}
	if err := r.ToggleTask("msg", toks, 0, 9, true); err == nil {
		t.Fatalf("expected range error for bad item index")
	}
}

func TestRenderDetailsReparsesBody(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig().Render
	cfg.ExpandDetails = true

	out := render(t, New(cfg), []interfaces.Token{{
		Kind:    interfaces.KindDetails,
		Summary: "Reasoning",
		Text:    "Some **bold** body",
	}})

	if !strings.Contains(out, "<details open>") {
		t.Fatalf("expected expanded details, got %q", out)
	}
	if !strings.Contains(out, "<summary>Reasoning</summary>") {
		t.Fatalf("expected summary, got %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Fatalf("expected re-parsed markdown body, got %q", out)
	}
}

func TestRenderUnknownKindDegrades(t *testing.T) {
	logger := &recordingLogger{}
	out := render(t, newTestRenderer(WithLogger(logger)), []interfaces.Token{
		{Kind: "mystery"},
		{Kind: interfaces.KindParagraph, Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "still here"}}},
	})

	if !strings.Contains(out, "still here") {
		t.Fatalf("siblings must keep rendering, got %q", out)
	}
	if strings.Contains(out, "mystery") {
		t.Fatalf("unknown kinds must render nothing, got %q", out)
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("expected one diagnostic log, got %#v", logger.warnings)
	}
}

func TestRenderDepthGuard(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig().Render
	cfg.MaxDepth = 3

	nested := interfaces.Token{Kind: interfaces.KindParagraph, Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "deep"}}}
	for i := 0; i < 10; i++ {
		nested = interfaces.Token{Kind: interfaces.KindBlockquote, Tokens: []interfaces.Token{nested}}
	}

	_, err := New(cfg).Render(context.Background(), []interfaces.Token{nested}, Context{ID: "msg", Top: true})
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestRenderAlertBlockquote(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{{
		Kind: interfaces.KindBlockquote,
		Tokens: []interfaces.Token{{
			Kind: interfaces.KindParagraph,
			Tokens: []interfaces.Token{
				{Kind: interfaces.KindText, Text: "[!WARNING]\nmind the gap"},
			},
		}},
	}})

	if !strings.Contains(out, `class="alert alert-warning"`) {
		t.Fatalf("expected alert container, got %q", out)
	}
	if !strings.Contains(out, "Warning") {
		t.Fatalf("expected alert title, got %q", out)
	}
	if !strings.Contains(out, "mind the gap") {
		t.Fatalf("expected alert content, got %q", out)
	}
	if strings.Contains(out, "[!WARNING]") {
		t.Fatalf("marker must be stripped, got %q", out)
	}
}

func TestRenderPlainBlockquote(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{{
		Kind: interfaces.KindBlockquote,
		Tokens: []interfaces.Token{{
			Kind:   interfaces.KindParagraph,
			Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: "just a quote"}},
		}},
	}})

	if !strings.Contains(out, "<blockquote><p>just a quote</p></blockquote>") {
		t.Fatalf("expected plain blockquote, got %q", out)
	}
}

func TestRenderTextTopLevelWraps(t *testing.T) {
	r := newTestRenderer()

	top := render(t, r, []interfaces.Token{{Kind: interfaces.KindText, Text: "alpha &amp; beta"}})
	if top != "<p>alpha &amp; beta</p>" {
		t.Fatalf("expected wrapped unescaped text, got %q", top)
	}

	nested, err := r.Render(context.Background(), []interfaces.Token{{Kind: interfaces.KindText, Text: "plain"}}, Context{ID: "msg", Top: false})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(nested) != "plain" {
		t.Fatalf("nested text must not wrap, got %q", nested)
	}
}

func TestRenderMathSkipsEmptyExpression(t *testing.T) {
	math := &stubMath{}
	r := newTestRenderer(WithMathRenderer(math))

	out := render(t, r, []interfaces.Token{
		{Kind: interfaces.KindInlineMath, Text: "   "},
		{Kind: interfaces.KindBlockMath, Text: "E = mc^2"},
	})

	if math.calls != 1 {
		t.Fatalf("empty expressions must be skipped, calls=%d", math.calls)
	}
	if !strings.Contains(out, "<x-math-block>E = mc^2</x-math-block>") {
		t.Fatalf("expected display math, got %q", out)
	}
}

func TestRenderHTMLSanitizes(t *testing.T) {
	out := render(t, newTestRenderer(), []interfaces.Token{{
		Kind: interfaces.KindHTML,
		Text: `<b>ok</b><script>alert(1)</script>`,
	}})

	if !strings.Contains(out, "<b>ok</b>") {
		t.Fatalf("expected sanitized markup kept, got %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected script stripped, got %q", out)
	}
}
