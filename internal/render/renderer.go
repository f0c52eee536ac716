package render

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/umairqidwai1/YQ-Chatbot/internal/embeds"
	"github.com/umairqidwai1/YQ-Chatbot/internal/logging"
	"github.com/umairqidwai1/YQ-Chatbot/internal/runtimeconfig"
	"github.com/umairqidwai1/YQ-Chatbot/internal/tokens"
	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// Context carries the identity and position of one render invocation. Child
// renders derive their keys from ID + index so nested elements keep stable,
// collision-free identifiers across incremental re-renders.
type Context struct {
	// ID is the identity string element keys derive from. Empty IDs get a
	// generated one at the top of the pass.
	ID string
	// Top marks a top-level sequence: bare text tokens get wrapped in a
	// paragraph container only at the top level.
	Top bool
	// Depth counts recursion levels against the configured maximum.
	Depth int
	// Attributes carries block-level attributes a details token threads
	// down to its children.
	Attributes map[string]string
}

func (c Context) childID(index int, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("%s-%d", c.ID, index)
	}
	return fmt.Sprintf("%s-%d-%s", c.ID, index, suffix)
}

// child derives the context used when recursing into a nested sequence.
func (c Context) child(index int, suffix string, top bool) Context {
	return Context{
		ID:         c.childID(index, suffix),
		Top:        top,
		Depth:      c.Depth + 1,
		Attributes: c.Attributes,
	}
}

// Renderer converts token sequences into HTML. It owns no state beyond its
// collaborators and configuration, so one instance can serve concurrent
// renders of independent messages.
type Renderer struct {
	cfg       runtimeconfig.RenderConfig
	tokenizer interfaces.Tokenizer
	code      interfaces.CodeRenderer
	math      interfaces.MathRenderer
	html      interfaces.HTMLRenderer
	alerts    interfaces.AlertClassifier
	urls      *embeds.URLBuilder
	callbacks interfaces.Callbacks
	logger    interfaces.Logger
}

// Option configures the renderer instance.
type Option func(*Renderer)

// WithTokenizer overrides the tokenizer used to re-parse details bodies.
func WithTokenizer(t interfaces.Tokenizer) Option {
	return func(r *Renderer) { r.tokenizer = t }
}

// WithCodeRenderer overrides the fenced code collaborator.
func WithCodeRenderer(c interfaces.CodeRenderer) Option {
	return func(r *Renderer) { r.code = c }
}

// WithMathRenderer overrides the math collaborator.
func WithMathRenderer(m interfaces.MathRenderer) Option {
	return func(r *Renderer) { r.math = m }
}

// WithHTMLRenderer overrides the raw HTML collaborator.
func WithHTMLRenderer(h interfaces.HTMLRenderer) Option {
	return func(r *Renderer) { r.html = h }
}

// WithAlertClassifier overrides the blockquote alert classifier.
func WithAlertClassifier(a interfaces.AlertClassifier) Option {
	return func(r *Renderer) { r.alerts = a }
}

// WithURLBuilder supplies the embed URL builder. Without one, iframe tokens
// render nothing.
func WithURLBuilder(b *embeds.URLBuilder) Option {
	return func(r *Renderer) { r.urls = b }
}

// WithCallbacks wires the host's outbound event hooks.
func WithCallbacks(cb interfaces.Callbacks) Option {
	return func(r *Renderer) { r.callbacks = cb }
}

// WithLogger attaches the render module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// New constructs a renderer with the stock collaborators: chroma-backed code
// highlighting, KaTeX-ready math markup, sanitizing HTML output, and the
// GitHub-style alert classifier.
func New(cfg runtimeconfig.RenderConfig, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:       cfg,
		tokenizer: tokens.NewGoldmarkTokenizer(interfaces.ParseOptions{}),
		code:      NewChromaCodeRenderer(),
		math:      NewTexMarkupRenderer(),
		html:      NewSanitizingHTMLRenderer(),
		alerts:    NewAlertClassifier(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg.MaxDepth <= 0 {
		r.cfg.MaxDepth = runtimeconfig.DefaultConfig().Render.MaxDepth
	}
	return r
}

// Render converts the token sequence into HTML. Callers invoke it once per
// message with a top-level context; the renderer recurses into nested
// sequences itself. Tokens are never mutated.
func (r *Renderer) Render(ctx context.Context, toks []interfaces.Token, rctx Context) (template.HTML, error) {
	if rctx.ID == "" {
		rctx.ID = uuid.NewString()
	}
	logging.WithRenderContext(r.logger, rctx.ID, rctx.Depth).
		Debug("render pass", "tokens", len(toks))

	var out strings.Builder
	if err := r.renderSequence(ctx, &out, toks, rctx); err != nil {
		return "", err
	}
	return template.HTML(out.String()), nil
}

func (r *Renderer) renderSequence(ctx context.Context, out *strings.Builder, toks []interfaces.Token, rctx Context) error {
	if rctx.Depth > r.cfg.MaxDepth {
		return wrapDepthError(rctx.ID, rctx.Depth)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for idx, tok := range toks {
		if err := r.renderToken(ctx, out, tok, idx, rctx); err != nil {
			return err
		}
	}
	return nil
}

// renderToken dispatches one token by kind. Every branch has a defined
// degraded fallback; only depth violations propagate as errors.
func (r *Renderer) renderToken(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	switch tok.Kind {
	case interfaces.KindHorizontalRule:
		out.WriteString("<hr/>")

	case interfaces.KindHeading:
		return r.renderHeading(ctx, out, tok, idx, rctx)

	case interfaces.KindCode:
		r.renderCode(out, tok)

	case interfaces.KindTable:
		return r.renderTable(ctx, out, tok, idx, rctx)

	case interfaces.KindBlockquote:
		return r.renderBlockquote(ctx, out, tok, idx, rctx)

	case interfaces.KindList:
		return r.renderList(ctx, out, tok, idx, rctx)

	case interfaces.KindDetails:
		return r.renderDetails(ctx, out, tok, idx, rctx)

	case interfaces.KindHTML:
		r.renderHTML(out, tok)

	case interfaces.KindIframe:
		r.renderIframe(out, tok, idx, rctx)

	case interfaces.KindParagraph:
		out.WriteString("<p>")
		if err := r.renderSequence(ctx, out, tok.Tokens, rctx.child(idx, "p", false)); err != nil {
			return err
		}
		out.WriteString("</p>")

	case interfaces.KindText:
		return r.renderText(ctx, out, tok, idx, rctx)

	case interfaces.KindInlineMath:
		r.renderMath(out, tok, false)

	case interfaces.KindBlockMath:
		r.renderMath(out, tok, true)

	case interfaces.KindSpace:
		out.WriteString(`<div class="my-2"></div>`)

	case interfaces.KindStrong:
		return r.renderWrapped(ctx, out, tok, idx, rctx, "strong")

	case interfaces.KindEm:
		return r.renderWrapped(ctx, out, tok, idx, rctx, "em")

	case interfaces.KindDel:
		return r.renderWrapped(ctx, out, tok, idx, rctx, "del")

	case interfaces.KindCodespan:
		out.WriteString("<code>")
		out.WriteString(template.HTMLEscapeString(tok.Text))
		out.WriteString("</code>")

	case interfaces.KindLink:
		return r.renderLink(ctx, out, tok, idx, rctx)

	case interfaces.KindImage:
		r.renderImage(out, tok)

	case interfaces.KindBr:
		out.WriteString("<br/>")

	default:
		// Unknown kinds degrade to empty output; siblings keep rendering.
		r.logger.Warn("unrecognized token kind", "kind", string(tok.Kind), "render_id", rctx.ID, "index", idx)
	}

	return nil
}

func (r *Renderer) renderHeading(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	depth := tok.Depth
	if depth < 1 {
		depth = 1
	}
	if depth > 6 {
		depth = 6
	}

	anchor := ""
	if normalized, err := slug.Normalize(tok.PlainText()); err == nil && normalized != "" {
		anchor = normalized
	}

	fmt.Fprintf(out, "<h%d", depth)
	if anchor != "" {
		fmt.Fprintf(out, ` id="%s"`, template.HTMLEscapeString(anchor))
	}
	out.WriteString(">")
	if err := r.renderSequence(ctx, out, tok.Tokens, rctx.child(idx, "h", false)); err != nil {
		return err
	}
	fmt.Fprintf(out, "</h%d>", depth)
	return nil
}

// renderCode delegates fenced blocks to the code collaborator. The parser
// occasionally classifies indented or odd text as code without fencing; that
// shape renders as literal text instead.
func (r *Renderer) renderCode(out *strings.Builder, tok interfaces.Token) {
	if !strings.Contains(tok.Raw, "```") {
		out.WriteString(template.HTMLEscapeString(tok.Text))
		return
	}

	rendered, err := r.code.RenderCode(tok.Lang, tok.Text, r.cfg.CollapseCodeBlocks)
	if err != nil {
		r.logger.Warn("code renderer failed", "lang", tok.Lang, "error", err)
		out.WriteString("<pre><code>")
		out.WriteString(template.HTMLEscapeString(tok.Text))
		out.WriteString("</code></pre>")
		return
	}
	out.WriteString(string(rendered))
}

func (r *Renderer) renderBlockquote(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	if alert, ok := r.alerts.Classify(tok); ok {
		return r.renderAlert(ctx, out, alert, idx, rctx)
	}

	out.WriteString("<blockquote>")
	if err := r.renderSequence(ctx, out, tok.Tokens, rctx.child(idx, "bq", false)); err != nil {
		return err
	}
	out.WriteString("</blockquote>")
	return nil
}

func (r *Renderer) renderList(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	tag := "ul"
	if tok.Ordered {
		tag = "ol"
	}

	out.WriteString("<" + tag)
	if tok.Ordered {
		start := tok.Start
		if start <= 0 {
			start = 1
		}
		if start != 1 {
			fmt.Fprintf(out, ` start="%d"`, start)
		}
	}
	out.WriteString(">")

	for itemIdx, item := range tok.Items {
		out.WriteString("<li>")
		if item.Task {
			checked := ""
			if item.Checked {
				checked = " checked"
			}
			fmt.Fprintf(out, `<input type="checkbox" data-token-index="%d" data-item-index="%d"%s/>`, idx, itemIdx, checked)
		}
		itemCtx := rctx.child(idx, fmt.Sprintf("li-%d", itemIdx), false)
		if err := r.renderSequence(ctx, out, item.Tokens, itemCtx); err != nil {
			return err
		}
		out.WriteString("</li>")
	}

	out.WriteString("</" + tag + ">")
	return nil
}

// renderDetails re-parses the body, which is stored as raw markdown, and
// recurses into the fresh sequence with the token's attributes threaded down.
func (r *Renderer) renderDetails(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	open := ""
	if r.cfg.ExpandDetails {
		open = " open"
	}

	fmt.Fprintf(out, "<details%s>", open)
	out.WriteString("<summary>")
	out.WriteString(template.HTMLEscapeString(tok.Summary))
	out.WriteString("</summary>")

	body, err := r.tokenizer.Tokenize([]byte(tok.Text))
	if err != nil {
		r.logger.Warn("details body re-parse failed", "render_id", rctx.ID, "error", wrapDetailsParseError(err, rctx.ID))
		out.WriteString(template.HTMLEscapeString(tok.Text))
		out.WriteString("</details>")
		return nil
	}

	bodyCtx := rctx.child(idx, "details", true)
	bodyCtx.Attributes = mergeAttributes(rctx.Attributes, tok.Attributes)
	if err := r.renderSequence(ctx, out, body, bodyCtx); err != nil {
		return err
	}

	out.WriteString("</details>")
	return nil
}

func (r *Renderer) renderHTML(out *strings.Builder, tok interfaces.Token) {
	raw := tok.Text
	if raw == "" {
		raw = tok.Raw
	}

	rendered, err := r.html.RenderHTML(raw)
	if err != nil {
		r.logger.Warn("html renderer failed", "error", err)
		return
	}
	out.WriteString(string(rendered))
}

func (r *Renderer) renderIframe(out *strings.Builder, tok interfaces.Token, idx int, rctx Context) {
	if r.urls == nil {
		r.logger.Debug("iframe token skipped: embeds not configured", "file_id", tok.FileID)
		return
	}

	src, err := r.urls.FileContentURL(tok.FileID)
	if err != nil {
		r.logger.Warn("iframe url build failed", "file_id", tok.FileID, "error", err)
		return
	}

	fmt.Fprintf(out,
		`<iframe id="%s" src="%s" loading="lazy" frameborder="0" onload="this.style.height=(this.contentWindow.document.body.scrollHeight+20)+'px';"></iframe>`,
		template.HTMLEscapeString(rctx.childID(idx, "iframe")),
		template.HTMLEscapeString(src),
	)
}

// renderText wraps top-level text in a paragraph container; nested text
// renders inline. Literal text passes through entity unescaping first so the
// lexer's escaping does not double up, then re-escapes on output.
func (r *Renderer) renderText(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	if rctx.Top {
		out.WriteString("<p>")
	}

	if len(tok.Tokens) > 0 {
		if err := r.renderSequence(ctx, out, tok.Tokens, rctx.child(idx, "t", false)); err != nil {
			return err
		}
	} else {
		out.WriteString(template.HTMLEscapeString(html.UnescapeString(tok.Text)))
	}

	if rctx.Top {
		out.WriteString("</p>")
	}
	return nil
}

func (r *Renderer) renderMath(out *strings.Builder, tok interfaces.Token, displayMode bool) {
	expression := strings.TrimSpace(tok.Text)
	if expression == "" {
		return
	}

	rendered, err := r.math.RenderMath(expression, displayMode)
	if err != nil {
		r.logger.Warn("math renderer failed", "error", err)
		return
	}
	out.WriteString(string(rendered))
}

func (r *Renderer) renderWrapped(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context, tag string) error {
	out.WriteString("<" + tag + ">")
	if len(tok.Tokens) > 0 {
		if err := r.renderSequence(ctx, out, tok.Tokens, rctx.child(idx, tag, false)); err != nil {
			return err
		}
	} else {
		out.WriteString(template.HTMLEscapeString(tok.Text))
	}
	out.WriteString("</" + tag + ">")
	return nil
}

func (r *Renderer) renderLink(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	fmt.Fprintf(out, `<a href="%s"`, template.HTMLEscapeString(tok.Href))
	if tok.Title != "" {
		fmt.Fprintf(out, ` title="%s"`, template.HTMLEscapeString(tok.Title))
	}
	out.WriteString(` target="_blank" rel="noopener noreferrer">`)
	if len(tok.Tokens) > 0 {
		if err := r.renderSequence(ctx, out, tok.Tokens, rctx.child(idx, "a", false)); err != nil {
			return err
		}
	} else {
		out.WriteString(template.HTMLEscapeString(tok.Text))
	}
	out.WriteString("</a>")
	return nil
}

func (r *Renderer) renderImage(out *strings.Builder, tok interfaces.Token) {
	fmt.Fprintf(out, `<img src="%s" alt="%s"`,
		template.HTMLEscapeString(tok.Href),
		template.HTMLEscapeString(tok.Text),
	)
	if tok.Title != "" {
		fmt.Fprintf(out, ` title="%s"`, template.HTMLEscapeString(tok.Title))
	}
	out.WriteString("/>")
}

// ToggleTask validates a checkbox interaction against the token sequence and
// forwards it to the host. The renderer never updates the tokens itself.
func (r *Renderer) ToggleTask(id string, toks []interfaces.Token, tokenIdx, itemIdx int, checked bool) error {
	if tokenIdx < 0 || tokenIdx >= len(toks) {
		return fmt.Errorf("render: token index %d out of range", tokenIdx)
	}
	tok := toks[tokenIdx]
	if tok.Kind != interfaces.KindList {
		return fmt.Errorf("render: token %d is not a list", tokenIdx)
	}
	if itemIdx < 0 || itemIdx >= len(tok.Items) {
		return fmt.Errorf("render: item index %d out of range", itemIdx)
	}
	item := tok.Items[itemIdx]
	if !item.Task {
		return fmt.Errorf("render: item %d is not a task", itemIdx)
	}

	if cb := r.callbacks.OnTaskToggle; cb != nil {
		cb(interfaces.TaskToggleEvent{
			ID:         id,
			Token:      tok,
			TokenIndex: tokenIdx,
			Item:       item,
			ItemIndex:  itemIdx,
			Checked:    checked,
		})
	}
	return nil
}

// SaveCodeEdit forwards an edited code block to the host unchanged.
func (r *Renderer) SaveCodeEdit(raw, oldContent, newContent string) {
	if cb := r.callbacks.OnSaveEdit; cb != nil {
		cb(interfaces.SaveEditEvent{
			Raw:        raw,
			OldContent: oldContent,
			NewContent: newContent,
		})
	}
}

func mergeAttributes(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}

	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
