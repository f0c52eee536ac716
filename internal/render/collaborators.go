package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// ChromaCodeRenderer highlights fenced code blocks with chroma.
type ChromaCodeRenderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaCodeRenderer constructs the stock code collaborator.
func NewChromaCodeRenderer() *ChromaCodeRenderer {
	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaCodeRenderer{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(false)),
	}
}

// RenderCode satisfies interfaces.CodeRenderer. Missing or unknown languages
// degrade to plain-text highlighting rather than failing.
func (c *ChromaCodeRenderer) RenderCode(lang, code string, collapsed bool) (template.HTML, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("render: tokenise code: %w", err)
	}

	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, iterator); err != nil {
		return "", fmt.Errorf("render: format code: %w", err)
	}

	if collapsed {
		label := lang
		if label == "" {
			label = "code"
		}
		return template.HTML(fmt.Sprintf(
			`<details class="code-block"><summary>%s</summary>%s</details>`,
			template.HTMLEscapeString(label), buf.String(),
		)), nil
	}
	return template.HTML(buf.String()), nil
}

// TexMarkupRenderer emits KaTeX-ready markup: the expression escaped inside
// a container the client-side renderer picks up. It performs no layout
// itself.
type TexMarkupRenderer struct{}

// NewTexMarkupRenderer constructs the stock math collaborator.
func NewTexMarkupRenderer() *TexMarkupRenderer {
	return &TexMarkupRenderer{}
}

// RenderMath satisfies interfaces.MathRenderer.
func (t *TexMarkupRenderer) RenderMath(expression string, displayMode bool) (template.HTML, error) {
	escaped := template.HTMLEscapeString(expression)
	if displayMode {
		return template.HTML(`<div class="math math-display">` + escaped + `</div>`), nil
	}
	return template.HTML(`<span class="math math-inline">` + escaped + `</span>`), nil
}

// SanitizingHTMLRenderer passes raw HTML through a bluemonday UGC policy.
type SanitizingHTMLRenderer struct {
	policy *bluemonday.Policy
}

// NewSanitizingHTMLRenderer constructs the stock raw-HTML collaborator.
func NewSanitizingHTMLRenderer() *SanitizingHTMLRenderer {
	return &SanitizingHTMLRenderer{policy: bluemonday.UGCPolicy()}
}

// RenderHTML satisfies interfaces.HTMLRenderer.
func (s *SanitizingHTMLRenderer) RenderHTML(raw string) (template.HTML, error) {
	return template.HTML(s.policy.Sanitize(raw)), nil
}

var (
	_ interfaces.CodeRenderer = (*ChromaCodeRenderer)(nil)
	_ interfaces.MathRenderer = (*TexMarkupRenderer)(nil)
	_ interfaces.HTMLRenderer = (*SanitizingHTMLRenderer)(nil)
)
