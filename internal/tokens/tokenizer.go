package tokens

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// GoldmarkTokenizer implements interfaces.Tokenizer using the goldmark
// engine. The tokenizer is intentionally stateless so callers can reuse a
// single instance across messages without additional locking.
type GoldmarkTokenizer struct {
	defaultOptions interfaces.ParseOptions
}

// NewGoldmarkTokenizer constructs a tokenizer with sensible defaults (GFM
// extensions, hard wraps disabled). Callers can override behaviour per
// invocation through TokenizeWithOptions.
func NewGoldmarkTokenizer(defaults interfaces.ParseOptions) *GoldmarkTokenizer {
	return &GoldmarkTokenizer{
		defaultOptions: defaults,
	}
}

// Tokenize satisfies interfaces.Tokenizer using the default configuration.
func (t *GoldmarkTokenizer) Tokenize(markdown []byte) ([]interfaces.Token, error) {
	return t.TokenizeWithOptions(markdown, t.defaultOptions)
}

// TokenizeWithOptions converts Markdown into the block token sequence using
// the provided options. Details sections are lifted out of the source before
// goldmark runs because their bodies stay unparsed until render time.
func (t *GoldmarkTokenizer) TokenizeWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]interfaces.Token, error) {
	engine := newGoldmarkEngine(opts)

	var out []interfaces.Token
	for _, segment := range splitDetails(markdown) {
		if segment.details != nil {
			out = append(out, *segment.details)
			continue
		}

		source := segment.markdown
		if len(strings.TrimSpace(string(source))) == 0 {
			continue
		}

		doc := engine.Parser().Parse(text.NewReader(source))
		conv := &converter{source: source, hardWraps: opts.HardWraps}
		out = append(out, conv.blocks(doc)...)
	}

	return out, nil
}

// newGoldmarkEngine builds a goldmark.Markdown configured based on the
// supplied parse options. Unsupported extension names are ignored.
func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

var _ interfaces.Tokenizer = (*GoldmarkTokenizer)(nil)
