package tokens

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

var (
	blockMathPattern  = regexp.MustCompile(`(?s)^\s*(?:\$\$(.+?)\$\$|\\\[(.+?)\\\])\s*$`)
	inlineMathPattern = regexp.MustCompile(`\$([^$\n]+?)\$|\\\((.+?)\\\)`)
	fileEmbedPattern  = regexp.MustCompile(`^\{\{\s*file:\s*([A-Za-z0-9_-]+)\s*\}\}$`)
)

// converter walks a parsed goldmark tree and produces the block token
// sequence. It carries the raw source alongside the parse options that
// change token shape, such as hard line wrapping.
type converter struct {
	source    []byte
	hardWraps bool
}

// blocks converts the direct children of parent into their token forms.
func (c *converter) blocks(parent ast.Node) []interfaces.Token {
	var out []interfaces.Token
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if tok, ok := c.block(child); ok {
			out = append(out, tok)
		}
	}
	return out
}

func (c *converter) block(node ast.Node) (interfaces.Token, bool) {
	switch n := node.(type) {
	case *ast.Heading:
		return interfaces.Token{
			Kind:   interfaces.KindHeading,
			Depth:  n.Level,
			Tokens: c.inlines(n),
		}, true

	case *ast.FencedCodeBlock:
		lang := string(n.Language(c.source))
		body := blockLines(n, c.source)
		return interfaces.Token{
			Kind: interfaces.KindCode,
			Lang: lang,
			Text: body,
			Raw:  "```" + lang + "\n" + body + "```",
		}, true

	case *ast.CodeBlock:
		// Indented code keeps its unfenced raw form so the renderer can
		// fall back to literal text.
		body := blockLines(n, c.source)
		return interfaces.Token{
			Kind: interfaces.KindCode,
			Text: body,
			Raw:  body,
		}, true

	case *east.Table:
		return c.table(n), true

	case *ast.Blockquote:
		return interfaces.Token{
			Kind:   interfaces.KindBlockquote,
			Tokens: c.blocks(n),
		}, true

	case *ast.List:
		return c.list(n), true

	case *ast.Paragraph:
		return c.paragraph(n), true

	case *ast.TextBlock:
		return interfaces.Token{
			Kind:   interfaces.KindText,
			Tokens: c.inlines(n),
		}, true

	case *ast.ThematicBreak:
		return interfaces.Token{Kind: interfaces.KindHorizontalRule}, true

	case *ast.HTMLBlock:
		return interfaces.Token{
			Kind: interfaces.KindHTML,
			Raw:  htmlBlockRaw(n, c.source),
			Text: htmlBlockRaw(n, c.source),
		}, true
	}

	return interfaces.Token{}, false
}

// paragraph maps a paragraph node, promoting two recognized shapes: a
// paragraph that is exactly one display-math expression becomes a blockMath
// token, and a paragraph that is exactly one file reference becomes an
// iframe token.
func (c *converter) paragraph(n *ast.Paragraph) interfaces.Token {
	plain := strings.TrimSpace(nodeText(n, c.source))

	if match := blockMathPattern.FindStringSubmatch(plain); match != nil {
		expr := match[1]
		if expr == "" {
			expr = match[2]
		}
		return interfaces.Token{
			Kind: interfaces.KindBlockMath,
			Text: strings.TrimSpace(expr),
			Raw:  plain,
		}
	}

	if match := fileEmbedPattern.FindStringSubmatch(plain); match != nil {
		return interfaces.Token{
			Kind:   interfaces.KindIframe,
			FileID: match[1],
			Raw:    plain,
		}
	}

	return interfaces.Token{
		Kind:   interfaces.KindParagraph,
		Raw:    plain,
		Tokens: c.inlines(n),
	}
}

func (c *converter) table(n *east.Table) interfaces.Token {
	token := interfaces.Token{Kind: interfaces.KindTable}

	for _, alignment := range n.Alignments {
		token.Align = append(token.Align, convertAlignment(alignment))
	}

	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *east.TableHeader:
			token.Header = c.tableCells(r)
		case *east.TableRow:
			token.Rows = append(token.Rows, c.tableCells(r))
		}
	}

	return token
}

func (c *converter) tableCells(row ast.Node) []interfaces.TableCell {
	var cells []interfaces.TableCell
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, interfaces.TableCell{
			Text:   strings.TrimSpace(nodeText(cell, c.source)),
			Tokens: c.inlines(cell),
		})
	}
	return cells
}

func convertAlignment(alignment east.Alignment) interfaces.Alignment {
	switch alignment {
	case east.AlignLeft:
		return interfaces.AlignLeft
	case east.AlignCenter:
		return interfaces.AlignCenter
	case east.AlignRight:
		return interfaces.AlignRight
	default:
		return interfaces.AlignNone
	}
}

func (c *converter) list(n *ast.List) interfaces.Token {
	token := interfaces.Token{
		Kind:    interfaces.KindList,
		Ordered: n.IsOrdered(),
	}
	if token.Ordered {
		token.Start = n.Start
		if token.Start == 0 {
			token.Start = 1
		}
	}

	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		listItem, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}
		token.Items = append(token.Items, c.listItem(listItem))
	}

	return token
}

func (c *converter) listItem(item *ast.ListItem) interfaces.ListItem {
	out := interfaces.ListItem{
		Tokens: c.blocks(item),
	}

	// Task list markers surface as a checkbox at the head of the item's
	// first inline run. The inline conversion already drops the marker
	// node, so only the state needs lifting onto the item.
	if first := item.FirstChild(); first != nil {
		if checkbox, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			out.Task = true
			out.Checked = checkbox.IsChecked
		}
	}

	text := strings.TrimSpace(nodeText(item, c.source))
	out.Text = text
	out.Raw = text
	return out
}

// inlines maps the inline children of a block node, splitting text runs on
// inline math delimiters.
func (c *converter) inlines(parent ast.Node) []interfaces.Token {
	var out []interfaces.Token
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.inline(child)...)
	}
	return out
}

func (c *converter) inline(node ast.Node) []interfaces.Token {
	switch n := node.(type) {
	case *east.TaskCheckBox:
		// Handled at the list-item level.
		return nil

	case *ast.Text:
		out := splitInlineMath(string(n.Segment.Value(c.source)))
		if n.HardLineBreak() {
			out = append(out, interfaces.Token{Kind: interfaces.KindBr})
		} else if n.SoftLineBreak() {
			// Hard wrapping upgrades soft breaks to explicit line
			// breaks, matching renderers that treat every newline as
			// a break.
			if c.hardWraps {
				out = append(out, interfaces.Token{Kind: interfaces.KindBr})
			} else {
				out = append(out, interfaces.Token{Kind: interfaces.KindText, Text: "\n"})
			}
		}
		return out

	case *ast.String:
		return splitInlineMath(string(n.Value))

	case *ast.CodeSpan:
		return []interfaces.Token{{
			Kind: interfaces.KindCodespan,
			Text: nodeText(n, c.source),
		}}

	case *ast.Emphasis:
		kind := interfaces.KindEm
		if n.Level >= 2 {
			kind = interfaces.KindStrong
		}
		return []interfaces.Token{{
			Kind:   kind,
			Tokens: c.inlines(n),
		}}

	case *east.Strikethrough:
		return []interfaces.Token{{
			Kind:   interfaces.KindDel,
			Tokens: c.inlines(n),
		}}

	case *ast.Link:
		return []interfaces.Token{{
			Kind:   interfaces.KindLink,
			Href:   string(n.Destination),
			Title:  string(n.Title),
			Tokens: c.inlines(n),
		}}

	case *ast.AutoLink:
		url := string(n.URL(c.source))
		return []interfaces.Token{{
			Kind:   interfaces.KindLink,
			Href:   url,
			Tokens: []interfaces.Token{{Kind: interfaces.KindText, Text: string(n.Label(c.source))}},
		}}

	case *ast.Image:
		return []interfaces.Token{{
			Kind:  interfaces.KindImage,
			Href:  string(n.Destination),
			Title: string(n.Title),
			Text:  nodeText(n, c.source),
		}}

	case *ast.RawHTML:
		return []interfaces.Token{{
			Kind: interfaces.KindHTML,
			Text: segmentsValue(n.Segments, c.source),
			Raw:  segmentsValue(n.Segments, c.source),
		}}
	}

	// Unknown inline nodes degrade to their flattened text.
	if text := nodeText(node, c.source); text != "" {
		return []interfaces.Token{{Kind: interfaces.KindText, Text: text}}
	}
	return nil
}

// splitInlineMath cuts a text run into alternating text and inlineMath
// tokens. Runs without math delimiters come back as a single text token.
func splitInlineMath(text string) []interfaces.Token {
	if text == "" {
		return nil
	}

	matches := inlineMathPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []interfaces.Token{{Kind: interfaces.KindText, Text: text}}
	}

	var out []interfaces.Token
	cursor := 0
	for _, match := range matches {
		if match[0] > cursor {
			out = append(out, interfaces.Token{Kind: interfaces.KindText, Text: text[cursor:match[0]]})
		}

		expr := ""
		if match[2] >= 0 {
			expr = text[match[2]:match[3]]
		} else if match[4] >= 0 {
			expr = text[match[4]:match[5]]
		}
		out = append(out, interfaces.Token{
			Kind: interfaces.KindInlineMath,
			Text: strings.TrimSpace(expr),
			Raw:  text[match[0]:match[1]],
		})
		cursor = match[1]
	}
	if cursor < len(text) {
		out = append(out, interfaces.Token{Kind: interfaces.KindText, Text: text[cursor:]})
	}

	return out
}

func blockLines(node ast.Node, source []byte) string {
	var builder strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		builder.Write(segment.Value(source))
	}
	return builder.String()
}

func htmlBlockRaw(n *ast.HTMLBlock, source []byte) string {
	raw := blockLines(n, source)
	if n.HasClosure() {
		raw += string(n.ClosureLine.Value(source))
	}
	return strings.TrimRight(raw, "\n")
}

func segmentsValue(segments *text.Segments, source []byte) string {
	var builder strings.Builder
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		builder.Write(segment.Value(source))
	}
	return builder.String()
}

// nodeText flattens every text segment beneath node, in document order.
func nodeText(node ast.Node, source []byte) string {
	var builder strings.Builder
	collectText(node, source, &builder)
	return builder.String()
}

func collectText(node ast.Node, source []byte, builder *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		builder.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			builder.WriteByte('\n')
		}
		return
	case *ast.String:
		builder.Write(n.Value)
		return
	}

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		collectText(child, source, builder)
	}
}
