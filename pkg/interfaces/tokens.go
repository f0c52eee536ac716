package interfaces

// TokenKind discriminates the variants of the markdown token union. The
// values double as the wire names used when token sequences travel as JSON
// between the chat backend and its clients.
type TokenKind string

const (
	KindHeading        TokenKind = "heading"
	KindCode           TokenKind = "code"
	KindTable          TokenKind = "table"
	KindBlockquote     TokenKind = "blockquote"
	KindList           TokenKind = "list"
	KindDetails        TokenKind = "details"
	KindHTML           TokenKind = "html"
	KindIframe         TokenKind = "iframe"
	KindParagraph      TokenKind = "paragraph"
	KindText           TokenKind = "text"
	KindInlineMath     TokenKind = "inlineMath"
	KindBlockMath      TokenKind = "blockMath"
	KindHorizontalRule TokenKind = "hr"
	KindSpace          TokenKind = "space"

	// Inline kinds produced inside block children.
	KindStrong   TokenKind = "strong"
	KindEm       TokenKind = "em"
	KindDel      TokenKind = "del"
	KindCodespan TokenKind = "codespan"
	KindLink     TokenKind = "link"
	KindImage    TokenKind = "image"
	KindBr       TokenKind = "br"
)

// Alignment captures per-column table alignment. The empty value means the
// column carries no explicit alignment and renders with the default.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Token is one parsed markdown structural unit. It is a tagged variant: Kind
// selects which of the remaining fields are meaningful. The struct is shared
// between the interfaces package and internal implementations so consumers
// can depend on a stable contract, and its JSON shape matches the serialized
// token stream chat clients receive.
//
// Renderers treat tokens as immutable inputs; no pipeline stage mutates a
// token in place.
type Token struct {
	Kind TokenKind `json:"type"`
	// Raw preserves the original markdown slice that produced the token.
	// Code tokens use it to distinguish fenced blocks from text the parser
	// misclassified, and details tokens re-parse it at render time.
	Raw  string `json:"raw,omitempty"`
	Text string `json:"text,omitempty"`

	// Heading fields.
	Depth int `json:"depth,omitempty"`

	// Code fields.
	Lang string `json:"lang,omitempty"`

	// Table fields.
	Header []TableCell   `json:"header,omitempty"`
	Rows   [][]TableCell `json:"rows,omitempty"`
	Align  []Alignment   `json:"align,omitempty"`

	// List fields.
	Ordered bool       `json:"ordered,omitempty"`
	Start   int        `json:"start,omitempty"`
	Items   []ListItem `json:"items,omitempty"`

	// Details fields.
	Summary    string            `json:"summary,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`

	// Iframe fields.
	FileID string `json:"fileId,omitempty"`

	// Link and image fields.
	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`

	// Tokens holds nested child tokens: inline children for headings and
	// paragraphs, block children for blockquotes.
	Tokens []Token `json:"tokens,omitempty"`
}

// TableCell is one header or body cell of a table token.
type TableCell struct {
	Text   string  `json:"text,omitempty"`
	Tokens []Token `json:"tokens,omitempty"`
}

// ListItem is one entry of a list token. Task items carry a checkbox state.
type ListItem struct {
	Raw     string  `json:"raw,omitempty"`
	Text    string  `json:"text,omitempty"`
	Task    bool    `json:"task,omitempty"`
	Checked bool    `json:"checked,omitempty"`
	Tokens  []Token `json:"tokens,omitempty"`
}

// PlainText flattens the token's visible text: its own Text when it has no
// children, otherwise the concatenation of its children's plain text. Table
// CSV export and citation titles rely on this.
func (t Token) PlainText() string {
	if len(t.Tokens) == 0 {
		return t.Text
	}
	var out string
	for _, child := range t.Tokens {
		out += child.PlainText()
	}
	return out
}

// PlainText flattens all visible text within the cell.
func (c TableCell) PlainText() string {
	if len(c.Tokens) == 0 {
		return c.Text
	}
	var out string
	for _, child := range c.Tokens {
		out += child.PlainText()
	}
	return out
}
