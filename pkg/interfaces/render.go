package interfaces

import "html/template"

// CodeRenderer renders fenced code blocks. Implementations own syntax
// highlighting; the token renderer only decides when to delegate.
type CodeRenderer interface {
	RenderCode(lang, code string, collapsed bool) (template.HTML, error)
}

// MathRenderer renders LaTeX expressions. displayMode selects block layout
// over inline layout.
type MathRenderer interface {
	RenderMath(expression string, displayMode bool) (template.HTML, error)
}

// HTMLRenderer renders raw HTML fragments. Sanitization is the renderer's
// responsibility, not the token renderer's.
type HTMLRenderer interface {
	RenderHTML(raw string) (template.HTML, error)
}

// Alert describes a recognized blockquote callout such as a note or warning.
type Alert struct {
	// Variant is the recognized callout name, lowercased (note, tip,
	// important, warning, caution).
	Variant string
	// Title is the display heading for the callout.
	Title string
	// Tokens holds the blockquote content with the marker line removed.
	Tokens []Token
}

// AlertClassifier inspects a blockquote token and reports whether it matches
// a recognized alert shape.
type AlertClassifier interface {
	Classify(blockquote Token) (Alert, bool)
}

// SourceRecord is one title/url citation extracted from a recognized
// "sources:" block. It is not part of the token grammar; records exist only
// as output of the extraction pass.
type SourceRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CSVArtifact is a generated table export: UTF-8 content with a leading
// byte-order mark and a deterministic filename.
type CSVArtifact struct {
	Filename string
	Content  []byte
}

// TaskToggleEvent reports a task-list checkbox interaction. The renderer
// forwards these to the host unchanged; it never updates tokens itself.
type TaskToggleEvent struct {
	ID         string
	Token      Token
	TokenIndex int
	Item       ListItem
	ItemIndex  int
	Checked    bool
}

// SaveEditEvent reports an edited code block the host should persist.
type SaveEditEvent struct {
	Raw        string
	OldContent string
	NewContent string
}

// Callbacks carries the outbound event hooks a host wires into a render
// pass. Every hook is optional; nil hooks drop the event. Hooks are invoked
// synchronously and must not assume a return path into the renderer.
type Callbacks struct {
	OnTaskToggle func(TaskToggleEvent)
	OnSaveEdit   func(SaveEditEvent)
	OnCSVExport  func(CSVArtifact)
}
