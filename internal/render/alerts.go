package render

import (
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// GitHub-style callout convention: a blockquote whose first line is a
// [!VARIANT] marker renders as a styled alert instead of a plain quote.
var alertMarkerPattern = regexp.MustCompile(`^\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]\s*`)

// GitHubAlertClassifier recognizes the [!NOTE] family of blockquote markers.
type GitHubAlertClassifier struct{}

// NewAlertClassifier constructs the stock classifier.
func NewAlertClassifier() *GitHubAlertClassifier {
	return &GitHubAlertClassifier{}
}

// Classify satisfies interfaces.AlertClassifier. The marker line is removed
// from the returned content tokens; the rest of the quote passes through
// untouched.
func (g *GitHubAlertClassifier) Classify(blockquote interfaces.Token) (interfaces.Alert, bool) {
	if blockquote.Kind != interfaces.KindBlockquote || len(blockquote.Tokens) == 0 {
		return interfaces.Alert{}, false
	}

	first := blockquote.Tokens[0]
	if first.Kind != interfaces.KindParagraph && first.Kind != interfaces.KindText {
		return interfaces.Alert{}, false
	}

	match := alertMarkerPattern.FindString(strings.TrimSpace(first.PlainText()))
	if match == "" {
		return interfaces.Alert{}, false
	}

	variant := strings.ToLower(strings.Trim(strings.TrimSpace(match), "[!]"))
	content := append([]interfaces.Token{}, blockquote.Tokens...)
	if stripped, ok := stripMarker(first); ok {
		content[0] = stripped
	} else {
		content = content[1:]
	}

	return interfaces.Alert{
		Variant: variant,
		Title:   strings.ToUpper(variant[:1]) + variant[1:],
		Tokens:  content,
	}, true
}

// stripMarker removes the alert marker from the paragraph's leading text
// token. Paragraphs that are nothing but the marker report false so the
// caller drops them entirely.
func stripMarker(first interfaces.Token) (interfaces.Token, bool) {
	if len(first.Tokens) == 0 {
		rest := alertMarkerPattern.ReplaceAllString(strings.TrimSpace(first.Text), "")
		if rest == "" {
			return interfaces.Token{}, false
		}
		out := first
		out.Text = rest
		return out, true
	}

	children := append([]interfaces.Token{}, first.Tokens...)
	lead := children[0]
	if lead.Kind != interfaces.KindText {
		return first, true
	}

	rest := alertMarkerPattern.ReplaceAllString(strings.TrimLeft(lead.Text, " \t"), "")
	rest = strings.TrimLeft(rest, "\n")
	if rest == "" {
		children = children[1:]
	} else {
		lead.Text = rest
		children[0] = lead
	}
	if len(children) == 0 {
		return interfaces.Token{}, false
	}

	out := first
	out.Tokens = children
	return out, true
}

func (r *Renderer) renderAlert(ctx context.Context, out *strings.Builder, alert interfaces.Alert, idx int, rctx Context) error {
	fmt.Fprintf(out, `<div class="alert alert-%s"><p class="alert-title">%s</p>`,
		template.HTMLEscapeString(alert.Variant),
		template.HTMLEscapeString(alert.Title),
	)
	if err := r.renderSequence(ctx, out, alert.Tokens, rctx.child(idx, "alert", false)); err != nil {
		return err
	}
	out.WriteString("</div>")
	return nil
}

var _ interfaces.AlertClassifier = (*GitHubAlertClassifier)(nil)
