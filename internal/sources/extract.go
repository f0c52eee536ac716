// Package sources implements the citation extraction pass that runs over a
// top-level token sequence before rendering. Chat answers carry their
// references as a bolded "Sources:" paragraph followed by a list of links;
// the pass lifts those links out as structured records and removes the pair
// from the sequence.
package sources

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

const triggerPrefix = "sources:"

var markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)

type scanState int

const (
	stateScanning scanState = iota
	stateConsumedPair
)

// Scan walks the top-level sequence once and returns both the extracted
// records and the filtered complement. The scan never recurses into nested
// child sequences: a sources block inside a blockquote or list item is left
// alone. A matched paragraph+list pair is consumed atomically; a trigger
// paragraph without a following list stays in place untouched.
func Scan(toks []interfaces.Token) ([]interfaces.SourceRecord, []interfaces.Token) {
	var (
		records []interfaces.SourceRecord
		kept    []interfaces.Token
	)

	state := stateScanning
	i := 0
	for i < len(toks) {
		switch state {
		case stateConsumedPair:
			state = stateScanning

		case stateScanning:
			tok := toks[i]
			if isTrigger(tok) && i+1 < len(toks) && toks[i+1].Kind == interfaces.KindList {
				records = append(records, listRecords(toks[i+1])...)
				state = stateConsumedPair
				i += 2
				continue
			}
			kept = append(kept, tok)
			i++
		}
	}

	return records, kept
}

// Extract returns the records pulled from every recognized sources block, in
// document order.
func Extract(toks []interfaces.Token) []interfaces.SourceRecord {
	records, _ := Scan(toks)
	return records
}

// Filter returns the token sequence with every recognized sources pair
// removed, preserving original order.
func Filter(toks []interfaces.Token) []interfaces.Token {
	_, kept := Scan(toks)
	return kept
}

// isTrigger reports whether the token is a paragraph whose single inline
// child is a single strong node wrapping plain text that starts with the
// sources prefix.
func isTrigger(tok interfaces.Token) bool {
	if tok.Kind != interfaces.KindParagraph || len(tok.Tokens) != 1 {
		return false
	}

	strong := tok.Tokens[0]
	if strong.Kind != interfaces.KindStrong || len(strong.Tokens) != 1 {
		return false
	}

	text := strong.Tokens[0]
	if text.Kind != interfaces.KindText {
		return false
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text.Text)), triggerPrefix)
}

// listRecords converts list items into records. Items failing both the
// nested-link and literal-link matches are skipped silently.
func listRecords(list interfaces.Token) []interfaces.SourceRecord {
	var records []interfaces.SourceRecord
	for _, item := range list.Items {
		record, ok := itemRecord(item)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records
}

func itemRecord(item interfaces.ListItem) (interfaces.SourceRecord, bool) {
	if link, ok := firstLink(item.Tokens); ok {
		record := interfaces.SourceRecord{
			Title: strings.TrimSpace(link.PlainText()),
			URL:   strings.TrimSpace(link.Href),
		}
		if validRecord(record) {
			return record, true
		}
		return interfaces.SourceRecord{}, false
	}

	raw := item.Raw
	if raw == "" {
		raw = item.Text
	}
	if match := markdownLinkPattern.FindStringSubmatch(raw); match != nil {
		record := interfaces.SourceRecord{
			Title: strings.TrimSpace(match[1]),
			URL:   strings.TrimSpace(match[2]),
		}
		if validRecord(record) {
			return record, true
		}
	}

	return interfaces.SourceRecord{}, false
}

// firstLink finds the first link token nested anywhere under the item's
// children, depth-first.
func firstLink(toks []interfaces.Token) (interfaces.Token, bool) {
	for _, tok := range toks {
		if tok.Kind == interfaces.KindLink {
			return tok, true
		}
		if link, ok := firstLink(tok.Tokens); ok {
			return link, true
		}
	}
	return interfaces.Token{}, false
}

func validRecord(record interfaces.SourceRecord) bool {
	return validation.Validate(record.URL, validation.Required) == nil
}
