package tokens

import (
	"regexp"
	"strings"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// Chat responses carry collapsible sections as literal <details> blocks whose
// bodies stay raw markdown until render time. goldmark would fragment those
// blocks at blank lines, so details regions are lifted out of the source
// before the engine runs and re-parsed later by the renderer.

var (
	detailsPattern   = regexp.MustCompile(`(?s)<details([^>]*)>\s*(?:<summary[^>]*>(.*?)</summary>)?(.*?)</details>`)
	attributePattern = regexp.MustCompile(`([A-Za-z_][\w-]*)="([^"]*)"`)
)

type sourceSegment struct {
	markdown []byte
	details  *interfaces.Token
}

// splitDetails cuts the source into alternating plain-markdown and details
// segments, preserving original order.
func splitDetails(source []byte) []sourceSegment {
	matches := detailsPattern.FindAllSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return []sourceSegment{{markdown: source}}
	}

	var segments []sourceSegment
	cursor := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		if start > cursor {
			segments = append(segments, sourceSegment{markdown: source[cursor:start]})
		}

		token := detailsToken(source, match)
		segments = append(segments, sourceSegment{details: &token})
		cursor = end
	}
	if cursor < len(source) {
		segments = append(segments, sourceSegment{markdown: source[cursor:]})
	}

	return segments
}

func detailsToken(source []byte, match []int) interfaces.Token {
	raw := string(source[match[0]:match[1]])

	var attrText, summary, body string
	if match[2] >= 0 {
		attrText = string(source[match[2]:match[3]])
	}
	if match[4] >= 0 {
		summary = strings.TrimSpace(string(source[match[4]:match[5]]))
	}
	if match[6] >= 0 {
		body = strings.TrimSpace(string(source[match[6]:match[7]]))
	}
	if summary == "" {
		summary = "Details"
	}

	return interfaces.Token{
		Kind:       interfaces.KindDetails,
		Raw:        raw,
		Text:       body,
		Summary:    summary,
		Attributes: parseAttributes(attrText),
	}
}

func parseAttributes(attrText string) map[string]string {
	pairs := attributePattern.FindAllStringSubmatch(attrText, -1)
	if len(pairs) == 0 {
		return nil
	}

	attrs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		attrs[pair[1]] = pair[2]
	}
	return attrs
}
