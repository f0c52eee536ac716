package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// Citation cards truncate long titles: anything past truncateThreshold runes
// is cut to truncateLength runes plus an ellipsis.
const (
	truncateLength    = 45
	truncateThreshold = 48
)

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`)

// YouTubeVideoID extracts the 11-character video id from a YouTube watch or
// share URL. Non-YouTube URLs report false.
func YouTubeVideoID(url string) (string, bool) {
	match := youtubeIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// TruncateTitle shortens citation titles for card display.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= truncateThreshold {
		return title
	}
	return string(runes[:truncateLength]) + "…"
}

// Citations renders the citation strip appended after a message body: one
// card per extracted record, each linking to its url, with a YouTube
// thumbnail when the url matches a recognized video pattern. Zero records
// render nothing.
func (r *Renderer) Citations(records []interfaces.SourceRecord) template.HTML {
	if len(records) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString(`<div class="citations">`)
	for _, record := range records {
		out.WriteString(`<a class="citation-card" href="`)
		out.WriteString(template.HTMLEscapeString(record.URL))
		out.WriteString(`" target="_blank" rel="noopener noreferrer">`)

		if videoID, ok := YouTubeVideoID(record.URL); ok {
			if thumb, err := r.thumbnailURL(videoID); err == nil {
				fmt.Fprintf(&out, `<img class="citation-thumb" src="%s" alt=""/>`,
					template.HTMLEscapeString(thumb))
			}
		}

		title := TruncateTitle(record.Title)
		if title == "" {
			title = record.URL
		}
		fmt.Fprintf(&out, `<span class="citation-title">%s</span>`,
			template.HTMLEscapeString(title))
		out.WriteString("</a>")
	}
	out.WriteString("</div>")

	return template.HTML(out.String())
}

func (r *Renderer) thumbnailURL(videoID string) (string, error) {
	if r.urls != nil {
		return r.urls.ThumbnailURL(videoID)
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/0.jpg", videoID), nil
}
