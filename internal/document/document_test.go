package document

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatter(t *testing.T) {
	doc, err := Load("testdata/basic.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fm := doc.FrontMatter
	if fm.Title != "Sample Answer" {
		t.Fatalf("Title mismatch, got %q", fm.Title)
	}
	if fm.Author != "assistant" {
		t.Fatalf("Author mismatch, got %q", fm.Author)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "chat" {
		t.Fatalf("Tags mismatch: %#v", fm.Tags)
	}
	if fm.Custom["pinned"] != true {
		t.Fatalf("Custom pinned missing: %#v", fm.Custom)
	}
	if fm.Raw["title"] != "Sample Answer" {
		t.Fatalf("Raw title missing: %#v", fm.Raw)
	}

	body := string(doc.Body)
	if !strings.Contains(body, "# Sample Answer") {
		t.Fatalf("body not returned correctly: %q", body)
	}
	if strings.Contains(body, "title:") {
		t.Fatalf("frontmatter delimiters must be stripped: %q", body)
	}
}

func TestBuildWithoutFrontMatter(t *testing.T) {
	doc, err := Build("inline.md", []byte("plain body\n"), time.Now().UTC())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.FrontMatter.Title != "" {
		t.Fatalf("expected empty frontmatter, got %#v", doc.FrontMatter)
	}
	if string(doc.Body) != "plain body\n" {
		t.Fatalf("body mismatch: %q", doc.Body)
	}
}
