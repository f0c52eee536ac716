// Package document loads markdown documents from disk, splitting YAML
// frontmatter from the body so the CLI and pipeline can work with annotated
// chat transcripts and fixture files.
package document

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and markdown body content from the
// provided source bytes. It returns the structured frontmatter, the body
// without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// Load reads a markdown file and assembles an interfaces.Document from it.
func Load(path string) (*interfaces.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("document: stat %s: %w", path, err)
	}

	return Build(path, data, info.ModTime().UTC())
}

// Build assembles a document from raw content and a modification time.
func Build(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title"`
	Author string         `yaml:"author"`
	Date   time.Time      `yaml:"date"`
	Tags   []string       `yaml:"tags"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+4)
	for key, value := range env.Custom {
		raw[key] = value
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}

	return interfaces.FrontMatter{
		Title:  env.Title,
		Author: env.Author,
		Date:   env.Date,
		Tags:   append([]string(nil), env.Tags...),
		Custom: cloneMap(env.Custom),
		Raw:    raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
