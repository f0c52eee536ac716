package interfaces

import "time"

// Document represents a Markdown file with parsed metadata and content. The
// struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
}

// FrontMatter models metadata extracted from Markdown files. The Custom map
// keeps domain-specific values available without schema changes.
type FrontMatter struct {
	Title  string         `yaml:"title" json:"title"`
	Author string         `yaml:"author" json:"author"`
	Date   time.Time      `yaml:"date" json:"date"`
	Tags   []string       `yaml:"tags" json:"tags"`
	Custom map[string]any `yaml:",inline" json:"custom"`
	Raw    map[string]any `yaml:"-" json:"raw"`
}
