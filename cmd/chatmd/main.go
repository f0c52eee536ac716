package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	chat "github.com/umairqidwai1/YQ-Chatbot"
	"github.com/umairqidwai1/YQ-Chatbot/internal/document"
)

func main() {
	var (
		filePath      = flag.String("file", "", "Markdown file to render (frontmatter-aware; stdin when empty)")
		tokensPath    = flag.String("tokens", "", "Token JSON file to render instead of markdown")
		messageID     = flag.String("id", "", "Message identifier (generated when empty)")
		maxDepth      = flag.Int("max-depth", 0, "Override the maximum render nesting depth")
		collapseCode  = flag.Bool("collapse-code", false, "Render fenced code blocks collapsed")
		expandDetails = flag.Bool("expand-details", false, "Open collapsible sections by default")
		filesBaseURL  = flag.String("files-base-url", "", "Backend origin for {{file:id}} embeds (disabled when empty)")
		hardWraps     = flag.Bool("hard-wraps", false, "Treat single newlines as hard breaks")
		logLevel      = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
		emitTokens    = flag.Bool("emit-tokens", false, "Print the token JSON wire form instead of HTML")
		csvDir        = flag.String("csv-dir", "", "Directory to write table CSV exports into")
		showSources   = flag.Bool("sources", true, "Print extracted source records after the markup")
	)

	flag.Parse()

	if *filePath != "" && *tokensPath != "" {
		log.Fatalf("--file and --tokens are mutually exclusive")
	}

	cfg := chat.DefaultConfig()
	cfg.Render.CollapseCodeBlocks = *collapseCode
	cfg.Render.ExpandDetails = *expandDetails
	if *maxDepth > 0 {
		cfg.Render.MaxDepth = *maxDepth
	}
	cfg.Parser.HardWraps = *hardWraps
	cfg.Logging.Level = *logLevel
	if *filesBaseURL != "" {
		cfg.Files.Enabled = true
		cfg.Files.BaseURL = *filesBaseURL
	}

	svc, err := chat.New(cfg)
	if err != nil {
		log.Fatalf("configure renderer: %v", err)
	}

	ctx := context.Background()

	var result chat.RenderResult
	switch {
	case *tokensPath != "":
		payload, err := os.ReadFile(*tokensPath)
		if err != nil {
			log.Fatalf("read tokens: %v", err)
		}
		toks, err := chat.DecodeTokens(payload)
		if err != nil {
			log.Fatalf("decode tokens: %v", err)
		}
		if *emitTokens {
			printTokens(toks)
			return
		}
		result, err = svc.RenderTokens(ctx, toks, *messageID)
		if err != nil {
			log.Fatalf("render tokens: %v", err)
		}
	default:
		body, meta, err := readMarkdown(*filePath)
		if err != nil {
			log.Fatalf("read markdown: %v", err)
		}
		if meta != nil {
			if encoded, err := json.MarshalIndent(meta, "", "  "); err == nil {
				fmt.Fprintf(os.Stderr, "Frontmatter:\n%s\n", encoded)
			}
		}
		if *emitTokens {
			toks, err := svc.Tokenize(body)
			if err != nil {
				log.Fatalf("tokenize markdown: %v", err)
			}
			printTokens(toks)
			return
		}
		result, err = svc.RenderMessage(ctx, body, *messageID)
		if err != nil {
			log.Fatalf("render markdown: %v", err)
		}
	}

	fmt.Fprintln(os.Stdout, string(result.HTML))

	if *showSources && len(result.Sources) > 0 {
		fmt.Fprintln(os.Stderr, "Sources:")
		for _, record := range result.Sources {
			fmt.Fprintf(os.Stderr, "  %s  %s\n", record.Title, record.URL)
		}
	}

	if *csvDir != "" {
		for _, artifact := range result.Artifacts {
			target := filepath.Join(*csvDir, artifact.Filename)
			if err := os.WriteFile(target, artifact.Content, 0o644); err != nil {
				log.Fatalf("write csv export %s: %v", target, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", target)
		}
	}
}

// readMarkdown loads the message body, splitting frontmatter off when the
// input is a file. Stdin input is rendered verbatim.
func readMarkdown(path string) ([]byte, map[string]any, error) {
	if path == "" {
		body, err := io.ReadAll(os.Stdin)
		return body, nil, err
	}

	doc, err := document.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return doc.Body, doc.FrontMatter.Raw, nil
}

func printTokens(toks []chat.Token) {
	encoded, err := chat.EncodeTokens(toks)
	if err != nil {
		log.Fatalf("encode tokens: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(encoded))
}
