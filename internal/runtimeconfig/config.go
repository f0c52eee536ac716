package runtimeconfig

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrMaxDepthInvalid rejects non-positive recursion limits.
var ErrMaxDepthInvalid = errors.New("chat config: render max depth must be positive")

// ErrLoggingProviderUnknown rejects unsupported logging providers.
var ErrLoggingProviderUnknown = errors.New("chat config: logging provider is invalid")

// ErrLoggingLevelInvalid rejects unsupported logging levels.
var ErrLoggingLevelInvalid = errors.New("chat config: logging level is invalid")

// ErrLoggingFormatInvalid rejects unsupported logging formats.
var ErrLoggingFormatInvalid = errors.New("chat config: logging format is invalid")

// ErrFilesBaseURLRequired rejects embed rendering without a backend base URL.
var ErrFilesBaseURLRequired = errors.New("chat config: files base URL is required when embeds are enabled")

// Config aggregates render behaviour and adapter bindings for the chat
// markdown module. Fields intentionally use simple types so host applications
// can unmarshal them from any configuration surface.
type Config struct {
	Render  RenderConfig
	Parser  ParserConfig
	Files   FilesConfig
	Logging LoggingConfig
}

// RenderConfig captures the view preferences the renderer used to read from
// ambient state. They are threaded explicitly into every render pass.
type RenderConfig struct {
	// CollapseCodeBlocks renders fenced code blocks collapsed by default.
	CollapseCodeBlocks bool
	// ExpandDetails opens collapsible sections by default.
	ExpandDetails bool
	// MaxDepth bounds renderer recursion. Exceeding it fails the render
	// pass instead of exhausting the stack on pathological input.
	MaxDepth int
}

// ParserConfig customises the goldmark-backed tokenizer.
type ParserConfig struct {
	Extensions []string
	HardWraps  bool
}

// FilesConfig configures file-embed URL construction.
type FilesConfig struct {
	// Enabled toggles iframe rendering. Disabled embeds render nothing.
	Enabled bool
	// BaseURL is the chat backend origin file-content URLs are built from.
	BaseURL string
}

// LoggingConfig selects the logging provider wired into the module.
type LoggingConfig struct {
	Enabled   bool
	Provider  string
	Level     string
	Format    string
	AddSource bool
}

// DefaultConfig returns the baseline configuration for hosts that want the
// module's stock behaviour.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			CollapseCodeBlocks: false,
			ExpandDetails:      false,
			MaxDepth:           64,
		},
		Parser: ParserConfig{
			Extensions: []string{"gfm", "tasklist"},
		},
		Files: FilesConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Enabled:  true,
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate checks invariants across the configuration tree, translating rule
// failures into the package's sentinel errors so callers can branch on them.
func Validate(cfg Config) error {
	if err := validation.ValidateStruct(&cfg.Render,
		validation.Field(&cfg.Render.MaxDepth, validation.Required, validation.Min(1)),
	); err != nil {
		return ErrMaxDepthInvalid
	}

	if cfg.Files.Enabled && strings.TrimSpace(cfg.Files.BaseURL) == "" {
		return ErrFilesBaseURLRequired
	}

	if cfg.Logging.Enabled {
		if err := validation.ValidateStruct(&cfg.Logging,
			validation.Field(&cfg.Logging.Provider, validation.Required, validation.In("gologger", "noop")),
		); err != nil {
			return ErrLoggingProviderUnknown
		}
		if err := validation.ValidateStruct(&cfg.Logging,
			validation.Field(&cfg.Logging.Level, validation.In("", "trace", "debug", "info", "warn", "warning", "error", "fatal")),
		); err != nil {
			return ErrLoggingLevelInvalid
		}
		if err := validation.ValidateStruct(&cfg.Logging,
			validation.Field(&cfg.Logging.Format, validation.In("", "json", "console", "pretty")),
		); err != nil {
			return ErrLoggingFormatInvalid
		}
	}

	return nil
}
