package chat

import (
	"context"
	"html/template"

	"github.com/google/uuid"
	"github.com/umairqidwai1/YQ-Chatbot/internal/embeds"
	"github.com/umairqidwai1/YQ-Chatbot/internal/logging"
	"github.com/umairqidwai1/YQ-Chatbot/internal/logging/gologger"
	"github.com/umairqidwai1/YQ-Chatbot/internal/render"
	"github.com/umairqidwai1/YQ-Chatbot/internal/runtimeconfig"
	"github.com/umairqidwai1/YQ-Chatbot/internal/sources"
	"github.com/umairqidwai1/YQ-Chatbot/internal/tokens"
	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// Token exports the block token DTO consumed and produced by the module.
type Token = interfaces.Token

// TokenKind exports the token discriminator.
type TokenKind = interfaces.TokenKind

// ListItem exports the list item DTO.
type ListItem = interfaces.ListItem

// SourceRecord exports the extracted citation record.
type SourceRecord = interfaces.SourceRecord

// CSVArtifact exports the table export artifact.
type CSVArtifact = interfaces.CSVArtifact

// Callbacks exports the outbound event hooks a host can wire in.
type Callbacks = interfaces.Callbacks

// TaskToggleEvent exports the task checkbox event DTO.
type TaskToggleEvent = interfaces.TaskToggleEvent

// SaveEditEvent exports the code edit event DTO.
type SaveEditEvent = interfaces.SaveEditEvent

// Tokenizer exports the markdown tokenizer contract.
type Tokenizer = interfaces.Tokenizer

// CodeRenderer exports the syntax highlighting collaborator contract.
type CodeRenderer = interfaces.CodeRenderer

// MathRenderer exports the math markup collaborator contract.
type MathRenderer = interfaces.MathRenderer

// HTMLRenderer exports the raw HTML collaborator contract.
type HTMLRenderer = interfaces.HTMLRenderer

// Logger exports the structured logger contract.
type Logger = interfaces.Logger

// LoggerProvider exports the named-logger provider contract.
type LoggerProvider = interfaces.LoggerProvider

// ErrDepthExceeded reports a render pass that recursed past the configured
// maximum depth.
var ErrDepthExceeded = render.ErrDepthExceeded

// RenderResult bundles the output of one message render pass: the message
// body markup, the citation records lifted out of it, and any CSV exports
// generated for tables in the message.
type RenderResult struct {
	HTML      template.HTML
	Sources   []SourceRecord
	Artifacts []CSVArtifact
}

// Service is the top level runtime facade. It composes the tokenizer, the
// source extraction pass, and the token renderer into a single message
// pipeline.
type Service struct {
	cfg          runtimeconfig.Config
	tokenizer    interfaces.Tokenizer
	urls         *embeds.URLBuilder
	callbacks    interfaces.Callbacks
	logger       interfaces.Logger
	tokensLog    interfaces.Logger
	sourcesLog   interfaces.Logger
	renderLog    interfaces.Logger
	citationsLog interfaces.Logger
	provider     interfaces.LoggerProvider
	baseOpts     []render.Option
}

// Option customises service construction.
type Option func(*Service)

// WithCallbacks wires the host's outbound event hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(s *Service) { s.callbacks = cb }
}

// WithTokenizer replaces the goldmark-backed tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(s *Service) { s.tokenizer = t }
}

// WithCodeRenderer replaces the chroma-backed code collaborator.
func WithCodeRenderer(c CodeRenderer) Option {
	return func(s *Service) { s.baseOpts = append(s.baseOpts, render.WithCodeRenderer(c)) }
}

// WithMathRenderer replaces the stock math collaborator.
func WithMathRenderer(m MathRenderer) Option {
	return func(s *Service) { s.baseOpts = append(s.baseOpts, render.WithMathRenderer(m)) }
}

// WithHTMLRenderer replaces the sanitizing HTML collaborator.
func WithHTMLRenderer(h HTMLRenderer) Option {
	return func(s *Service) { s.baseOpts = append(s.baseOpts, render.WithHTMLRenderer(h)) }
}

// WithLogger overrides the logger wired from the logging configuration. The
// supplied logger serves every module namespace.
func WithLogger(logger Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithLoggerProvider overrides the provider the module-scoped loggers are
// resolved from, replacing the one the logging configuration would build.
func WithLoggerProvider(provider LoggerProvider) Option {
	return func(s *Service) { s.provider = provider }
}

// New validates the configuration and assembles the message pipeline.
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := runtimeconfig.Validate(cfg); err != nil {
		return nil, err
	}

	svc := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		provider := svc.provider
		if provider == nil {
			built, err := buildProvider(cfg.Logging)
			if err != nil {
				return nil, err
			}
			provider = built
		}
		svc.logger = logging.ModuleLogger(provider, "")
		svc.tokensLog = logging.TokensLogger(provider)
		svc.sourcesLog = logging.SourcesLogger(provider)
		svc.renderLog = logging.RenderLogger(provider)
		svc.citationsLog = logging.CitationsLogger(provider)
	} else {
		// A host-supplied logger serves every module namespace.
		svc.tokensLog = svc.logger
		svc.sourcesLog = svc.logger
		svc.renderLog = svc.logger
		svc.citationsLog = svc.logger
	}

	if svc.tokenizer == nil {
		svc.tokenizer = tokens.NewGoldmarkTokenizer(interfaces.ParseOptions{
			Extensions: cfg.Parser.Extensions,
			HardWraps:  cfg.Parser.HardWraps,
		})
	}

	if cfg.Files.Enabled {
		svc.urls = embeds.NewURLBuilder(cfg.Files.BaseURL)
	}

	return svc, nil
}

// buildProvider resolves the logger provider selected by the logging
// configuration. A nil provider keeps every module logger a no-op.
func buildProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return gologger.NewProvider(gologger.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
	})
}

// renderer assembles a token renderer sharing the service's collaborators.
// The callbacks argument lets RenderMessage intercept CSV exports without
// mutating the host-provided hooks.
func (s *Service) renderer(cb interfaces.Callbacks) *render.Renderer {
	opts := append([]render.Option{
		render.WithTokenizer(s.tokenizer),
		render.WithLogger(s.renderLog),
		render.WithCallbacks(cb),
	}, s.baseOpts...)
	if s.urls != nil {
		opts = append(opts, render.WithURLBuilder(s.urls))
	}
	return render.New(s.cfg.Render, opts...)
}

// Tokenize converts raw markdown into the module's block token sequence.
func (s *Service) Tokenize(markdown []byte) ([]Token, error) {
	toks, err := s.tokenizer.Tokenize(markdown)
	if err != nil {
		s.tokensLog.Error("tokenize failed", "error", err)
		return nil, err
	}
	s.tokensLog.Debug("markdown tokenized", "bytes", len(markdown), "tokens", len(toks))
	return toks, nil
}

// RenderMessage runs the full pipeline for one chat message: tokenize the
// markdown, lift out citation records, render the remaining tokens, and
// append the citation strip. The id keys DOM-adjacent identifiers and CSV
// filenames; a fresh one is generated when empty.
func (s *Service) RenderMessage(ctx context.Context, markdown []byte, id string) (RenderResult, error) {
	toks, err := s.Tokenize(markdown)
	if err != nil {
		return RenderResult{}, err
	}
	return s.RenderTokens(ctx, toks, id)
}

// RenderTokens runs the pipeline over an already tokenized message, e.g. one
// decoded from its JSON wire form.
func (s *Service) RenderTokens(ctx context.Context, toks []Token, id string) (RenderResult, error) {
	if id == "" {
		id = uuid.NewString()
	}

	records, remaining := sources.Scan(toks)
	if len(records) > 0 {
		s.sourcesLog.Debug("sources extracted", "id", id, "records", len(records))
	}

	var artifacts []CSVArtifact
	cb := s.callbacks
	hostExport := cb.OnCSVExport
	cb.OnCSVExport = func(artifact interfaces.CSVArtifact) {
		artifacts = append(artifacts, artifact)
		if hostExport != nil {
			hostExport(artifact)
		}
	}

	renderer := s.renderer(cb)
	body, err := renderer.Render(ctx, remaining, render.Context{ID: id, Top: true})
	if err != nil {
		return RenderResult{}, err
	}

	markup := string(body)
	if citations := renderer.Citations(records); citations != "" {
		markup += string(citations)
		s.citationsLog.Debug("citation strip appended", "id", id, "records", len(records))
	}

	s.logger.Debug("message rendered",
		"id", id, "tokens", len(remaining), "sources", len(records), "artifacts", len(artifacts))

	return RenderResult{
		HTML:      template.HTML(markup),
		Sources:   records,
		Artifacts: artifacts,
	}, nil
}

// ExtractSources returns the citation records a token sequence would yield
// without rendering it.
func (s *Service) ExtractSources(toks []Token) []SourceRecord {
	return sources.Extract(toks)
}

// ToggleTask validates a task checkbox interaction against the token
// sequence and forwards it to the host's OnTaskToggle hook.
func (s *Service) ToggleTask(id string, toks []Token, tokenIdx, itemIdx int, checked bool) error {
	return s.renderer(s.callbacks).ToggleTask(id, toks, tokenIdx, itemIdx, checked)
}

// SaveCodeEdit forwards an edited code block to the host's OnSaveEdit hook.
func (s *Service) SaveCodeEdit(raw, oldContent, newContent string) {
	s.renderer(s.callbacks).SaveCodeEdit(raw, oldContent, newContent)
}

// TableCSV builds the CSV export artifact for a table token.
func TableCSV(tok Token, id string, tokenIdx int) CSVArtifact {
	return render.TableCSV(tok, id, tokenIdx)
}

// EncodeTokens serialises a token sequence to its JSON wire form.
func EncodeTokens(toks []Token) ([]byte, error) {
	return tokens.EncodeJSON(toks)
}

// DecodeTokens parses and schema-validates a token sequence from its JSON
// wire form.
func DecodeTokens(data []byte) ([]Token, error) {
	return tokens.DecodeJSON(data)
}
