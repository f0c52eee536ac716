package interfaces

// Tokenizer converts raw Markdown into the block token sequence consumed by
// the renderer. Implementations should be stateless so callers can reuse a
// single instance across messages without additional locking. The renderer
// itself holds a Tokenizer to re-parse details bodies, which are stored as
// unparsed raw text.
type Tokenizer interface {
	// Tokenize converts markdown into tokens using the tokenizer's default
	// settings.
	Tokenize(markdown []byte) ([]Token, error)
	// TokenizeWithOptions converts markdown into tokens using the supplied
	// overrides.
	TokenizeWithOptions(markdown []byte, opts ParseOptions) ([]Token, error)
}

// ParseOptions customises Markdown tokenizing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
}
