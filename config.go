package chat

import "github.com/umairqidwai1/YQ-Chatbot/internal/runtimeconfig"

var (
	ErrMaxDepthInvalid        = runtimeconfig.ErrMaxDepthInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrFilesBaseURLRequired   = runtimeconfig.ErrFilesBaseURLRequired
)

type (
	Config        = runtimeconfig.Config
	RenderConfig  = runtimeconfig.RenderConfig
	ParserConfig  = runtimeconfig.ParserConfig
	FilesConfig   = runtimeconfig.FilesConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
