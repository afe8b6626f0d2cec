package config

import "errors"

// Sentinel errors returned (wrapped) by the builder. Callers match them
// with errors.Is.
var (
	ErrFileDoesNotExist  = errors.New("config file does not exist")
	ErrReadConfigFail    = errors.New("failed to read config file")
	ErrConfigParsingFail = errors.New("failed to parse config file")
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrEnvFileFail       = errors.New("failed to load env file")
	ErrInvalidConfig     = errors.New("invalid config")
)
