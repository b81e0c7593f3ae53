package analysis

import "errors"

var (
	// ErrAnalyzerRequired is returned when a relevance analyzer is not provided.
	ErrAnalyzerRequired = errors.New("relevance analyzer required")

	// ErrGeneratorRequired is returned when an answer generator is not provided.
	ErrGeneratorRequired = errors.New("answer generator required")

	// ErrSessionRequired is returned when a session is not provided.
	ErrSessionRequired = errors.New("session required")
)
