package fetch

import "errors"

var (
	// ErrStoreRequired is returned when a session store is not provided.
	ErrStoreRequired = errors.New("session store required")

	// ErrCatalogRequired is returned when a catalog provider is not provided.
	ErrCatalogRequired = errors.New("catalog provider required")

	// ErrTranscriptProviderRequired is returned when a transcript provider is not provided.
	ErrTranscriptProviderRequired = errors.New("transcript provider required")

	// ErrEmptyKeyword is returned when a session is requested with a blank keyword.
	ErrEmptyKeyword = errors.New("keyword must not be empty")
)
