package rag

import "errors"

// Typed failure kinds surfaced at the question boundary. Every error the
// service returns wraps one of these, so callers can always name the stage
// that failed instead of showing a raw cause alone. Startup-time kinds live
// with their owners: ingest.ErrSourceUnavailable, vectorDB.ErrCollectionNotFound,
// vectorDB.ErrSchemaMismatch.
var (
	// ErrRetrievalFailed covers the query-time vector index path, including
	// the query embedding call. No answer is synthesized when it fires.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrGenerationFailed covers the model call. The turn is not recorded in
	// session history when it fires.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrConfigurationMissing means a required credential or path is absent.
	// Fatal at startup.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrEmptyQuestion rejects blank input before any external call.
	ErrEmptyQuestion = errors.New("empty question")
)
