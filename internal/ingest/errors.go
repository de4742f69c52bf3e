package ingest

import "errors"

var (
	// ErrSourceRootMissing means a whole upstream tree (cases root or README) could not be read.
	ErrSourceRootMissing = errors.New("source root missing")
	// ErrMalformedSource means a descriptor or README exists but cannot be decoded.
	ErrMalformedSource = errors.New("malformed source")
)
