package md

import "errors"

var (
	// ErrMissingAttribute indicates a required directive attribute is absent or empty.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrInvalidURL indicates a URL-like attribute is neither root-relative nor http(s).
	ErrInvalidURL = errors.New("invalid url")
	// ErrManifestUnavailable indicates a comic manifest could not be read.
	ErrManifestUnavailable = errors.New("manifest unavailable")
	// ErrManifestInvalid indicates a comic manifest could not be parsed.
	ErrManifestInvalid = errors.New("manifest invalid")
)
