package domain

import "errors"

// Stage classifications. Adapters wrap the underlying cause together with one of these.
var (
	ErrResolution         = errors.New("journal resolution failed")
	ErrTOCFetch           = errors.New("table of contents fetch failed")
	ErrDetailFetch        = errors.New("article detail fetch failed")
	ErrMetadataExtraction = errors.New("embedded metadata extraction failed")
	ErrRender             = errors.New("description render failed")
)
