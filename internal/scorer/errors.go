package scorer

import "errors"

var (
	ErrNotConfigured = errors.New("scorer_not_configured")
	ErrSourceMissing = errors.New("bundle_source_missing")
)
