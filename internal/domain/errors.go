package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrNoData indicates the catalog API yielded no usable data; callers
	// fall back to the static dataset rather than surfacing the failure.
	ErrNoData = errors.New("no data")
)
