package search

import "errors"

var (
	ErrBadQuery    = errors.New("search provider rejected the query")
	ErrRateLimited = errors.New("search provider rate limit exceeded")
	ErrServerError = errors.New("search provider internal error")
)
