package registry

import "errors"

var (
	ErrBadRequest   = errors.New("registry rejected the request")
	ErrUnauthorized = errors.New("registry authorization rejected")
	ErrNotFound     = errors.New("registry record not found")
	ErrRateLimited  = errors.New("registry rate limit exceeded")
	ErrServerError  = errors.New("registry internal error")
	ErrTranslation  = errors.New("registry record translation failed")
	ErrMissingCNPJ  = errors.New("no CNPJ found in supplier role")
)
