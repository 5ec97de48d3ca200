package credentials

import "errors"

var (
	// ErrAuthFailure means the auth provider rejected the client
	// credentials (HTTP 401/403). Fatal: retrying invalid credentials is
	// pointless, so this class never consumes a retry budget.
	ErrAuthFailure = errors.New("client credentials rejected")

	// ErrTransientAuth means the token endpoint could not be reached.
	// The caller may retry the whole operation.
	ErrTransientAuth = errors.New("transient token endpoint failure")

	// ErrMalformedResponse means the token endpoint answered 2xx but the
	// payload carried no usable access token.
	ErrMalformedResponse = errors.New("malformed token response")
)
