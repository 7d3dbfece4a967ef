package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrMissingCredentials signals that no token or cookie was presented at all.
	ErrMissingCredentials = errors.New("authentication required")
	// ErrInvalidSignature hides why the wallet signature check failed.
	ErrInvalidSignature = errors.New("invalid wallet signature")
	// ErrInvalidToken covers bad signatures and malformed tokens at the
	// cryptographic layer. Expiry gets its own sentinel so clients can
	// trigger a silent refresh instead of a full re-login.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	// ErrWrongTokenType marks a cryptographically valid token presented
	// for the wrong purpose, e.g. a refresh token used as a bearer credential.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrInsufficientRole is the only 403-class failure: authenticated
	// but the role rule table denies the required role.
	ErrInsufficientRole = errors.New("insufficient permissions")
	ErrSessionNotFound  = errors.New("no session for token")
	ErrSessionInactive  = errors.New("session revoked")
	ErrSessionExpired   = errors.New("session expired")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
)
