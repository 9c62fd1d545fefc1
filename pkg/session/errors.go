package session

import "errors"

var (
	// ErrSessionNotFound indicates no session was found for the presented token
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has passed its deadline
	ErrSessionExpired = errors.New("session.expired")

	// ErrInvalidSession indicates a malformed or unusable session record
	ErrInvalidSession = errors.New("session.invalid")

	// ErrAlreadyStarted indicates a configuration call arrived after the
	// manager had already started a session
	ErrAlreadyStarted = errors.New("session.already_started")

	// ErrUndefinedVariable is the recoverable diagnostic returned by
	// Section.Get for an absent key when WarnOnUndefined is enabled
	ErrUndefinedVariable = errors.New("session.undefined_variable")

	// ErrExpirationExceedsSession indicates a requested expiration was
	// clamped to the session-level deadline
	ErrExpirationExceedsSession = errors.New("session.expiration_exceeds_session")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoTransport indicates no transport is configured
	ErrNoTransport = errors.New("session.no_transport")

	// ErrInvalidAutoStart indicates an unknown auto-start mode in configuration
	ErrInvalidAutoStart = errors.New("session.invalid_auto_start")

	// ErrInvalidConfig indicates an inconsistent configuration value
	ErrInvalidConfig = errors.New("session.invalid_config")
)
