package domain

import "errors"

var (
	// ErrNotFound is returned when a room code or category key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExpired is returned for a room code past its TTL. It is deliberately
	// distinct from ErrNotFound so students learn why entry failed.
	ErrExpired = errors.New("room code expired")
	// ErrDuplicateKey is returned when a new category derives an existing key.
	ErrDuplicateKey = errors.New("category key already exists")
	// ErrInvalidState is returned for actions fired outside the phase or
	// selection state that permits them.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation is returned for missing or malformed admin input.
	ErrValidation = errors.New("validation failed")
	// ErrImportFormat is returned when a backup file lacks the categories field.
	ErrImportFormat = errors.New("invalid import file")
	// ErrBadCredentials is returned when the admin login check fails.
	ErrBadCredentials = errors.New("incorrect credentials")
)
