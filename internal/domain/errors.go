package domain

import "errors"

var (
	ErrQueryInFlight     = errors.New("a query is already running for this session")
	ErrSessionNotFound   = errors.New("session not found in history")
	ErrDirectoryMismatch = errors.New("session was saved for a different working directory")
)
