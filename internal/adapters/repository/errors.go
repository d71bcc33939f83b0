package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrDuplicateSession = errors.New("session already saved")
	ErrInvalidLimit     = errors.New("invalid history limit")
	ErrClosed           = errors.New("store closed")
)
