package service

import "errors"

// Sentinel kinds for service lifecycle errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoSession  = errors.New("no session in progress")
	ErrNoActive   = errors.New("no active challenge")
)
