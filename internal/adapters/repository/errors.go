package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("athlete not found")
	ErrNoAnalysis  = errors.New("no analysis computed")
	ErrInvalidData = errors.New("invalid measurement data")
)
