package repository

import "errors"

var (
	ErrNotFound            = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrCacheMiss           = errors.New("cache miss")
)
