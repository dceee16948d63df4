package service

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrUnknownBundle       = errors.New("unknown credit bundle")
	ErrInvalidPrivacyLevel = errors.New("invalid privacy level")
	ErrMintUnavailable     = errors.New("reputation minting unavailable")
)
