package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrInvalidCode = errors.New("invalid code")
	ErrExpiredCode = errors.New("code expired")
	ErrDelivery    = errors.New("delivery failed")
	ErrStorage     = errors.New("storage failure")
	ErrUnauthorized = errors.New("unauthorized")
)
