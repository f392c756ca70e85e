package services

import "errors"

// Sentinel errors for the metering subsystem. Handlers map these onto HTTP
// statuses; anything else surfaces as an upstream failure (500). Quota and
// rate-limit denials are never retried.
var (
	// ErrQuotaExceeded covers both internal quota denials and provider-side
	// throttling; clients cannot distinguish the two.
	ErrQuotaExceeded = errors.New("Quota Exceeded")

	// ErrRateLimited is the hazard-scan sliding-window denial.
	ErrRateLimited = errors.New("rate_limit_exceeded")

	// ErrValidation flags missing or malformed request fields.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound flags a missing (or not owned) resource.
	ErrNotFound = errors.New("not found")
)
