package usecase

import "errors"

// Sentinel errors for the turn pipeline
var (
	// Validation errors
	ErrMissingUserID  = errors.New("user_id is required")
	ErrMissingMessage = errors.New("message is required")

	// Quota errors
	ErrQuotaExceeded = errors.New("monthly query cap reached")
)

// Error tags reported in TurnMeta.Error
const (
	errTagValidation = "validation"
	errTagQuota      = "quota_exceeded"
	errTagInternal   = "internal"
)
