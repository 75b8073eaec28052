package domain

import "errors"

// Common validation errors for domain entities.
var (
	// ErrInvalidQuality is returned when a review quality score falls
	// outside the 0..5 range accepted by the scheduler.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvalidStatus is returned when an item carries an unknown
	// lifecycle status, typically after decoding untrusted data.
	ErrInvalidStatus = errors.New("invalid item status")

	// ErrInvalidConfidence is returned when confidence is outside [0, 1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

	// ErrInvalidDifficulty is returned when difficulty is outside [0, 1].
	ErrInvalidDifficulty = errors.New("difficulty must be between 0 and 1")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when the ease factor is below the
	// SM-2 floor of 1.3.
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")

	// ErrUnknownAction is returned when the state machine receives an
	// action kind it has no transition for. New action kinds must be
	// routed through explicit branches, never silently dropped.
	ErrUnknownAction = errors.New("unknown progress action")

	// ErrEmptyUserID is returned when an aggregate has no user identity.
	ErrEmptyUserID = errors.New("progress user ID cannot be empty")

	// ErrEmptyVersion is returned when an aggregate has no schema version.
	ErrEmptyVersion = errors.New("progress schema version cannot be empty")

	// ErrNilKanaProgress is returned when an aggregate has no item map.
	ErrNilKanaProgress = errors.New("progress item map cannot be nil")
)
