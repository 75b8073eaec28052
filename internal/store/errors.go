package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrDecode is returned when a stored payload cannot be decompressed
	// or parsed. At load time this is recovered from the backup slot
	// where possible; it propagates only when both slots are corrupt.
	ErrDecode = errors.New("stored progress payload cannot be decoded")

	// ErrWriteVerification is returned when a save could not be verified
	// as stored correctly. The primary slot has already been rolled back
	// to the backup when this error is returned.
	ErrWriteVerification = errors.New("progress save could not be verified")

	// ErrInvalidImport is returned when an import payload fails
	// validation. Storage is not mutated.
	ErrInvalidImport = errors.New("import payload is invalid")

	// ErrNothingToExport is returned by Export when no aggregate is
	// stored.
	ErrNothingToExport = errors.New("no stored progress to export")
)

// IsDecodeError reports whether err is a decode failure.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsWriteVerificationError reports whether err is a failed-save error,
// meaning the latest change may not be durable.
func IsWriteVerificationError(err error) bool {
	return errors.Is(err, ErrWriteVerification)
}

// decodeErr wraps a low-level failure as a decode error.
func decodeErr(cause error) error {
	return fmt.Errorf("%w: %v", ErrDecode, cause)
}
