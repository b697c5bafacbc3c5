package contact

import "errors"

// Sentinel errors for caller-checkable conditions.
var (
	// ErrInvalidPhone and ErrInvalidBirthday are validation failures.
	ErrInvalidPhone    = errors.New("contact: phone must be exactly 10 digits")
	ErrInvalidBirthday = errors.New("contact: birthday must be a valid DD-MM-YYYY date")

	// ErrPhoneNotFound is returned when a record has no phone with the requested value.
	ErrPhoneNotFound = errors.New("contact: phone not found")

	// ErrCorruptSnapshot is returned when a snapshot file cannot be decoded.
	ErrCorruptSnapshot = errors.New("contact: corrupt snapshot")
)
