package codec

import "errors"

// Common codec errors. Callers match these with errors.Is; the wrapped
// message carries the offending type or field.
var (
	// ErrSerialization is returned when a value has no structural mapping
	// into the canonical Value form (functions, channels, NaN, ...).
	// Such values are never silently coerced.
	ErrSerialization = errors.New("value cannot be serialized")

	// ErrValidation is returned when a Value cannot be decoded into the
	// requested target shape (missing required field, kind mismatch).
	ErrValidation = errors.New("value does not match target shape")
)
