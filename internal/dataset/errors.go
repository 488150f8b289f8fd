package dataset

import "errors"

// Common dataset errors.
var (
	// ErrUnset is returned when reading a label field that has not been
	// assigned yet. Callers may catch it and treat the row as
	// not-yet-labeled; writing the field always succeeds.
	ErrUnset = errors.New("label is unset")

	// ErrDuplicateID is returned when extending a dataset with a row
	// whose id is already present.
	ErrDuplicateID = errors.New("duplicate row id")

	// ErrRowInvalid is returned by Save when a row fails schema
	// validation; the save is aborted with no partial write.
	ErrRowInvalid = errors.New("row failed validation")

	// ErrUnknownSubset is returned when requesting a subset name that
	// was never declared.
	ErrUnknownSubset = errors.New("unknown subset")
)
