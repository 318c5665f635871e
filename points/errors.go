package points

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("points: record not found")
	// ErrUnauthorized indicates the caller may not perform the operation.
	ErrUnauthorized = errors.New("points: unauthorized")
	// ErrValidation indicates a required submission field is absent.
	ErrValidation = errors.New("points: invalid submission")
)
