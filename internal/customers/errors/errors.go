package errors

import "errors"

var (
	// ErrNotFound is returned when a customer lookup yields no document
	ErrNotFound = errors.New("customer not found")
	// ErrInvalidID is returned when a customer ID fails format validation
	ErrInvalidID = errors.New("invalid customer ID format")
	// ErrMissingFields is returned when a candidate lacks name or phone
	ErrMissingFields = errors.New("customer name and phone are required")
)
