package handler

import "errors"

var (
	// ErrNilDependency is returned by Init when a required dependency is nil.
	ErrNilDependency = errors.New(ErrNilACDFatalLogMsg)

	// ErrInvalidID is returned when the :id route parameter is not a positive integer.
	ErrInvalidID = errors.New("invalid id")
)
