package models

import "errors"

// Storage-level errors returned by repositories regardless of backend.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)
