package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicate indicates a record with the same identifier already exists
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")
)
