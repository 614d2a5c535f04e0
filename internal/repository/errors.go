package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist, or
	// when a conditional update matched no row (state guard failed).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateCode is returned when trip issuance collides with an
	// already-issued code.
	ErrDuplicateCode = errors.New("code already issued")

	// ErrDuplicateName is returned when account registration collides
	// with an existing account name.
	ErrDuplicateName = errors.New("name already registered")
)
