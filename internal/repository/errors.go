package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrEmailTaken is returned when a user insert trips the unique
	// email constraint. The constraint is the sole duplicate detector;
	// no pre-check query is ever issued.
	ErrEmailTaken = errors.New("repository: email already registered")
)
