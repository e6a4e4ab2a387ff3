package models

import "errors"

// Validation errors. They are returned before any side effect takes place.
var (
	ErrEmptyWord     = errors.New("word must be non-empty")
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrLongPassword  = errors.New("password must be at most 72 bytes")
	ErrMissingUser   = errors.New("user_id is required")
	ErrNoStarred     = errors.New("no starred words")
	ErrEmptyText     = errors.New("text cannot be empty")
)
