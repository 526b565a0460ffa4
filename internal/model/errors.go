package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrNotSupported is returned when an operation is not supported on the current platform.
	ErrNotSupported = errors.New("not supported")
	// ErrEmptySelection is returned when there are no selected paths to work with.
	ErrEmptySelection = errors.New("empty selection")
	// ErrNoFiles is returned when a non empty selection doesn't contain any file.
	ErrNoFiles = errors.New("no files")
)
