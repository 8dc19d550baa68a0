package models

import (
	"errors"
)

// Descriptor errors
var (
	// ErrInvalidBucket is returned when a bucket descriptor is missing required fields
	ErrInvalidBucket = errors.New("invalid bucket descriptor")

	// ErrInvalidFile is returned when a file descriptor is missing required fields
	ErrInvalidFile = errors.New("invalid file descriptor")
)

// Action errors
var (
	// ErrNoFileSelected is returned when an upload is requested without a file
	ErrNoFileSelected = errors.New("no file selected")

	// ErrDeleteNotConfirmed is returned when the user declines a delete
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")

	// ErrNotAnImage is returned when a preview is requested for a non-image file
	ErrNotAnImage = errors.New("file is not an image")
)
