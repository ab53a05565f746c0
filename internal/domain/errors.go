package domain

import "errors"

// Domain errors.
var (
	// ErrMissingURL is returned when a request body has no usable url field.
	ErrMissingURL = errors.New("missing or invalid URL")

	// ErrEmptyURL is returned when the submitted URL is blank after trimming.
	ErrEmptyURL = errors.New("empty URL")

	// ErrMalformedURL is returned when the URL lacks a scheme or host.
	ErrMalformedURL = errors.New("malformed URL")

	// ErrMissingParams is returned when a download request omits url or format_id.
	ErrMissingParams = errors.New("missing parameters")

	// ErrNoOutputFile is returned when the extraction engine ran without
	// error but left nothing in the download directory.
	ErrNoOutputFile = errors.New("download produced no file")

	// ErrRecordNotFound is returned when a history record cannot be found.
	ErrRecordNotFound = errors.New("history record not found")
)
