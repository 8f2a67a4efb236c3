package model

import "errors"

var (
	// ErrUnknownSection reports a section header matching no known
	// section name.
	ErrUnknownSection = errors.New("unknown section")

	// ErrMalformedModel reports a record line matching no grammar of
	// its section.
	ErrMalformedModel = errors.New("malformed model record")

	// ErrInvalidReference reports a locations or edges record that
	// targets an out-of-range process or a cell that is not a
	// location.
	ErrInvalidReference = errors.New("invalid reference")
)
