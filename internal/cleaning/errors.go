package cleaning

import "errors"

// Cleaning errors
var (
	// ErrEmptyResult is returned when the rules remove every row. An empty
	// table would be a misleadingly "successful" output, so the stage fails.
	ErrEmptyResult = errors.New("cleaning removed all rows")
)
