package scene

import "errors"

var (
	// ErrNotFound is returned when a named scene object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSuperseded resolves a future whose work was replaced by newer work.
	ErrSuperseded = errors.New("superseded")
)
