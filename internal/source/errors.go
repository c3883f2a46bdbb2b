package source

import "errors"

// Errors returned by item sources.
var (
	// ErrBadSource indicates source data that cannot produce items.
	ErrBadSource = errors.New("bad item source")

	// ErrOutOfRange indicates an index the source has no item for.
	ErrOutOfRange = errors.New("item index out of range")

	// ErrStateClosed is returned when calling a closed script.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoItemFunc indicates a script without an item function.
	ErrNoItemFunc = errors.New("script does not define item(index)")
)
