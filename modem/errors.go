package modem

import "errors"

var (
	// ErrNoAllocator is returned when an Engine is constructed without a
	// transport Allocator.
	//
	// This indicates a configuration error. An Allocator is required in
	// order to expose the emulated device to clients.
	ErrNoAllocator = errors.New("no transport allocator configured")

	// ErrNoTable is returned when an Engine is constructed without a
	// command table.
	ErrNoTable = errors.New("no command table configured")

	// ErrBadTable wraps every command table load failure: unreadable
	// files, malformed documents, negative delays, and command names that
	// collide after normalization. Table loading is all-or-nothing, so
	// any of these prevents the process from starting.
	ErrBadTable = errors.New("invalid command table")

	// ErrAlreadyClosed is returned when Run is called on an Engine that
	// has already been torn down.
	ErrAlreadyClosed = errors.New("engine already closed")
)
