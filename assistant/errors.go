package assistant

import "errors"

var (
	// ErrToolNotFound is returned when dispatching an unregistered tool name.
	ErrToolNotFound = errors.New("unknown tool")

	// ErrToolAlreadyRegistered is returned when registering a duplicate name.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrToolNameEmpty is returned when registering a tool without a name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolHandlerNil is returned when registering a tool without a handler.
	ErrToolHandlerNil = errors.New("tool handler cannot be nil")

	// ErrMissingRequiredArg is returned when a schema-required argument is
	// absent from a call.
	ErrMissingRequiredArg = errors.New("missing required argument")
)
