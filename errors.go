package tvshell

import "errors"

// Sentinel errors for page resolution and collaborator wiring.
var (
	ErrPageNotFound = errors.New("tvshell: page not found")
	ErrNoParser     = errors.New("tvshell: no document parser configured")
	ErrNoTransport  = errors.New("tvshell: no transport configured")
	ErrTransport    = errors.New("tvshell: transport request failed")
	ErrBadTemplate  = errors.New("tvshell: unsupported template type")
	ErrNoDocument   = errors.New("tvshell: page produced no document")
)

// IsPageNotFound checks if err indicates a page missing from the registry.
func IsPageNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}

// IsTransportError checks if err originated in the transport collaborator,
// including wiring failures.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrNoTransport)
}
