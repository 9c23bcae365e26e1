// Package componentregistry registers the built-in component types of the
// framework. Registration is explicit rather than init() driven: the
// application creates a registry, passes it here, and controls exactly which
// types exist.
package componentregistry

import (
	stderrors "errors"

	"github.com/nizvoo/jevois/component"
	pkgerrors "github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/serial"
)

// Register registers all built-in component types with the provided
// registry:
//
//   - serial (serial-line transport)
//
// Hardware-specific component modules register their own types on top of
// these.
func Register(registry *component.Registry) error {
	if registry == nil {
		return pkgerrors.WrapFatal(
			stderrors.New("registry cannot be nil"),
			"ComponentRegistry", "Register", "registry validation")
	}

	if err := serial.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "serial component registration")
	}

	return nil
}
