package component

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nizvoo/jevois/errors"
)

// ParamInfo is the static description of one parameter a component type
// declares. It is registration-time metadata, used for config validation and
// discovery without instantiating a component.
type ParamInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"` // "string", "int", "bool", "float", "enum"
	Default     string `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"` // valid textual values for enum type
}

// Registration holds the factory and metadata for a component type. The
// metadata is fixed once at registration, replacing any process-wide mutable
// declaration state.
type Registration struct {
	Name        string      `json:"name"`        // Type name (e.g. "serial")
	Description string      `json:"description"` // Human-readable description
	Version     string      `json:"version"`     // Component type version
	Params      []ParamInfo `json:"params"`      // Declared parameter schema
	Factory     Factory     `json:"-"`           // Factory function (not serializable)
}

// Registerable allows component packages to self-describe for registration
type Registerable interface {
	Registration() Registration
}

// Registry manages component type factories. It provides thread-safe
// registration and creation of component instances, either standalone or
// attached under an existing tree node.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Registration
}

// NewRegistry creates a new empty component type registry
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Registration)}
}

// Register registers a component type. Returns an error if a type with the
// same name is already registered.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "type name validation")
	}
	if reg.Factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "factory validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[reg.Name]; exists {
		msg := fmt.Errorf("type %q is already registered", reg.Name)
		return errors.WrapInvalid(msg, "Registry", "Register", "duplicate type check")
	}

	reg.Params = slices.Clone(reg.Params)
	r.types[reg.Name] = reg
	return nil
}

// Create builds a standalone root instance of a registered type. Components
// that should live inside an existing tree are created with CreateUnder
// instead.
func (r *Registry) Create(typeName, instanceName string, opts ...Option) (Component, error) {
	reg, err := r.lookup(typeName)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Create", "type lookup")
	}

	base, err := NewRoot(instanceName, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Create", "root construction")
	}

	comp, err := reg.Factory(base)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Create", "factory execution")
	}
	if comp == nil || comp.Node() != base {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: factory did not build on the provided base", errors.ErrInvalidConfig),
			"Registry", "Create", "factory contract check")
	}
	base.setSelf(comp)
	return comp, nil
}

// CreateUnder builds an instance of a registered type attached under parent,
// with the usual add semantics: atomic sibling name reservation and
// synchronous initialization when the parent is already Initialized.
func (r *Registry) CreateUnder(parent Component, typeName, instanceName string) (Component, error) {
	reg, err := r.lookup(typeName)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateUnder", "type lookup")
	}
	return parent.Node().AddSub(instanceName, reg.Factory)
}

// TypeSchema returns the declared parameter schema of a registered type
// without instantiating a component.
func (r *Registry) TypeSchema(typeName string) ([]ParamInfo, error) {
	reg, err := r.lookup(typeName)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "TypeSchema", "type lookup")
	}
	return slices.Clone(reg.Params), nil
}

// ListTypes returns all registered component type names, sorted
func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) lookup(typeName string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.types[typeName]
	if !exists {
		return Registration{}, errors.WrapInvalid(
			fmt.Errorf("%w: component type %q", errors.ErrNotFound, typeName),
			"Registry", "lookup", "type lookup")
	}
	return reg, nil
}
