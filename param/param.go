// Package param implements the typed parameter cell: a named, validated value
// holder owned by exactly one component. Cells are the unit of thread-safety
// for value access; the owning component's tree lock protects structure only.
package param

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/nizvoo/jevois/errors"
)

// Owner is the component-side contract a cell needs from the node that owns
// it. It is satisfied by component.Base.
type Owner interface {
	InstanceName() string
	Path() string
}

// Cell is the type-erased view of a parameter used by descriptor resolution
// and string-based surfaces (config files, CLI). The typed Get/Set live on
// the concrete Param[T].
type Cell interface {
	// Name returns the parameter's local name, unique within its owner.
	Name() string

	// Description returns the human-readable description from the definition.
	Description() string

	// TypeTag returns the reflect.Type of the held value.
	TypeTag() reflect.Type

	// Owner returns the owning component, or nil while unattached.
	Owner() Owner

	// Bind attaches the cell to its owning component. A cell belongs to
	// exactly one component for its entire lifetime; binding twice fails.
	Bind(owner Owner) error

	// String formats the current value.
	String() string

	// SetFromString parses and sets the value from its textual form.
	SetFromString(s string) error

	// Freeze marks the cell read-only (or writable again).
	Freeze(frozen bool)

	// Frozen reports whether the cell currently rejects writes.
	Frozen() bool
}

// ValidatorFunc checks a candidate value before it is stored.
// Returning a non-nil error rejects the set with ErrInvalidValue.
type ValidatorFunc[T any] func(T) error

// Def is the immutable definition of a parameter, declared once per component
// type. The definition carries no mutable state; all runtime state lives in
// the Param created from it.
type Def[T any] struct {
	Name        string
	Description string
	Default     T
	Valid       ValidatorFunc[T]
}

// Param is a thread-safe typed parameter cell.
type Param[T any] struct {
	def Def[T]

	mu       sync.RWMutex
	val      T
	owner    Owner
	frozen   bool
	onChange func(T)
}

// New creates a parameter cell from its definition, holding the default
// value. The default is validated so a component type cannot declare a cell
// that starts out of range.
func New[T any](def Def[T]) (*Param[T], error) {
	if def.Name == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Param", "New", "parameter name validation")
	}
	if def.Valid != nil {
		if err := def.Valid(def.Default); err != nil {
			return nil, errors.WrapInvalid(err, "Param", "New", "default value validation")
		}
	}
	return &Param[T]{def: def, val: def.Default}, nil
}

// MustNew is New for package-level declarations where a bad definition is a
// programming error.
func MustNew[T any](def Def[T]) *Param[T] {
	p, err := New(def)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the parameter's local name.
func (p *Param[T]) Name() string { return p.def.Name }

// Description returns the parameter's description.
func (p *Param[T]) Description() string { return p.def.Description }

// TypeTag returns the reflect.Type of T.
func (p *Param[T]) TypeTag() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Owner returns the owning component, or nil while unattached.
func (p *Param[T]) Owner() Owner {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.owner
}

// Bind attaches the cell to its owning component.
func (p *Param[T]) Bind(owner Owner) error {
	if owner == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Param", "Bind", "owner validation")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.owner != nil {
		msg := fmt.Errorf("parameter %q already owned by %q", p.def.Name, p.owner.InstanceName())
		return errors.WrapInvalid(msg, "Param", "Bind", "single ownership check")
	}
	p.owner = owner
	return nil
}

// Get returns the current value.
func (p *Param[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.val
}

// Set validates and stores a new value, then fires the change callback.
// The callback runs outside the cell's lock so it may read the cell freely.
func (p *Param[T]) Set(v T) error {
	if p.def.Valid != nil {
		if err := p.def.Valid(v); err != nil {
			return errors.WrapInvalid(
				fmt.Errorf("%w for %q: %w", errors.ErrInvalidValue, p.def.Name, err),
				"Param", "Set", "value validation")
		}
	}

	p.mu.Lock()
	if p.frozen {
		p.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrParameterFrozen, p.def.Name),
			"Param", "Set", "frozen check")
	}
	p.val = v
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(v)
	}
	return nil
}

// Reset restores the default value, bypassing freeze.
func (p *Param[T]) Reset() {
	p.mu.Lock()
	p.val = p.def.Default
	p.mu.Unlock()
}

// OnChange installs a callback invoked after every successful Set.
// Installing replaces any previous callback.
func (p *Param[T]) OnChange(fn func(T)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Freeze marks the cell read-only (or writable again).
func (p *Param[T]) Freeze(frozen bool) {
	p.mu.Lock()
	p.frozen = frozen
	p.mu.Unlock()
}

// Frozen reports whether the cell currently rejects writes.
func (p *Param[T]) Frozen() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frozen
}

// String formats the current value. Types implementing encoding.TextMarshaler
// (such as enum parameters) format through it; everything else through fmt.
func (p *Param[T]) String() string {
	v := p.Get()
	if tm, ok := any(v).(encoding.TextMarshaler); ok {
		if b, err := tm.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// SetFromString parses the textual form of T and sets it, with the same
// validation and freeze semantics as Set.
func (p *Param[T]) SetFromString(s string) error {
	v, err := fromString[T](s)
	if err != nil {
		return errors.WrapInvalid(
			fmt.Errorf("parameter %q: %w", p.def.Name, err),
			"Param", "SetFromString", "value parsing")
	}
	return p.Set(v)
}

// fromString converts the textual form of a value to T. Scalar kinds parse
// through strconv; any other T must implement encoding.TextUnmarshaler.
func fromString[T any](s string) (T, error) {
	var zero T

	switch any(zero).(type) {
	case string:
		return any(s).(T), nil
	case bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as bool: %w", s, err)
		}
		return any(b).(T), nil
	case int:
		n, err := strconv.ParseInt(s, 0, 0)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as int: %w", s, err)
		}
		return any(int(n)).(T), nil
	case int8:
		n, err := strconv.ParseInt(s, 0, 8)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as int8: %w", s, err)
		}
		return any(int8(n)).(T), nil
	case int16:
		n, err := strconv.ParseInt(s, 0, 16)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as int16: %w", s, err)
		}
		return any(int16(n)).(T), nil
	case int32:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as int32: %w", s, err)
		}
		return any(int32(n)).(T), nil
	case int64:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as int64: %w", s, err)
		}
		return any(n).(T), nil
	case uint:
		n, err := strconv.ParseUint(s, 0, 0)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as uint: %w", s, err)
		}
		return any(uint(n)).(T), nil
	case uint8:
		n, err := strconv.ParseUint(s, 0, 8)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as uint8: %w", s, err)
		}
		return any(uint8(n)).(T), nil
	case uint16:
		n, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as uint16: %w", s, err)
		}
		return any(uint16(n)).(T), nil
	case uint32:
		n, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as uint32: %w", s, err)
		}
		return any(uint32(n)).(T), nil
	case uint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as uint64: %w", s, err)
		}
		return any(n).(T), nil
	case float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as float32: %w", s, err)
		}
		return any(float32(f)).(T), nil
	case float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, fmt.Errorf("parsing %q as float64: %w", s, err)
		}
		return any(f).(T), nil
	}

	if tu, ok := any(&zero).(encoding.TextUnmarshaler); ok {
		if err := tu.UnmarshalText([]byte(s)); err != nil {
			return zero, err
		}
		return zero, nil
	}

	return zero, fmt.Errorf("no textual form for type %s", reflect.TypeOf((*T)(nil)).Elem())
}
