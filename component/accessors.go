package component

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/param"
)

// ParamValue is a matched parameter's qualified path and typed value
type ParamValue[T any] struct {
	Path  string
	Value T
}

// GetParam resolves a descriptor and reads every matched parameter as type
// T. A matched cell of a different type raises ErrIncorrectParameterType for
// that match: it means the caller used the wrong type for a real match, so
// it is never silently skipped. Values of correctly-typed matches are still
// returned alongside the joined per-match errors.
func GetParam[T any](c Component, descriptor string) ([]ParamValue[T], error) {
	matches, err := c.Node().ResolveAll(descriptor)
	if err != nil {
		return nil, err
	}

	var out []ParamValue[T]
	var errs []error
	for _, m := range matches {
		p, ok := m.Cell.(*param.Param[T])
		if !ok {
			errs = append(errs, incorrectType[T](m, "GetParam"))
			continue
		}
		out = append(out, ParamValue[T]{Path: m.Path, Value: p.Get()})
	}
	return out, joinErrs(errs)
}

// GetParamUnique reads the single parameter a fully-disambiguated descriptor
// denotes. Zero matches is ErrNotFound, several is ErrAmbiguousDescriptor,
// and a wrong T is ErrIncorrectParameterType.
func GetParamUnique[T any](c Component, descriptor string) (T, error) {
	var zero T

	m, err := c.Node().ResolveUnique(descriptor)
	if err != nil {
		return zero, err
	}
	p, ok := m.Cell.(*param.Param[T])
	if !ok {
		return zero, incorrectType[T](m, "GetParamUnique")
	}
	return p.Get(), nil
}

// SetParam resolves a descriptor and sets every matched parameter of type T
// to the given value, returning the qualified paths that were set. Cells of
// a different type, and cells whose validator or freeze state rejects the
// value, each contribute an error without silencing the remaining matches.
func SetParam[T any](c Component, descriptor string, value T) ([]string, error) {
	b := c.Node()
	matches, err := b.ResolveAll(descriptor)
	if err != nil {
		return nil, err
	}

	var set []string
	var errs []error
	for _, m := range matches {
		p, ok := m.Cell.(*param.Param[T])
		if !ok {
			errs = append(errs, incorrectType[T](m, "SetParam"))
			continue
		}
		if err := p.Set(value); err != nil {
			errs = append(errs, errors.Wrap(err, "Component", "SetParam", fmt.Sprintf("set of %q", m.Path)))
			continue
		}
		set = append(set, m.Path)
		b.notify(func(o Observer) { o.ParamSet(cellPath(m.Cell)) })
	}
	return set, joinErrs(errs)
}

// SetParamUnique sets the single parameter a fully-disambiguated descriptor
// denotes. Ambiguity or absence is reported before any mutation happens.
func SetParamUnique[T any](c Component, descriptor string, value T) error {
	b := c.Node()
	m, err := b.ResolveUnique(descriptor)
	if err != nil {
		return err
	}
	p, ok := m.Cell.(*param.Param[T])
	if !ok {
		return incorrectType[T](m, "SetParamUnique")
	}
	if err := p.Set(value); err != nil {
		return errors.Wrap(err, "Component", "SetParamUnique", fmt.Sprintf("set of %q", m.Path))
	}
	b.notify(func(o Observer) { o.ParamSet(cellPath(m.Cell)) })
	return nil
}

// incorrectType builds the per-match type error for the typed accessors
func incorrectType[T any](m Match, op string) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: %q holds %s, requested %s",
			errors.ErrIncorrectParameterType, m.Path, m.Cell.TypeTag(), reflect.TypeOf((*T)(nil)).Elem()),
		"Component", op, "parameter type check")
}

// joinErrs collapses a collected error slice, keeping nil for the empty case
func joinErrs(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return stderrors.Join(errs...)
}
