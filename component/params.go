package component

import (
	"fmt"
	"slices"

	"github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/param"
)

// AddParam declares parameter cells on this component, binding each cell to
// it as owner. Local names must be unique within one component. Parameters
// are normally declared in the component's factory, before the node joins
// the tree.
func (b *Base) AddParam(cells ...param.Cell) error {
	for _, cell := range cells {
		if cell == nil {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Component", "AddParam", "cell validation")
		}

		b.mu.Lock()
		dup := slices.ContainsFunc(b.params, func(p param.Cell) bool { return p.Name() == cell.Name() })
		if dup {
			b.mu.Unlock()
			return errors.WrapInvalid(
				fmt.Errorf("%w: parameter %q on %q", errors.ErrNameCollision, cell.Name(), b.path),
				"Component", "AddParam", "local name uniqueness")
		}
		if err := cell.Bind(b); err != nil {
			b.mu.Unlock()
			return errors.Wrap(err, "Component", "AddParam", "cell ownership binding")
		}
		b.params = append(b.params, cell)
		b.mu.Unlock()
	}
	return nil
}

// Param returns the locally-declared parameter cell with the given name
func (b *Base) Param(name string) (param.Cell, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, cell := range b.params {
		if cell.Name() == name {
			return cell, nil
		}
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: parameter %q on %q", errors.ErrNotFound, name, b.path),
		"Component", "Param", "local parameter lookup")
}

// Params returns a snapshot of this component's own parameter cells in
// declaration order.
func (b *Base) Params() []param.Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.params)
}

// paramLocked scans the local parameter set. Caller holds b.mu.
func (b *Base) paramLocked(name string) param.Cell {
	for _, cell := range b.params {
		if cell.Name() == name {
			return cell
		}
	}
	return nil
}
