package component

import (
	"fmt"
	"slices"

	"github.com/nizvoo/jevois/errors"
)

// AddSub constructs a new sub-component via factory and attaches it under
// this component.
//
// The instance name is reserved atomically before the factory runs, so two
// concurrent adds of the same name cannot both succeed, and the factory runs
// outside the structural lock so user construction code cannot extend lock
// hold times. If this component is already Initialized, the new subtree is
// initialized synchronously before it becomes visible to lookups: a reader
// that observes the child also observes it Initialized.
func (b *Base) AddSub(name string, factory Factory) (Component, error) {
	if err := ValidateInstanceName(name); err != nil {
		return nil, errors.Wrap(err, "Component", "AddSub", "instance name validation")
	}
	if factory == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Component", "AddSub", "factory validation")
	}

	// Reserve the name slot under exclusive access
	b.mu.Lock()
	if b.nameInUseLocked(name) {
		b.mu.Unlock()
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q under %q", errors.ErrNameCollision, name, b.path),
			"Component", "AddSub", "sibling name reservation")
	}
	b.reserved[name] = struct{}{}
	parentPath := b.path
	wasInitialized := b.initialized
	b.mu.Unlock()

	child := &Base{
		name:     name,
		path:     joinPath(parentPath, name),
		parent:   b,
		logger:   b.logger,
		obs:      b.obs,
		reserved: make(map[string]struct{}),
	}

	comp, err := factory(child)
	if err != nil {
		b.unreserve(name)
		return nil, errors.Wrap(err, "Component", "AddSub", "factory execution")
	}
	if comp == nil || comp.Node() != child {
		b.unreserve(name)
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: factory did not build on the provided base", errors.ErrInvalidConfig),
			"Component", "AddSub", "factory contract check")
	}
	child.setSelf(comp)

	// Bring the new subtree to our run state before it becomes visible
	if wasInitialized {
		if err := child.Init(); err != nil {
			b.unreserve(name)
			return nil, errors.Wrap(err, "Component", "AddSub", "synchronous subtree init")
		}
	}

	var lateUninitErr error
	b.mu.Lock()
	delete(b.reserved, name)
	switch {
	case b.initialized && !child.IsInitialized():
		// This component was initialized while the factory ran; the child
		// must not be observable behind its parent's state.
		if err := child.Init(); err != nil {
			b.mu.Unlock()
			return nil, errors.Wrap(err, "Component", "AddSub", "synchronous subtree init")
		}
	case !b.initialized && child.IsInitialized():
		// This component was uninitialized while the factory ran; tear the
		// child back down so it attaches in its parent's run state.
		lateUninitErr = child.Uninit()
	}
	b.children = append(b.children, comp)
	b.mu.Unlock()

	if lateUninitErr != nil {
		b.Logger().Warn("teardown of sub-component added during shutdown reported errors",
			"instance", name, "error", lateUninitErr)
	}

	b.Logger().Debug("sub-component added", "instance", name)
	b.notify(func(o Observer) { o.ComponentAdded(child.path) })
	return comp, nil
}

// Sub returns the directly-attached sub-component with the given instance
// name. Not finding one is a recoverable ErrNotFound.
func (b *Base) Sub(name string) (Component, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.children {
		if sub.Node().name == name {
			return sub, nil
		}
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: sub-component %q under %q", errors.ErrNotFound, name, b.path),
		"Component", "Sub", "instance lookup")
}

// SubAs returns the sub-component with the given instance name as concrete
// type T. The caller asserts both existence and type, so both failure modes
// are classified fatal: a missing instance or a name match of the wrong type
// indicates a broken caller/schema contract rather than a runtime condition.
// A lookup with T = Component never fails the capability check.
func SubAs[T Component](c Component, name string) (T, error) {
	var zero T
	b := c.Node()

	b.mu.RLock()
	for _, sub := range b.children {
		if sub.Node().name == name {
			b.mu.RUnlock()
			t, ok := sub.(T)
			if !ok {
				return zero, errors.WrapFatal(
					fmt.Errorf("%w: %q is %T", errors.ErrTypeMismatch, name, sub),
					"Component", "SubAs", "capability check")
			}
			return t, nil
		}
	}
	b.mu.RUnlock()

	return zero, errors.WrapFatal(
		fmt.Errorf("%w: sub-component %q under %q", errors.ErrNotFound, name, b.Path()),
		"Component", "SubAs", "instance lookup")
}

// RemoveSub detaches a sub-component located by identity, not by name, so a
// stale handle can never remove a different node. The search runs under
// shared access; the mutation re-validates after acquiring exclusive access,
// since the tree may have changed between the two locks. Removing a handle
// that is not attached reports a recoverable ErrNotFound and leaves the tree
// unchanged. The detached subtree is torn down once it is no longer visible
// to lookups.
func (b *Base) RemoveSub(child Component) error {
	if child == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Component", "RemoveSub", "child validation")
	}
	target := child.Node()

	b.mu.RLock()
	found := slices.ContainsFunc(b.children, func(sub Component) bool { return sub.Node() == target })
	b.mu.RUnlock()
	if !found {
		b.Logger().Warn("sub-component not attached, remove ignored", "instance", target.name)
		return errors.WrapInvalid(
			fmt.Errorf("%w: sub-component %q", errors.ErrNotFound, target.name),
			"Component", "RemoveSub", "identity search")
	}

	b.mu.Lock()
	idx := slices.IndexFunc(b.children, func(sub Component) bool { return sub.Node() == target })
	if idx < 0 {
		b.mu.Unlock()
		b.Logger().Warn("sub-component not attached, remove ignored", "instance", target.name)
		return errors.WrapInvalid(
			fmt.Errorf("%w: sub-component %q", errors.ErrNotFound, target.name),
			"Component", "RemoveSub", "exclusive re-validation")
	}
	b.children = slices.Delete(b.children, idx, idx+1)
	b.mu.Unlock()

	if err := target.Uninit(); err != nil {
		b.Logger().Warn("teardown of removed sub-component reported errors",
			"instance", target.name, "error", err)
	}
	target.mu.Lock()
	target.parent = nil
	target.mu.Unlock()

	b.Logger().Debug("sub-component removed", "instance", target.name)
	b.notify(func(o Observer) { o.ComponentRemoved(target.path) })
	return nil
}

// Subs returns a snapshot of directly-attached sub-components in insertion
// order.
func (b *Base) Subs() []Component {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.children)
}

// nameInUseLocked reports whether a sibling name is taken or reserved.
// Caller holds b.mu.
func (b *Base) nameInUseLocked(name string) bool {
	if _, ok := b.reserved[name]; ok {
		return true
	}
	return slices.ContainsFunc(b.children, func(sub Component) bool { return sub.Node().name == name })
}

// unreserve releases a name reservation after a failed add
func (b *Base) unreserve(name string) {
	b.mu.Lock()
	delete(b.reserved, name)
	b.mu.Unlock()
}
