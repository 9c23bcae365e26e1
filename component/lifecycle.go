package component

import (
	stderrors "errors"
	"fmt"

	"github.com/nizvoo/jevois/errors"
)

// State represents the current lifecycle state of a component
type State int

const (
	// StateConstructed indicates the component was built but is not yet
	// participating in processing
	StateConstructed State = iota
	// StateInitialized indicates the component is fully wired and eligible
	// to serve requests
	StateInitialized
)

// String returns a string representation of the component state
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// State returns the component's current lifecycle state
func (b *Base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.initialized {
		return StateInitialized
	}
	return StateConstructed
}

// IsInitialized reports whether the component has reached StateInitialized
func (b *Base) IsInitialized() bool {
	return b.State() == StateInitialized
}

// Init transitions the component and everything beneath it to
// StateInitialized. The cascade is depth-first in the order children were
// added; each child finishes its own Init before the next starts. Calling
// Init on an already-Initialized component is a no-op.
//
// Order per node: PreInit hook, children in insertion order, PostInit hook,
// then the node is marked Initialized. A failing hook or child aborts the
// cascade and leaves this node Constructed.
func (b *Base) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if h, ok := b.self.(PreIniter); ok {
		if err := h.PreInit(); err != nil {
			return errors.Wrap(err, "Component", "Init", fmt.Sprintf("pre-init hook of %q", b.path))
		}
	}

	for _, sub := range b.children {
		if err := sub.Node().Init(); err != nil {
			return errors.Wrap(err, "Component", "Init", fmt.Sprintf("cascade into %q", sub.Node().name))
		}
	}

	if h, ok := b.self.(PostIniter); ok {
		if err := h.PostInit(); err != nil {
			return errors.Wrap(err, "Component", "Init", fmt.Sprintf("post-init hook of %q", b.path))
		}
	}

	b.initialized = true
	b.logger.Debug("component initialized", "component", b.path)
	b.notify(func(o Observer) { o.LifecycleTransition(b.path, StateInitialized) })
	return nil
}

// Uninit tears the component and everything beneath it back down, in the
// reverse of initialization order: children leaves-first in reverse insertion
// order, then this node's own teardown. Unlike Init, the cascade keeps going
// past failing nodes so one bad teardown cannot strand resources below it;
// all errors are collected and returned joined. Calling Uninit on a
// Constructed component is a no-op.
func (b *Base) Uninit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}

	var errs []error

	if h, ok := b.self.(PreUniniter); ok {
		if err := h.PreUninit(); err != nil {
			errs = append(errs, errors.Wrap(err, "Component", "Uninit", fmt.Sprintf("pre-uninit hook of %q", b.path)))
		}
	}

	for i := len(b.children) - 1; i >= 0; i-- {
		if err := b.children[i].Node().Uninit(); err != nil {
			errs = append(errs, err)
		}
	}

	if h, ok := b.self.(PostUniniter); ok {
		if err := h.PostUninit(); err != nil {
			errs = append(errs, errors.Wrap(err, "Component", "Uninit", fmt.Sprintf("post-uninit hook of %q", b.path)))
		}
	}

	b.initialized = false
	b.logger.Debug("component torn down", "component", b.path)
	b.notify(func(o Observer) { o.LifecycleTransition(b.path, StateConstructed) })
	return stderrors.Join(errs...)
}
