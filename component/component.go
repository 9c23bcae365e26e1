package component

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/param"
)

// Delimiter separates segments in a parameter descriptor,
// e.g. "engine:serial:baudrate".
const Delimiter = ":"

// MaxNameLength bounds instance names for sanity and security
const MaxNameLength = 1024

// Component is the capability every node in the tree exposes. Concrete
// components embed *Base and get the implementation for free.
type Component interface {
	// Node returns the embedded tree node
	Node() *Base
}

// Factory constructs a concrete component around a framework-provided Base.
// The factory declares parameters and sub-components; it must not perform
// I/O, which belongs in the PostInit hook.
type Factory func(base *Base) (Component, error)

// Lifecycle hooks, implemented optionally by concrete component types.
// Hooks run while the component's own structural lock is held, so they must
// not add or remove sub-components of the component being transitioned.
type (
	// PreIniter runs before the component's children are initialized
	PreIniter interface{ PreInit() error }
	// PostIniter runs after the component's children are initialized,
	// immediately before the component is marked Initialized. I/O such as
	// opening a device belongs here.
	PostIniter interface{ PostInit() error }
	// PreUniniter runs before the component's children are torn down
	PreUniniter interface{ PreUninit() error }
	// PostUniniter runs after the component's children are torn down. It
	// mirrors PostInit and releases what PostInit acquired.
	PostUniniter interface{ PostUninit() error }
)

// Observer receives structural and lifecycle notifications from the tree.
// Implementations must be safe for concurrent use; the metric package
// provides a Prometheus-backed one.
type Observer interface {
	ComponentAdded(path string)
	ComponentRemoved(path string)
	LifecycleTransition(path string, to State)
	ParamSet(path string)
}

// Base is a node in the component tree. It owns an ordered set of parameter
// cells and an ordered collection of sub-components, and guards both with a
// single reader/writer lock: reads (lookup, descriptor traversal) take shared
// access, structural mutation takes exclusive access.
type Base struct {
	// name and path are fixed at construction; a node is attached under its
	// parent exactly once, when the factory builds it.
	name   string
	path   string
	logger *slog.Logger
	obs    Observer

	mu          sync.RWMutex
	parent      *Base
	children    []Component
	reserved    map[string]struct{}
	params      []param.Cell
	initialized bool

	// self is the concrete component wrapping this Base, used to dispatch
	// lifecycle hooks. Nil for plain container nodes.
	self Component
}

// Option configures a Base at construction
type Option func(*Base)

// WithLogger sets the structured logger for this component and, by
// inheritance, everything later added beneath it.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver installs a tree observer, inherited by sub-components
func WithObserver(obs Observer) Option {
	return func(b *Base) { b.obs = obs }
}

// NewRoot creates a root component with no parent. The returned Base is
// itself a usable container component; concrete root types are normally
// created through a Registry instead.
func NewRoot(name string, opts ...Option) (*Base, error) {
	if err := ValidateInstanceName(name); err != nil {
		return nil, errors.Wrap(err, "Component", "NewRoot", "instance name validation")
	}

	b := &Base{
		name:     name,
		path:     name,
		logger:   slog.Default(),
		reserved: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Node returns the node itself, making *Base satisfy Component so plain
// container nodes need no wrapper type.
func (b *Base) Node() *Base { return b }

// InstanceName returns the component's name, unique among its siblings
func (b *Base) InstanceName() string { return b.name }

// Path returns the absolute path of this component: the instance names of
// all ancestors joined with the descriptor delimiter. It is assigned when
// the component is attached under its parent and never changes, so hooks
// running under the structural lock may call this freely.
func (b *Base) Path() string { return b.path }

// Parent returns the owning component's node, or nil for a root. The
// reference is non-owning and used only for diagnostics.
func (b *Base) Parent() *Base {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.parent
}

// Logger returns the structured logger scoped to this component's path
func (b *Base) Logger() *slog.Logger {
	return b.logger.With("component", b.Path())
}

// notify invokes the observer if one is installed
func (b *Base) notify(fn func(Observer)) {
	if b.obs != nil {
		fn(b.obs)
	}
}

// setSelf records the concrete component wrapping this Base
func (b *Base) setSelf(c Component) { b.self = c }

// ValidateInstanceName checks an instance name: non-empty, bounded length,
// and restricted to alphanumerics plus dash, underscore and dot. The
// descriptor delimiter is excluded by construction.
func ValidateInstanceName(name string) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Component", "ValidateInstanceName", "empty name")
	}
	if len(name) > MaxNameLength {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Component", "ValidateInstanceName", "name too long")
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.') {
			return errors.WrapInvalid(
				fmt.Errorf("%w: name %q contains invalid characters", errors.ErrInvalidConfig, name),
				"Component", "ValidateInstanceName", "character validation")
		}
	}
	return nil
}

// joinPath concatenates path segments with the descriptor delimiter
func joinPath(segments ...string) string {
	parts := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Delimiter)
}
