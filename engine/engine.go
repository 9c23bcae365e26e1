package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nizvoo/jevois/component"
	"github.com/nizvoo/jevois/config"
	"github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/metric"
)

// Runnable is implemented by components with a long-running loop. The engine
// drives every Runnable in the tree for the lifetime of Run's context.
type Runnable interface {
	Run(ctx context.Context) error
}

// Dependencies provides the external dependencies an Engine needs. All
// fields may be nil; missing ones fall back to safe defaults.
type Dependencies struct {
	Logger  *slog.Logger     // Structured logger (nil defaults to slog.Default())
	Metrics *metric.Registry // Metrics registry (nil disables metrics)
}

// GetLogger returns the configured logger or a default logger if none is provided
func (d *Dependencies) GetLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Engine owns the root of a component tree: it builds the tree from
// configuration, runs the lifecycle cascade and drives Runnable components.
type Engine struct {
	id       uuid.UUID
	root     *component.Base
	registry *component.Registry
	deps     Dependencies
	logger   *slog.Logger
}

// Option configures an Engine at construction
type Option func(*options)

type options struct {
	rootName string
}

// WithRootName overrides the default root instance name
func WithRootName(name string) Option {
	return func(o *options) {
		o.rootName = name
	}
}

// New creates an Engine with an empty root component
func New(registry *component.Registry, deps Dependencies, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: registry is nil", errors.ErrInvalidConfig),
			"Engine", "New", "registry check")
	}

	o := options{rootName: "engine"}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	logger := deps.GetLogger().With("engine_id", id.String())

	rootOpts := []component.Option{component.WithLogger(logger)}
	if deps.Metrics != nil {
		rootOpts = append(rootOpts, component.WithObserver(deps.Metrics.Observer()))
	}

	root, err := component.NewRoot(o.rootName, rootOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "Engine", "New", "root construction")
	}

	logger.Info("Engine created", "root", o.rootName)
	return &Engine{
		id:       id,
		root:     root,
		registry: registry,
		deps:     deps,
		logger:   logger,
	}, nil
}

// ID returns the unique identifier of this engine instance
func (e *Engine) ID() uuid.UUID { return e.id }

// Root returns the root of the component tree
func (e *Engine) Root() *component.Base { return e.root }

// Registry returns the component type registry
func (e *Engine) Registry() *component.Registry { return e.registry }

// BuildFromConfig validates a configuration document against the registry's
// schema and builds the configured tree under the engine root.
func (e *Engine) BuildFromConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: config is nil", errors.ErrInvalidConfig),
			"Engine", "BuildFromConfig", "config check")
	}

	validator, err := config.NewValidator(e.registry)
	if err != nil {
		return errors.Wrap(err, "Engine", "BuildFromConfig", "validator construction")
	}
	if err := validator.Validate(cfg); err != nil {
		return errors.Wrap(err, "Engine", "BuildFromConfig", "config validation")
	}

	if err := cfg.Build(e.registry, e.root); err != nil {
		return errors.Wrap(err, "Engine", "BuildFromConfig", "tree construction")
	}

	e.logger.Info("Component tree built",
		"version", cfg.Version,
		"components", len(cfg.Components))
	return nil
}

// Init runs the initialization cascade over the whole tree
func (e *Engine) Init() error {
	if err := e.root.Init(); err != nil {
		return errors.Wrap(err, "Engine", "Init", "tree initialization")
	}
	e.logger.Info("Component tree initialized")
	return nil
}

// Run drives every Runnable component in the tree until ctx is cancelled or
// one of them fails. The tree must be initialized first. Cancellation,
// including an expired deadline, is a clean shutdown, not an error.
func (e *Engine) Run(ctx context.Context) error {
	if !e.root.IsInitialized() {
		return errors.WrapInvalid(errors.ErrNotInitialized, "Engine", "Run", "tree state check")
	}

	runnables := collectRunnables(e.root.Subs())
	e.logger.Info("Engine running", "runnables", len(runnables))

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runnables {
		r := r
		g.Go(func() error {
			return r.Run(gctx)
		})
	}
	// keep Run blocked until cancellation even when nothing is Runnable
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err := g.Wait()
	if err != nil && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, "Engine", "Run", "component execution")
	}
	e.logger.Info("Engine stopped")
	return nil
}

// Shutdown runs the uninitialization cascade over the whole tree
func (e *Engine) Shutdown() error {
	if err := e.root.Uninit(); err != nil {
		return errors.Wrap(err, "Engine", "Shutdown", "tree teardown")
	}
	e.logger.Info("Component tree shut down")
	return nil
}

func collectRunnables(comps []component.Component) []Runnable {
	var out []Runnable
	for _, c := range comps {
		if r, ok := c.(Runnable); ok {
			out = append(out, r)
		}
		out = append(out, collectRunnables(c.Node().Subs())...)
	}
	return out
}
