// Package engine wires the framework together: it owns the root of a
// component tree, builds the tree from a validated configuration document
// and drives the lifecycle of every component in it.
//
// # Lifecycle
//
// An Engine moves a tree through three phases. BuildFromConfig creates the
// configured components through a registry, Init runs the initialization
// cascade, and Run drives every component implementing Runnable until the
// context is cancelled:
//
//	eng, err := engine.New(registry, engine.Dependencies{
//		Logger:  logger,
//		Metrics: metrics,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := eng.BuildFromConfig(cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := eng.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Shutdown()
//
//	if err := eng.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Run returns when the context is cancelled (clean shutdown) or when any
// Runnable fails, whichever comes first. Components without a run loop
// simply participate in the lifecycle cascade.
package engine
