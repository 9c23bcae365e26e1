// Package jevois is a component framework for embedded vision systems: a
// thread-safe component tree whose configuration surface is typed, validated
// parameters addressed by textual descriptors.
//
// # Architecture
//
// The framework separates the generic tree machinery from the components
// built on it:
//
//	┌─────────────────────────────────────┐
//	│             Engine                  │  build from config,
//	│   (engine, config, metric)          │  lifecycle, run loop
//	└─────────────────────────────────────┘
//	           ↓ orchestrates
//	┌─────────────────────────────────────┐
//	│          Components                 │  serial transport,
//	│   (serial, user-defined types)      │  vision modules
//	└─────────────────────────────────────┘
//	           ↓ built on
//	┌─────────────────────────────────────┐
//	│         Component Tree              │  hierarchy, descriptors,
//	│      (component, param)             │  typed parameters
//	└─────────────────────────────────────┘
//
// The component package is the core: a live hierarchy that concurrent
// goroutines read and reconfigure while it changes shape. The param package
// supplies the typed parameter cells components declare. Everything above
// that is a client of the tree: the serial transport is an ordinary
// component, the engine drives the lifecycle, and the config package builds
// trees from YAML documents validated against registry metadata.
//
// # Layout
//
//   - component: tree structure, descriptor resolution, typed accessors,
//     lifecycle cascade, type registry
//   - param: typed parameter cells with validation and change callbacks
//   - config: YAML tree configuration and schema validation
//   - engine: top-level wiring and run loop
//   - serial: serial-line transport component
//   - metric: Prometheus instrumentation of tree activity
//   - errors: error classification shared by all packages
//   - componentregistry: explicit registration of built-in types
//
// Domain-specific components (cameras, neural accelerators, protocol
// bridges) belong in separate modules that build on the component package
// the same way serial does.
package jevois
