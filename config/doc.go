// Package config loads and validates YAML tree configurations and builds
// component trees from them.
//
// A configuration document names a version and a list of component
// definitions. Each definition carries an instance name, a registered
// component type, a params block of textual parameter values and an
// optional list of nested sub-components:
//
//	version: "1.0"
//	components:
//	  - name: uart0
//	    type: serial
//	    params:
//	      devname: /dev/ttyACM0
//	      baudrate: "115200"
//	      linestyle: CRLF
//
// # Loading and Building
//
// Load or Parse decode and structurally check a document; Build walks the
// definitions and creates each instance through a component.Registry:
//
//	cfg, err := config.Load("jevois.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Build(registry, root); err != nil {
//		log.Fatal(err)
//	}
//
// # Schema Validation
//
// Validator generates a JSON Schema from the registry's parameter metadata
// and checks documents against it before anything is built, rejecting
// unknown types, unknown parameter names and invalid enum values:
//
//	v, err := config.NewValidator(registry)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := v.Validate(cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Reapplying Parameters
//
// Apply sets the configured parameter values on an existing tree without
// rebuilding it, which supports reloading tuned values at runtime. Values
// are descriptors, so a parent's params block may target its children.
package config
