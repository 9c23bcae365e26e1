package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/nizvoo/jevois/component"
	"github.com/nizvoo/jevois/errors"
)

// ComponentConfig describes one component instance to build: its instance
// name, registered type, initial parameter values and nested sub-components.
type ComponentConfig struct {
	Name       string            `yaml:"name" json:"name"`
	Type       string            `yaml:"type" json:"type"`
	Params     map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Components []ComponentConfig `yaml:"components,omitempty" json:"components,omitempty"`
}

// Config is a complete tree configuration document
type Config struct {
	Version    string            `yaml:"version" json:"version"`
	Components []ComponentConfig `yaml:"components" json:"components"`
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrMissingConfig, err),
			"config", "Load", "read config file")
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document and checks its structure.
// Schema validation against a registry is a separate step, see Validator.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
			"config", "Parse", "decode YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural requirements: a version, and valid unique
// instance names at every level of the component tree.
func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: version is required", errors.ErrInvalidConfig),
			"Config", "Validate", "version check")
	}
	return validateComponents(c.Components, "")
}

func validateComponents(configs []ComponentConfig, parent string) error {
	seen := make(map[string]struct{}, len(configs))
	for _, cc := range configs {
		where := cc.Name
		if parent != "" {
			where = parent + component.Delimiter + cc.Name
		}
		if err := component.ValidateInstanceName(cc.Name); err != nil {
			return errors.WrapInvalid(
				fmt.Errorf("%w: component %q: %w", errors.ErrInvalidConfig, where, err),
				"Config", "Validate", "instance name check")
		}
		if cc.Type == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: component %q has no type", errors.ErrInvalidConfig, where),
				"Config", "Validate", "type check")
		}
		if _, dup := seen[cc.Name]; dup {
			return errors.WrapInvalid(
				fmt.Errorf("%w: duplicate component name %q", errors.ErrInvalidConfig, where),
				"Config", "Validate", "sibling name check")
		}
		seen[cc.Name] = struct{}{}

		if err := validateComponents(cc.Components, where); err != nil {
			return err
		}
	}
	return nil
}

// Build creates the configured component tree under root, resolving each
// component type through the registry. Parameters are applied after each
// subtree is built, so a parent's params may target its children.
func (c *Config) Build(reg *component.Registry, root component.Component) error {
	if reg == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: registry is nil", errors.ErrInvalidConfig),
			"Config", "Build", "registry check")
	}
	for _, cc := range c.Components {
		if err := buildComponent(reg, root, cc); err != nil {
			return err
		}
	}
	return nil
}

func buildComponent(reg *component.Registry, parent component.Component, cc ComponentConfig) error {
	comp, err := reg.CreateUnder(parent, cc.Type, cc.Name)
	if err != nil {
		return errors.Wrap(err, "Config", "Build", fmt.Sprintf("create component %q", cc.Name))
	}
	for _, sub := range cc.Components {
		if err := buildComponent(reg, comp, sub); err != nil {
			return err
		}
	}
	if err := applyParams(comp, cc); err != nil {
		return err
	}
	return nil
}

// Apply sets every configured parameter on an already built tree, resolving
// each by descriptor relative to the component it is configured on. All
// failures are collected so one bad value does not mask the rest.
func (c *Config) Apply(root component.Component) error {
	var errs []error
	for _, cc := range c.Components {
		sub, err := root.Node().Sub(cc.Name)
		if err != nil {
			errs = append(errs, errors.Wrap(err, "Config", "Apply", fmt.Sprintf("lookup component %q", cc.Name)))
			continue
		}
		errs = append(errs, applyTree(sub, cc)...)
	}
	return stderrors.Join(errs...)
}

func applyTree(comp component.Component, cc ComponentConfig) []error {
	var errs []error
	if err := applyParams(comp, cc); err != nil {
		errs = append(errs, err)
	}
	for _, sub := range cc.Components {
		child, err := comp.Node().Sub(sub.Name)
		if err != nil {
			errs = append(errs, errors.Wrap(err, "Config", "Apply", fmt.Sprintf("lookup component %q", sub.Name)))
			continue
		}
		errs = append(errs, applyTree(child, sub)...)
	}
	return errs
}

func applyParams(comp component.Component, cc ComponentConfig) error {
	names := make([]string, 0, len(cc.Params))
	for name := range cc.Params {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		set, err := comp.Node().SetParamString(name, cc.Params[name])
		if err == nil && len(set) == 0 {
			err = fmt.Errorf("%w: no parameter matches", errors.ErrNotFound)
		}
		if err != nil {
			errs = append(errs, errors.Wrap(
				fmt.Errorf("component %q param %q: %w", cc.Name, name, err),
				"Config", "Apply", "set parameter"))
		}
	}
	return stderrors.Join(errs...)
}
