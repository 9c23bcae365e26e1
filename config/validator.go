package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nizvoo/jevois/component"
	"github.com/nizvoo/jevois/errors"
)

// Validator checks configuration documents against a JSON Schema generated
// from the parameter metadata of a component registry. It catches unknown
// component types, unknown parameter names and out-of-range enum values
// before any component is built.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a schema from the registry's current type metadata.
// Types registered after this call are not reflected; build a new Validator.
func NewValidator(reg *component.Registry) (*Validator, error) {
	doc := schemaDocument(reg)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("marshal generated schema: %w", err),
			"Validator", "NewValidator", "schema generation")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("compile generated schema: %w", err),
			"Validator", "NewValidator", "schema compilation")
	}
	return &Validator{schema: schema}, nil
}

// Validate checks a parsed configuration against the schema
func (v *Validator) Validate(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
			"Validator", "Validate", "encode config")
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
			"Validator", "Validate", "schema validation")
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	for i, desc := range result.Errors() {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", desc.Field(), desc.Description())
	}
	return errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrInvalidConfig, sb.String()),
		"Validator", "Validate", "schema validation")
}

// schemaDocument builds a draft-07 JSON Schema for Config. Each registered
// type contributes a conditional clause restricting params to its declared
// names and enum values.
func schemaDocument(reg *component.Registry) map[string]any {
	types := reg.ListTypes()

	typeNames := make([]any, 0, len(types))
	conditions := make([]any, 0, len(types))
	for _, name := range types {
		typeNames = append(typeNames, name)

		schema, err := reg.TypeSchema(name)
		if err != nil {
			continue
		}
		conditions = append(conditions, map[string]any{
			"if": map[string]any{
				"properties": map[string]any{
					"type": map[string]any{"const": name},
				},
			},
			"then": map[string]any{
				"properties": map[string]any{
					"params": paramsSchema(schema),
				},
			},
		})
	}

	componentSchema := map[string]any{
		"type":     "object",
		"required": []any{"name", "type"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"type": map[string]any{"enum": typeNames},
			"params": map[string]any{
				"type": "object",
			},
			"components": map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "#/definitions/component"},
			},
		},
		"additionalProperties": false,
	}
	if len(conditions) > 0 {
		componentSchema["allOf"] = conditions
	}

	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"version", "components"},
		"properties": map[string]any{
			"version": map[string]any{"type": "string", "minLength": 1},
			"components": map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "#/definitions/component"},
			},
		},
		"additionalProperties": false,
		"definitions": map[string]any{
			"component": componentSchema,
		},
	}
}

// paramsSchema restricts a params block to the declared parameter names.
// All values are strings on the wire; enum parameters additionally list
// their valid textual values.
func paramsSchema(params []component.ParamInfo) map[string]any {
	props := make(map[string]any, len(params))
	for _, p := range params {
		prop := map[string]any{"type": "string"}
		if p.Type == "enum" && len(p.Enum) > 0 {
			vals := make([]any, 0, len(p.Enum))
			for _, v := range p.Enum {
				vals = append(vals, v)
			}
			prop["enum"] = vals
		}
		props[p.Name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}
