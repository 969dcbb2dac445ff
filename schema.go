// Package eventkit provides utilities for AWS Lambda handlers: schema-driven
// parameter extraction from the common trigger event shapes, errors that carry
// HTTP status codes, event summary logging, and thin retry-wrapped AWS SDK
// helpers.
package eventkit

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ValueType names the JSON type a Field expects. The zero value means no type
// check is performed.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeArray   ValueType = "array"
	TypeObject  ValueType = "object"
)

// Node is one entry in a Schema: either a Field describing a single value to
// extract, or a Group nesting further entries. The two variants are explicit
// types rather than being inferred from the shape of the entry.
type Node interface {
	isNode()
}

// Schema maps top-level event keys (body, headers, pathParameters, ...) to
// the parameters to extract beneath them.
type Schema map[string]Node

// Group is a nested level of a Schema, used for multi-segment paths such as
// identity.claims.email.
type Group map[string]Node

func (Group) isNode() {}

// Field describes how to find, validate and transform one parameter.
type Field struct {
	//Label names the parameter in default error messages
	Label string

	//Required records a validation error when the value is missing or null
	Required bool

	//Type, when set, must match the resolved value before Decode runs
	Type ValueType

	//Default is stored under the leaf key when the value is missing and the
	//field is not required. nil means no default; falsy values like 0, ""
	//and false are honoured.
	Default any

	//CaseInsensitive matches each path segment ignoring case, for sources
	//like HTTP headers
	CaseInsensitive bool

	//StatusCode overrides the status recorded for this field's validation
	//errors (default 422)
	StatusCode int

	//NotFoundMessage overrides the "<label> is required" message
	NotFoundMessage string

	//WrongTypeMessage overrides both the type mismatch and the decode
	//failure messages
	WrongTypeMessage string

	//Decode transforms the raw value after the presence and type checks pass
	Decode Decoder
}

func (Field) isNode() {}

// SchemaError reports a problem with the schema itself, as opposed to a
// validation failure of the event being extracted.
type SchemaError struct {
	Path   string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema path %q: %s", e.Path, e.Detail)
}

// Validate checks the schema before any extraction runs. It rejects fields
// without a label, unknown type names, and two branches sharing one leaf key,
// which would otherwise silently overwrite each other in the result map.
func (s Schema) Validate() error {
	v := &schemaValidator{leaves: map[string]string{}}
	v.group(nil, Group(s))
	return errors.Join(v.problems...)
}

type schemaValidator struct {
	leaves   map[string]string
	problems []error
}

func (v *schemaValidator) group(prefix []string, g Group) {
	for _, key := range slices.Sorted(maps.Keys(g)) {
		path := append(slices.Clone(prefix), key)
		dotted := strings.Join(path, ".")

		switch node := g[key].(type) {
		case Field:
			v.field(dotted, key, node)
		case *Field:
			if node == nil {
				v.problems = append(v.problems, &SchemaError{Path: dotted, Detail: "nil node"})
				continue
			}
			v.field(dotted, key, *node)
		case Group:
			v.group(path, node)
		case nil:
			v.problems = append(v.problems, &SchemaError{Path: dotted, Detail: "nil node"})
		default:
			v.problems = append(v.problems, &SchemaError{Path: dotted, Detail: fmt.Sprintf("unsupported node type %T", node)})
		}
	}
}

func (v *schemaValidator) field(dotted, key string, f Field) {
	if f.Label == "" {
		v.problems = append(v.problems, &SchemaError{Path: dotted, Detail: "field has no label"})
	}

	switch f.Type {
	case "", TypeString, TypeNumber, TypeBoolean, TypeArray, TypeObject:
	default:
		v.problems = append(v.problems, &SchemaError{Path: dotted, Detail: fmt.Sprintf("unknown type %q", f.Type)})
	}

	if previous, found := v.leaves[key]; found {
		v.problems = append(v.problems, &SchemaError{
			Path:   dotted,
			Detail: fmt.Sprintf("leaf key %q already used at %q", key, previous),
		})
		return
	}
	v.leaves[key] = dotted
}
