package gen

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/mongotype/mongotype/compiler/load"
)

// rules holds the pluralization ruleset used for collection names.
var rules = inflect.NewDefaultRuleset()

// Type represents one modeled entity: a top-level schema with its function
// collections, computed properties and per-entity configuration.
type Type struct {
	*Config
	schema *load.Schema
	// Name holds the entity name.
	Name string
	// Methods, Statics and Queries hold the entity's three function
	// collections in declaration order.
	Methods []*load.Function
	Statics []*load.Function
	Queries []*load.Function
	// Virtuals holds the entity's computed properties.
	Virtuals []*load.Virtual
}

// NewType creates a new entity type from the given schema description.
func NewType(c *Config, schema *load.Schema) (*Type, error) {
	if err := ValidEntityName(schema.Name); err != nil {
		return nil, err
	}
	return &Type{
		Config:   c,
		schema:   schema,
		Name:     schema.Name,
		Methods:  schema.Methods,
		Statics:  schema.Statics,
		Queries:  schema.Queries,
		Virtuals: schema.Virtuals,
	}, nil
}

// Tree returns the entity's schema tree.
func (t *Type) Tree() *load.Tree { return t.schema.Tree }

// Options returns the entity's declarative configuration.
func (t *Type) Options() load.Options { return t.schema.Options }

// VirtualsInLean reports whether computed properties are included in the
// plain output shape of this entity.
func (t *Type) VirtualsInLean() bool { return t.schema.Options.VirtualsInLean() }

// LeanName returns the name of the plain data interface.
func (t *Type) LeanName() string { return t.Name }

// ObjectName returns the name of the object-shape alias. It disambiguates
// the plain interface from the runtime model's name in user code.
func (t *Type) ObjectName() string { return t.Name + "Object" }

// DocumentName returns the name of the live-object type.
func (t *Type) DocumentName() string { return t.Name + "Document" }

// QueriesName returns the name of the query-helper collection type.
func (t *Type) QueriesName() string { return t.Name + "Queries" }

// MethodsName returns the name of the instance-behavior collection type.
func (t *Type) MethodsName() string { return t.Name + "Methods" }

// StaticsName returns the name of the static-behavior collection type.
func (t *Type) StaticsName() string { return t.Name + "Statics" }

// ModelName returns the name of the aggregate model interface.
func (t *Type) ModelName() string { return t.Name + "Model" }

// SchemaName returns the name of the schema marker alias.
func (t *Type) SchemaName() string { return t.Name + "Schema" }

// Collection returns the storage collection name derived from the entity
// name, the way the source ORM derives it.
func (t *Type) Collection() string {
	return strings.ToLower(rules.Pluralize(t.Name))
}

// HasQueries reports if the entity declares any query helpers. The
// query-helper collection type and its augmentation are only emitted when
// it does.
func (t *Type) HasQueries() bool { return len(t.Queries) > 0 }

// ValidEntityName will determine if a name can be used as the base of the
// generated type names.
func ValidEntityName(name string) error {
	if name == "" {
		return NewSchemaError("", "", "entity name cannot be empty", nil)
	}
	if strings.ContainsAny(name, `/\`) {
		return NewSchemaError(name, "", "entity name contains path separator characters", nil)
	}
	for i, r := range name {
		if r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return NewSchemaError(name, "", "entity name is not a valid identifier", nil)
	}
	return nil
}
