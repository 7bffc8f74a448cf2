package gen

import (
	"strings"

	"github.com/mongotype/mongotype/compiler/load"
)

// fileHeader is the banner prepended to every generated file when the
// configuration carries no custom one.
const fileHeader = `/* tslint:disable */
/* eslint-disable */

// ######################################## THIS FILE WAS GENERATED BY MONGOTYPE ######################################## //
// #################################### DO NOT MODIFY THIS FILE MANUALLY. #################################### //
`

// Unit is one generation unit: the full set of entities emitted into a
// single typings file.
type Unit struct {
	cfg   *Config
	types []*Type
}

// NewUnit builds the generation unit for the given schema descriptions.
// Entities keep their discovery order: the emission order is an observable
// contract of the generated file.
func NewUnit(cfg *Config, schemas []*load.Schema) (*Unit, error) {
	types := make([]*Type, 0, len(schemas))
	for _, s := range schemas {
		t, err := NewType(cfg, s)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return &Unit{cfg: cfg, types: types}, nil
}

// Types returns the unit's entities in emission order.
func (u *Unit) Types() []*Type { return u.types }

// Generate emits the typings file: the banner and imports, then per entity
// the plain shape followed by the live shape, then the patch pass that
// rewrites generic member signatures with their declared ones.
func (u *Unit) Generate() (string, error) {
	var b strings.Builder
	b.WriteString(fileHeader)
	if u.cfg.Header != "" {
		b.WriteString(u.cfg.Header)
		if !strings.HasSuffix(u.cfg.Header, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("\nimport mongoose from \"mongoose\";\n")
	for _, imp := range u.cfg.Imports {
		b.WriteString(imp)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var body strings.Builder
	for _, t := range u.types {
		body.WriteString(t.Compile(ShapeLean))
		body.WriteString(t.Compile(ShapeDocument))
	}

	if u.cfg.Augment {
		b.WriteString("declare module \"mongoose\" {\n\n")
		b.WriteString(body.String())
		b.WriteString("}\n")
	} else {
		b.WriteString(body.String())
	}

	out, err := Patch(b.String(), u.types)
	if err != nil {
		return "", NewGenerationError("patch", u.cfg.Target, "patching generated declarations", err)
	}
	return out, nil
}
