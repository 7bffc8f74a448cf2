package gen

import (
	"strings"

	"github.com/mongotype/mongotype/schema/field"
)

// Shape selects which of the two parallel output shapes is being produced.
type Shape uint8

// Output shapes.
const (
	// ShapeLean is the plain data shape: no behavior, no live wrappers.
	ShapeLean Shape = iota
	// ShapeDocument is the live object shape with per-field wrapper types.
	ShapeDocument
)

func (s Shape) String() string {
	if s == ShapeDocument {
		return "document"
	}
	return "lean"
}

// versionKey is the ORM's internal version-counter path. A numeric field
// with this exact key is omitted from both shapes.
const versionKey = "__v"

// resolution is the outcome of resolving one terminal type tag.
type resolution struct {
	// Expr is the emitted type expression. Meaningless unless terminal.
	Expr string
	// Omit signals the caller to drop the field entirely.
	Omit bool
	// Nested signals the caller to recurse one level deeper instead of
	// emitting a terminal type.
	Nested bool
}

// resolveTag maps a field's native type tag and modifiers to a target type
// expression for the requested shape. The table is deterministic and total:
// unrecognized tags degrade to the nested-object sentinel, never an error.
func resolveTag(tag field.Type, key string, enum []string, shape Shape) resolution {
	if key == versionKey && tag.Numeric() {
		return resolution{Omit: true}
	}
	switch tag {
	case field.TypeString:
		if len(enum) > 0 {
			lits := make([]string, len(enum))
			for i, v := range enum {
				lits[i] = `"` + v + `"`
			}
			return resolution{Expr: strings.Join(lits, " | ")}
		}
		return resolution{Expr: "string"}
	case field.TypeNumber:
		return resolution{Expr: "number"}
	case field.TypeBoolean:
		return resolution{Expr: "boolean"}
	case field.TypeDate:
		return resolution{Expr: "Date"}
	case field.TypeBuffer:
		// Both shapes use the same wrapper name here; document-shape
		// callers re-wrap it in the live binary wrapper afterwards.
		return resolution{Expr: "Buffer"}
	case field.TypeDecimal:
		if shape == ShapeDocument {
			return resolution{Expr: "mongoose.Types.Decimal128"}
		}
		return resolution{Expr: "number"}
	case field.TypeObjectID:
		return resolution{Expr: "mongoose.Types.ObjectId"}
	case field.TypeMixed:
		return resolution{Expr: "any"}
	default:
		return resolution{Nested: true}
	}
}

// wrapMap wraps an element type in the map wrapper for the given shape.
func wrapMap(elem string, shape Shape) string {
	if shape == ShapeDocument {
		return "Map<string, " + elem + ">"
	}
	return "Record<string, " + elem + ">"
}

// wrapArray wraps an element type in the plain array wrapper, parenthesizing
// union elements first to avoid operator-precedence ambiguity.
func wrapArray(elem string) string {
	if strings.Contains(elem, "|") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}
