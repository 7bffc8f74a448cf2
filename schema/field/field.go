package field

// A Type represents one of the closed set of native schema type tags a field
// can declare. The mapping from the source spellings (e.g. "String",
// "Schema.Types.ObjectId") to a Type is decided once during schema loading;
// the rest of the compiler only ever compares Type values.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeDate
	TypeBuffer
	TypeObjectID
	TypeDecimal
	TypeMixed
	TypeMap
	TypeArray
	// TypeObject is the nested-object sentinel. Unrecognized tags resolve
	// to it, signaling the compiler to recurse one level deeper rather
	// than emit a terminal type.
	TypeObject
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeString:   "string",
	TypeNumber:   "number",
	TypeBoolean:  "boolean",
	TypeDate:     "date",
	TypeBuffer:   "buffer",
	TypeObjectID: "objectid",
	TypeDecimal:  "decimal",
	TypeMixed:    "mixed",
	TypeMap:      "map",
	TypeArray:    "array",
	TypeObject:   "object",
}

// tags maps every recognized native spelling to its variant. Identifier and
// a few other types have multiple spellings in the wild depending on how the
// schema author referenced them.
var tags = map[string]Type{
	"String":                  TypeString,
	"Number":                  TypeNumber,
	"Boolean":                 TypeBoolean,
	"Date":                    TypeDate,
	"Buffer":                  TypeBuffer,
	"ObjectId":                TypeObjectID,
	"ObjectID":                TypeObjectID,
	"Schema.Types.ObjectId":   TypeObjectID,
	"Decimal128":              TypeDecimal,
	"Schema.Types.Decimal128": TypeDecimal,
	"Mixed":                   TypeMixed,
	"Schema.Types.Mixed":      TypeMixed,
	"Map":                     TypeMap,
	"Array":                   TypeArray,
}

// Parse returns the Type for a native tag spelling. Unrecognized spellings
// return TypeObject, never an error; the compiler treats them as nested
// objects and degrades per-field.
func Parse(tag string) Type {
	if t, ok := tags[tag]; ok {
		return t
	}
	return TypeObject
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t == TypeNumber || t == TypeDecimal
}
