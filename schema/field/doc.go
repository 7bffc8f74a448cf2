// Package field defines the closed enumeration of native schema type tags
// used by the mongotype compiler.
//
// Schema descriptions declare field types using the source ORM's spellings:
//
//	"String", "Number", "Boolean", "Date", "Buffer",
//	"ObjectId", "Decimal128", "Mixed", "Map", "Array"
//
// Several types have more than one accepted spelling (for example
// "ObjectId", "ObjectID" and "Schema.Types.ObjectId" all denote the
// identifier type). Parse normalizes any spelling into a field.Type once,
// during loading, so the compiler never compares raw strings:
//
//	t := field.Parse("Schema.Types.ObjectId") // field.TypeObjectID
//
// Unrecognized spellings never fail; they parse to field.TypeObject, the
// nested-object sentinel that tells the compiler to recurse instead of
// emitting a terminal type.
package field
