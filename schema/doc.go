// Package schema groups the vocabulary of the source schema language.
//
// Its subpackages describe the pieces a schema description is made of:
//
//   - [field]: the native type tags a field can declare
//
// The packages here carry no behavior of their own; the compiler packages
// under compiler/ consume them when decoding and resolving schema trees.
package schema
