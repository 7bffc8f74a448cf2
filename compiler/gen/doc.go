// Package gen is the typings-generation engine. It compiles loaded schema
// descriptions into TypeScript declaration text: for every entity a plain
// data interface and a live document type, their auxiliary collection types,
// and the hoisted definitions of nested sub-entities. A structural patch
// pass then rewrites generically-typed members with their declared
// signatures.
//
// The compiler is deterministic and total: the same schema set always
// produces the same bytes, and fields that cannot be resolved are dropped
// per field rather than failing the run.
package gen
