package gen

import (
	"github.com/mongotype/mongotype/compiler/load"
)

// Patch rewrites the generically-typed member lines of a generated file
// with the declared signatures of its entities: function-collection members
// receive their full contextual signatures, and computed properties receive
// their declared types. Members with no declared signature keep the generic
// default. Patching the same source twice produces identical output.
func Patch(src string, types []*Type) (string, error) {
	f := parseFile(src)
	for _, t := range types {
		if err := t.patch(f); err != nil {
			return "", err
		}
	}
	return f.String(), nil
}

func (t *Type) patch(f *parsedFile) error {
	if err := t.patchFuncs(f, t.MethodsName(), roleMethod, t.Methods); err != nil {
		return err
	}
	if err := t.patchFuncs(f, t.StaticsName(), roleStatic, t.Statics); err != nil {
		return err
	}
	if t.HasQueries() {
		if err := t.patchFuncs(f, t.QueriesName(), roleQuery, t.Queries); err != nil {
			return err
		}
	}
	if err := t.patchVirtuals(f, t.DocumentName()); err != nil {
		return err
	}
	if t.VirtualsInLean() {
		return t.patchVirtuals(f, t.LeanName())
	}
	return nil
}

// patchFuncs rewrites one function-collection block. Every member whose key
// matches a declared function gets the contextual signature synthesized for
// the collection's role.
func (t *Type) patchFuncs(f *parsedFile, name string, role funcRole, fns []*load.Function) error {
	d, ok := f.decls[name]
	if !ok {
		return NewPatchError(t.Name, name, "declaration not found in generated output", ErrPatchFailed)
	}
	byKey := make(map[string]*load.Function, len(fns))
	for _, fn := range fns {
		byKey[fn.Name] = fn
	}
	for _, m := range f.members(d) {
		fn, ok := byKey[m.key]
		if !ok || fn.Signature == "" {
			continue
		}
		f.setExpr(m, t.funcType(role, fn.Signature))
	}
	return nil
}

// patchVirtuals rewrites the computed-property members of one entity block.
// Only members still carrying the unconstrained placeholder are touched;
// schema fields that happen to share a computed property's name stay as
// emitted.
func (t *Type) patchVirtuals(f *parsedFile, name string) error {
	if len(t.Virtuals) == 0 {
		return nil
	}
	d, ok := f.decls[name]
	if !ok {
		return NewPatchError(t.Name, name, "declaration not found in generated output", ErrPatchFailed)
	}
	byKey := make(map[string]*load.Virtual, len(t.Virtuals))
	for _, v := range t.Virtuals {
		byKey[v.Name] = v
	}
	for _, m := range f.members(d) {
		v, ok := byKey[m.key]
		if !ok || v.Type == "" || m.expr != "any" {
			continue
		}
		f.setExpr(m, v.Type)
	}
	return nil
}
