package gen

import (
	"strings"

	"github.com/mongotype/mongotype/compiler/load"
	"github.com/mongotype/mongotype/schema/field"
)

// compileCtx carries one compiler invocation's state down the recursion.
// It is immutable: recursive calls derive a new value instead of mutating
// shared state.
type compileCtx struct {
	shape    Shape
	topLevel bool
	owner    string
	header   string
	footer   string
	indent   string
}

// binding associates a hoisted sub-schema with its synthesized name. It is
// created during hoisting, consumed by the emission pass of the same
// invocation, and never mutated after creation.
type binding struct {
	name     string
	path     string
	sub      *load.SubSchema
	array    bool
	optional bool
}

// metadataKeys are ORM-internal document keys that can leak into schema
// trees. Fields under these keys are never emitted.
var metadataKeys = map[string]struct{}{
	"$__":    {},
	"$isNew": {},
	"_doc":   {},
}

// idKey is the synthetic identifier path. Identifier fields are always
// emitted non-optional, and the "id" virtual alias is always skipped.
const idKey = "_id"

// Compile produces the text block for one output shape of the entity:
// hoisted sub-entity definitions, the per-entity auxiliary types (plain
// shape only), and the entity's own interface body. The same schema always
// compiles to the same bytes.
func (t *Type) Compile(shape Shape) string {
	var header, footer string
	switch shape {
	case ShapeDocument:
		header = commentDocument(t) + "export type " + t.DocumentName() + " = " + t.documentBase() + " & {\n"
		footer = "};\n\n"
	default:
		header = commentLean(t) + "export interface " + t.LeanName() + " {\n"
		footer = "}\n\n"
	}
	return t.compileTree(t.Tree(), compileCtx{
		shape:    shape,
		topLevel: true,
		owner:    t.Name,
		header:   header,
		footer:   footer,
		indent:   "  ",
	})
}

// documentBase is the intersection base of the top-level live type.
func (t *Type) documentBase() string {
	base := "mongoose.Document<mongoose.Types.ObjectId"
	if t.HasQueries() {
		base += ", " + t.QueriesName()
	}
	base += "> & " + t.MethodsName()
	return base
}

// compileTree is the recursive schema tree compiler. Steps, in order:
// hoist declared sub-schemas into sibling definitions, emit the per-entity
// auxiliary types once at the top level of the plain shape, then emit the
// remaining flat fields. The final block is the concatenation
// aux + hoisted + header + fields + footer.
func (t *Type) compileTree(tree *load.Tree, ctx compileCtx) string {
	bindings, order := t.hoist(tree, ctx.owner)

	var hoisted strings.Builder
	for _, b := range order {
		hoisted.WriteString(t.compileSub(b, ctx.shape))
	}

	var aux string
	if ctx.topLevel && ctx.shape == ShapeLean && ctx.owner != "" {
		aux = t.auxTypes()
	}

	absorbed := absorbedPaths(tree, bindings)
	fields := t.emitFields(tree, "", bindings, absorbed, ctx.shape, ctx.indent)

	return aux + hoisted.String() + ctx.header + fields + ctx.footer
}

// hoist walks the tree and collects every declared sub-schema, deriving its
// name once and recording whether it is an array of sub-entities and whether
// the hoisted field may be absent. The walk follows inline trees wherever
// they appear, including inside a field spec's declared type. It does not
// descend into the hoisted sub-schemas themselves; each one hoists its own
// children when compiled.
func (t *Type) hoist(tree *load.Tree, owner string) (map[*load.SubSchema]*binding, []*binding) {
	bindings := make(map[*load.SubSchema]*binding)
	var order []*binding
	var walk func(tr *load.Tree, prefix string)
	walk = func(tr *load.Tree, prefix string) {
		for _, key := range tr.Keys() {
			n, _ := tr.Get(key)
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if b := subBinding(n); b != nil {
				b.path = path
				b.name = subEntityName(owner, path)
				bindings[b.sub] = b
				order = append(order, b)
				continue
			}
			if tr := nestedTree(n); tr != nil {
				walk(tr, path)
			}
		}
	}
	walk(tree, "")
	return bindings, order
}

// subBinding recognizes the declaration forms of a nested sub-schema:
// a bare sub-schema, a single-element sequence of one, or a field spec
// whose type is either. Only the spec form can carry the explicit
// default-disabled marker that makes an array of sub-entities optional.
func subBinding(n *load.Node) *binding {
	switch n.Kind {
	case load.KindSchema:
		return &binding{sub: n.Schema}
	case load.KindArray:
		if n.Elem != nil && n.Elem.Kind == load.KindSchema {
			return &binding{sub: n.Elem.Schema, array: true}
		}
	case load.KindSpec:
		tn := n.Spec.Type
		if tn == nil {
			return nil
		}
		switch {
		case tn.Kind == load.KindSchema:
			return &binding{sub: tn.Schema}
		case tn.Kind == load.KindArray && tn.Elem != nil && tn.Elem.Kind == load.KindSchema:
			return &binding{sub: tn.Elem.Schema, array: true, optional: n.Spec.DefaultDisabled()}
		}
	}
	return nil
}

// compileSub compiles one hoisted sub-entity into its sibling definition.
// The header text varies: live-shape embedded documents, live-shape array
// element documents, and plain lean sub-entities each carry their own form.
func (t *Type) compileSub(b *binding, shape Shape) string {
	var header, footer string
	switch {
	case shape == ShapeDocument && b.array:
		header = commentSubdocument(b.name, true) + "export type " + b.name + "Document = mongoose.Types.ArraySubdocument & {\n"
		footer = "};\n\n"
	case shape == ShapeDocument:
		header = commentSubdocument(b.name, false) + "export type " + b.name + "Document = mongoose.Types.Subdocument & {\n"
		footer = "};\n\n"
	default:
		header = commentLeanSub(b.name) + "export interface " + b.name + " {\n"
		footer = "}\n\n"
	}
	return t.compileTree(b.sub.Tree, compileCtx{
		shape:  shape,
		owner:  b.name,
		header: header,
		footer: footer,
		indent: "  ",
	})
}

// absorbedPaths returns the set of flattened paths that were fully absorbed
// into a hoisted sub-entity, so the flat-field emission never duplicates
// them. The hoisted field's own path stays: it still renders, as a
// reference to the synthesized name.
func absorbedPaths(tree *load.Tree, bindings map[*load.SubSchema]*binding) map[string]struct{} {
	if len(bindings) == 0 {
		return nil
	}
	prefixes := make([]string, 0, len(bindings))
	for _, b := range bindings {
		prefixes = append(prefixes, b.path+".")
	}
	absorbed := make(map[string]struct{})
	for _, f := range tree.Flatten() {
		for _, p := range prefixes {
			if strings.HasPrefix(f.Path, p) {
				absorbed[f.Path] = struct{}{}
			}
		}
	}
	return absorbed
}

// emitFields renders the flat field body of one tree level. Unresolvable
// fields emit nothing; the compiler degrades per field and never fails.
func (t *Type) emitFields(tree *load.Tree, prefix string, bindings map[*load.SubSchema]*binding, absorbed map[string]struct{}, shape Shape, indent string) string {
	var b strings.Builder
	for _, key := range tree.Keys() {
		n, _ := tree.Get(key)
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if _, ok := absorbed[path]; ok {
			continue
		}
		b.WriteString(t.fieldLine(key, path, n, bindings, absorbed, shape, indent))
	}
	return b.String()
}

// fieldLine resolves one field into an emitted member line, or into nothing
// when the field is omitted. This is the merged per-field decision
// procedure: array and map normalization, hoisted-name substitution,
// virtual and metadata handling, reference unions, terminal tag resolution,
// inline recursion for nested objects, then shape-specific wrapping and
// optionality.
func (t *Type) fieldLine(key, path string, n *load.Node, bindings map[*load.SubSchema]*binding, absorbed map[string]struct{}, shape Shape, indent string) string {
	if _, ok := metadataKeys[key]; ok {
		return ""
	}

	// Normalize the two array representations into one flag plus payload.
	isArray := false
	payload := n
	if payload.Kind == load.KindArray {
		isArray = true
		payload = payload.Elem
	}

	required := false
	if payload != nil && payload.Kind == load.KindSpec {
		spec := payload.Spec
		required = spec.Required
		tn := spec.Type
		if tn != nil && tn.Kind == load.KindArray {
			isArray = true
			tn = tn.Elem
			// Validator-wrapped array form: the payload carries a nested
			// type bearing its own type. Unwrapping it makes the field
			// implicitly required.
			if tn != nil && tn.Kind == load.KindSpec {
				inner := tn.Spec
				required = true
				spec = &load.FieldSpec{
					Type:     inner.Type,
					Enum:     spec.Enum,
					Ref:      firstNonEmpty(spec.Ref, inner.Ref),
					Required: true,
					Of:       spec.Of,
				}
				if len(spec.Enum) == 0 {
					spec.Enum = inner.Enum
				}
				tn = spec.Type
			} else {
				spec = &load.FieldSpec{Type: tn, Enum: spec.Enum, Ref: spec.Ref, Required: required, Of: spec.Of, Default: spec.Default}
			}
		}
		payload = &load.Node{Kind: load.KindSpec, Spec: spec}
	}
	if payload == nil {
		return ""
	}

	// A bare array tag declares an array of unconstrained values.
	if terminalTag(payload) == field.TypeArray {
		isArray = true
		payload = &load.Node{Kind: load.KindTag, Tag: field.TypeMixed, RawTag: "Mixed"}
	}

	// Map fields unwrap to their element type for resolution.
	isMap := false
	if terminalTag(payload) == field.TypeMap {
		isMap = true
		payload = mapElem(specOf(payload))
	}

	expr, omit, forced := t.resolveNode(key, path, payload, bindings, absorbed, shape, indent)
	if omit {
		return ""
	}
	if forced {
		required = true
	}

	// Post-resolution wrapping. The wrapper syntax differs between shapes,
	// and the live shape distinguishes sub-document arrays from plain ones.
	if shape == ShapeDocument && terminalTag(payload) == field.TypeBuffer {
		expr = "mongoose.Types.Buffer"
	}
	if isMap {
		expr = wrapMap(expr, shape)
	}
	if isArray {
		required = true
		sub := schemaOf(payload)
		switch {
		case shape == ShapeDocument && sub != nil:
			expr = "mongoose.Types.DocumentArray<" + expr + ">"
		case shape == ShapeDocument:
			expr = "mongoose.Types.Array<" + expr + ">"
		default:
			expr = wrapArray(expr)
		}
		if bd := bindings[sub]; bd != nil && bd.optional {
			required = false
		}
	}
	if key == idKey {
		required = true
	}

	opt := "?"
	if required {
		opt = ""
	}
	return indent + key + opt + ": " + expr + ";\n"
}

// resolveNode resolves the normalized payload of one field into a type
// expression. omit drops the field entirely; forced marks it non-optional.
func (t *Type) resolveNode(key, path string, payload *load.Node, bindings map[*load.SubSchema]*binding, absorbed map[string]struct{}, shape Shape, indent string) (expr string, omit, forced bool) {
	// Hoisted sub-entities resolve to their synthesized name, with the
	// document marker in live shape only.
	if sub := schemaOf(payload); sub != nil {
		bd := bindings[sub]
		if bd == nil {
			return "", true, false
		}
		if shape == ShapeDocument {
			return bd.name + "Document", false, false
		}
		return bd.name, false, false
	}

	// Computed properties: the identity alias is always skipped; the plain
	// shape includes them only when the entity's options say so.
	if payload.Kind == load.KindVirtual {
		if key == "id" {
			return "", true, false
		}
		if shape == ShapeLean && !t.VirtualsInLean() {
			return "", true, false
		}
		return "any", false, false
	}

	// Cross-entity references emit a union of the referenced entity's
	// identifier field type and the entity itself.
	if ref := refOf(payload); ref != "" {
		return t.refUnion(ref, shape), false, false
	}

	switch payload.Kind {
	case load.KindTag:
		res := resolveTag(payload.Tag, key, nil, shape)
		if res.Omit || res.Nested {
			return "", true, false
		}
		return res.Expr, false, false
	case load.KindSpec:
		tn := payload.Spec.Type
		if tn == nil {
			return "", true, false
		}
		if tn.Kind == load.KindTag {
			res := resolveTag(tn.Tag, key, payload.Spec.Enum, shape)
			if res.Omit {
				return "", true, false
			}
			if !res.Nested {
				return res.Expr, false, false
			}
		}
		if tn.Kind == load.KindTree {
			return t.inlineObject(tn.Tree, path, bindings, absorbed, shape, indent), false, true
		}
		return "", true, false
	case load.KindTree:
		// Nested-object sentinel: recurse inline with bracket fragments
		// and force the field non-optional.
		return t.inlineObject(payload.Tree, path, bindings, absorbed, shape, indent), false, true
	default:
		return "", true, false
	}
}

// inlineObject renders an inline nested object literal one level deeper.
// The recursive call is not a top-level invocation, so it re-emits no
// export qualifiers and no auxiliary types.
func (t *Type) inlineObject(tree *load.Tree, path string, bindings map[*load.SubSchema]*binding, absorbed map[string]struct{}, shape Shape, indent string) string {
	body := t.emitFields(tree, path, bindings, absorbed, shape, indent+"  ")
	return "{\n" + body + indent + "}"
}

// refUnion renders the reference union for a cross-entity reference name.
// A reference name containing a path separator denotes a sub-entity and is
// renamed through the sub-entity namer.
func (t *Type) refUnion(ref string, shape Shape) string {
	name := ref
	if i := strings.Index(ref, "."); i >= 0 {
		name = subEntityName(ref[:i], ref[i+1:])
	}
	target := name
	if shape == ShapeDocument {
		target = name + "Document"
	}
	return name + `["` + idKey + `"] | ` + target
}

// mapElem returns the element node of a map field, defaulting to the
// unconstrained type when the declaration names none.
func mapElem(spec *load.FieldSpec) *load.Node {
	if spec != nil && spec.Of != nil {
		return spec.Of
	}
	return &load.Node{Kind: load.KindTag, Tag: field.TypeMixed, RawTag: "Mixed"}
}

// nestedTree returns the inline tree a node carries, however it is wrapped:
// directly, as a sequence element, or as the declared type of a field spec.
// Sub-schemas declared inside any of these trees still hoist.
func nestedTree(n *load.Node) *load.Tree {
	switch n.Kind {
	case load.KindTree:
		return n.Tree
	case load.KindArray:
		if n.Elem != nil && n.Elem.Kind == load.KindTree {
			return n.Elem.Tree
		}
	case load.KindSpec:
		tn := n.Spec.Type
		if tn != nil && tn.Kind == load.KindArray {
			tn = tn.Elem
		}
		if tn != nil && tn.Kind == load.KindTree {
			return tn.Tree
		}
	}
	return nil
}

// schemaOf returns the declared sub-schema carried by a payload node.
func schemaOf(n *load.Node) *load.SubSchema {
	if n == nil {
		return nil
	}
	if n.Kind == load.KindSchema {
		return n.Schema
	}
	if n.Kind == load.KindSpec && n.Spec.Type != nil && n.Spec.Type.Kind == load.KindSchema {
		return n.Spec.Type.Schema
	}
	return nil
}

// refOf returns the cross-entity reference name declared on a payload node.
func refOf(n *load.Node) string {
	if n != nil && n.Kind == load.KindSpec {
		return n.Spec.Ref
	}
	return ""
}

// specOf returns the field spec carried by a payload node.
func specOf(n *load.Node) *load.FieldSpec {
	if n != nil && n.Kind == load.KindSpec {
		return n.Spec
	}
	return nil
}

// terminalTag returns the terminal tag of a payload node, if any.
func terminalTag(n *load.Node) field.Type {
	if n == nil {
		return field.TypeInvalid
	}
	if n.Kind == load.KindTag {
		return n.Tag
	}
	if n.Kind == load.KindSpec && n.Spec.Type != nil && n.Spec.Type.Kind == load.KindTag {
		return n.Spec.Type.Tag
	}
	return field.TypeInvalid
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
