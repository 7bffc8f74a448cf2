// Package load defines the schema description consumed by the mongotype
// compiler and decodes it from its JSON form.
//
// A schema description is the JSON rendering of a runtime schema object: an
// ordered tree of field definitions, nested sub-schemas, computed (virtual)
// properties, and three named collections of callable members. Declaration
// order is significant (generated output must be byte-stable), so trees are
// decoded with an order-preserving container rather than a Go map.
package load

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mongotype/mongotype/schema/field"
)

// Schema represents one entity schema that was loaded from a JSON schema
// description.
type Schema struct {
	Name     string      `json:"name"`
	Tree     *Tree       `json:"tree"`
	Methods  []*Function `json:"methods,omitempty"`
	Statics  []*Function `json:"statics,omitempty"`
	Queries  []*Function `json:"query,omitempty"`
	Virtuals []*Virtual  `json:"virtuals,omitempty"`
	Options  Options     `json:"options,omitempty"`
}

// Function is one member of a function collection. An empty Signature means
// the call signature is unknown and the member renders with the generic
// variadic signature until a real one is supplied.
type Function struct {
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
}

// Virtual is a computed property declared on a schema. Type, when known,
// holds the inferred type expression used by the patch pass; empty means
// the property renders as unconstrained.
type Virtual struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Options holds the per-entity configuration flags that the compiler reads.
type Options struct {
	ToObject ShapeOptions `json:"toObject,omitempty"`
	ToJSON   ShapeOptions `json:"toJSON,omitempty"`
}

// ShapeOptions configures one serialization shape of the source ORM.
type ShapeOptions struct {
	Virtuals bool `json:"virtuals,omitempty"`
}

// VirtualsInLean reports whether computed properties propagate into the
// plain (lean) output shape. Two independent flags yield four combinations;
// only both-false excludes virtuals from the plain shape.
func (o Options) VirtualsInLean() bool {
	return o.ToObject.Virtuals || o.ToJSON.Virtuals
}

// Kind discriminates the variants a tree value can take.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	// KindTag is a bare native type tag, e.g. "String".
	KindTag
	// KindSpec is a field spec object carrying a "type" plus modifiers.
	KindSpec
	// KindTree is an inline nested object literal.
	KindTree
	// KindSchema is a declared sub-schema, hoisted by the compiler into
	// its own named definition.
	KindSchema
	// KindArray is a single-element sequence wrapping its payload.
	KindArray
	// KindVirtual is a computed property entry (path + getters + setters).
	KindVirtual
)

// Node is one value in a schema tree. Exactly one of the variant fields is
// populated, per Kind.
type Node struct {
	Kind    Kind
	Tag     field.Type
	RawTag  string
	Spec    *FieldSpec
	Tree    *Tree
	Schema  *SubSchema
	Elem    *Node
	Virtual *Virtual
}

// SubSchema is a declared nested schema attached to a field.
type SubSchema struct {
	Tree *Tree
}

// FieldSpec is a field definition object: a declared type value plus its
// modifiers. Default is kept raw; only its presence and its explicit
// "disabled" forms matter to the compiler.
type FieldSpec struct {
	Type     *Node
	Enum     []string
	Ref      string
	Required bool
	Default  json.RawMessage
	// Of is the element type of a map field.
	Of *Node
}

// HasDefault reports if the field declares any default-value marker.
func (s *FieldSpec) HasDefault() bool {
	return len(s.Default) > 0
}

// DefaultDisabled reports if the field explicitly disables the implicit
// default. For arrays of sub-entities this is the only case in which the
// hoisted field is optional; absent the marker the ORM always materializes
// an empty array.
func (s *FieldSpec) DefaultDisabled() bool {
	switch strings.TrimSpace(string(s.Default)) {
	case "null", "false":
		return true
	}
	return false
}

// Tree is an ordered mapping from field path segment to a tree value.
type Tree struct {
	keys  []string
	nodes map[string]*Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*Node)}
}

// Len returns the number of entries at this level.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the entry keys in declaration order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[key]
	return n, ok
}

// Set stores a value under key, appending the key when new.
func (t *Tree) Set(key string, n *Node) {
	if _, ok := t.nodes[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.nodes[key] = n
}

// FlatField is one entry of a flattened tree: a dot-separated path and the
// leaf value found there.
type FlatField struct {
	Path string
	Node *Node
}

// Flatten returns the flattened representation of the tree. Inline nested
// objects contribute dotted paths; declared sub-schemas, arrays, specs and
// virtuals are leaves. The flattened and nested representations always
// agree: Nest(t.Flatten()) reproduces t.
func (t *Tree) Flatten() []FlatField {
	var out []FlatField
	t.flatten("", &out)
	return out
}

func (t *Tree) flatten(prefix string, out *[]FlatField) {
	if t == nil {
		return
	}
	for _, key := range t.keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		n := t.nodes[key]
		if n.Kind == KindTree {
			n.Tree.flatten(path, out)
			continue
		}
		*out = append(*out, FlatField{Path: path, Node: n})
	}
}

// Nest rebuilds a nested tree from a flattened representation.
func Nest(fields []FlatField) *Tree {
	root := NewTree()
	for _, f := range fields {
		segs := strings.Split(f.Path, ".")
		cur := root
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur.Get(seg)
			if !ok || next.Kind != KindTree {
				next = &Node{Kind: KindTree, Tree: NewTree()}
				cur.Set(seg, next)
			}
			cur = next.Tree
		}
		cur.Set(segs[len(segs)-1], f.Node)
	}
	return root
}

// UnmarshalJSON decodes a tree from a JSON object, preserving key order.
func (t *Tree) UnmarshalJSON(b []byte) error {
	pairs, err := objectPairs(b)
	if err != nil {
		return err
	}
	t.keys = t.keys[:0]
	t.nodes = make(map[string]*Node, len(pairs))
	for _, p := range pairs {
		n := &Node{}
		if err := n.UnmarshalJSON(p.raw); err != nil {
			return fmt.Errorf("field %q: %w", p.key, err)
		}
		t.Set(p.key, n)
	}
	return nil
}

// UnmarshalJSON decodes one tree value. The variant is decided by shape:
// a string is a bare tag, an array wraps its first element, and an object
// is classified as a virtual, a declared sub-schema, a field spec, or an
// inline nested tree, in that order.
func (n *Node) UnmarshalJSON(b []byte) error {
	s := bytes.TrimSpace(b)
	if len(s) == 0 {
		return fmt.Errorf("empty tree value")
	}
	switch s[0] {
	case '"':
		var tag string
		if err := json.Unmarshal(s, &tag); err != nil {
			return err
		}
		n.Kind = KindTag
		n.RawTag = tag
		n.Tag = field.Parse(tag)
		return nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(s, &elems); err != nil {
			return err
		}
		n.Kind = KindArray
		if len(elems) == 0 {
			// An empty sequence declares an array of unconstrained values.
			n.Elem = &Node{Kind: KindTag, Tag: field.TypeMixed, RawTag: "Mixed"}
			return nil
		}
		elem := &Node{}
		if err := elem.UnmarshalJSON(elems[0]); err != nil {
			return err
		}
		n.Elem = elem
		return nil
	case '{':
		return n.unmarshalObject(s)
	default:
		// Numbers, booleans and nulls have no meaning as tree values;
		// degrade to the nested-object sentinel rather than fail.
		n.Kind = KindTag
		n.Tag = field.TypeObject
		return nil
	}
}

func (n *Node) unmarshalObject(b []byte) error {
	pairs, err := objectPairs(b)
	if err != nil {
		return err
	}
	byKey := make(map[string]json.RawMessage, len(pairs))
	for _, p := range pairs {
		byKey[p.key] = p.raw
	}
	switch {
	case byKey["path"] != nil && byKey["getters"] != nil && byKey["setters"] != nil:
		var name string
		if err := json.Unmarshal(byKey["path"], &name); err != nil {
			return fmt.Errorf("virtual path: %w", err)
		}
		n.Kind = KindVirtual
		n.Virtual = &Virtual{Name: name}
	case byKey["schema"] != nil && byKey["type"] == nil:
		tree := NewTree()
		if err := tree.UnmarshalJSON(byKey["schema"]); err != nil {
			return fmt.Errorf("sub-schema: %w", err)
		}
		n.Kind = KindSchema
		n.Schema = &SubSchema{Tree: tree}
	case byKey["type"] != nil:
		spec := &FieldSpec{Type: &Node{}}
		if err := spec.Type.UnmarshalJSON(byKey["type"]); err != nil {
			return err
		}
		if raw := byKey["enum"]; raw != nil {
			// Non-string enum members are ignored; only string enums
			// produce literal unions.
			_ = json.Unmarshal(raw, &spec.Enum)
		}
		if raw := byKey["ref"]; raw != nil {
			_ = json.Unmarshal(raw, &spec.Ref)
		}
		if raw := byKey["required"]; raw != nil {
			_ = json.Unmarshal(raw, &spec.Required)
		}
		if raw := byKey["of"]; raw != nil {
			of := &Node{}
			if err := of.UnmarshalJSON(raw); err != nil {
				return fmt.Errorf("map element: %w", err)
			}
			spec.Of = of
		}
		spec.Default = byKey["default"]
		n.Kind = KindSpec
		n.Spec = spec
	default:
		tree := NewTree()
		if err := tree.UnmarshalJSON(b); err != nil {
			return err
		}
		n.Kind = KindTree
		n.Tree = tree
	}
	return nil
}

type pair struct {
	key string
	raw json.RawMessage
}

// objectPairs decodes a JSON object into key/value pairs, preserving order.
func objectPairs(b []byte) ([]pair, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var pairs []pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		pairs = append(pairs, pair{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// FromJSON decodes a single schema description.
func FromJSON(b []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, fmt.Errorf("schema description is missing a name")
	}
	if s.Tree == nil {
		s.Tree = NewTree()
	}
	return s, nil
}

// File loads one schema description from disk.
func File(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := FromJSON(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Files loads multiple schema descriptions concurrently. The result order
// matches the input order: entity discovery order is an observable contract
// of the generated output.
func Files(ctx context.Context, paths []string) ([]*Schema, error) {
	schemas := make([]*Schema, len(paths))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			s, err := File(path)
			if err != nil {
				return err
			}
			schemas[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return schemas, nil
}
