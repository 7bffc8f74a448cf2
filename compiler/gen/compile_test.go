package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongotype/mongotype/compiler/load"
)

func testType(t *testing.T, desc string) *Type {
	t.Helper()
	s, err := load.FromJSON([]byte(desc))
	require.NoError(t, err)
	cfg, err := NewConfig(WithTarget("mongoose.gen.ts"))
	require.NoError(t, err)
	typ, err := NewType(cfg, s)
	require.NoError(t, err)
	return typ
}

func TestCompileFlatEntity(t *testing.T) {
	typ := testType(t, `{
		"name": "Post",
		"tree": {
			"_id": "ObjectId",
			"title": {"type": "String", "required": true},
			"views": "Number",
			"published": "Boolean",
			"authorId": {"type": "ObjectId", "ref": "User"},
			"__v": "Number"
		}
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export interface Post {\n")
	assert.Contains(t, lean, "  _id: mongoose.Types.ObjectId;\n")
	assert.Contains(t, lean, "  title: string;\n")
	assert.Contains(t, lean, "  views?: number;\n")
	assert.Contains(t, lean, "  published?: boolean;\n")
	assert.Contains(t, lean, `  authorId?: User["_id"] | User;`)
	assert.NotContains(t, lean, "__v")

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "export type PostDocument = mongoose.Document<mongoose.Types.ObjectId> & PostMethods & {\n")
	assert.Contains(t, doc, `  authorId?: User["_id"] | UserDocument;`)
	assert.NotContains(t, doc, "__v")
}

func TestCompileVersionKey(t *testing.T) {
	// The version counter is omitted whatever numeric type it declares.
	typ := testType(t, `{"name": "Rev", "tree": {"__v": "Decimal128", "seq": "Number"}}`)
	lean := typ.Compile(ShapeLean)
	assert.NotContains(t, lean, "__v")
	assert.Contains(t, lean, "  seq?: number;\n")
}

func TestCompileIsDeterministic(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String", "address": {"schema": {"city": "String"}}}
	}`)
	for _, shape := range []Shape{ShapeLean, ShapeDocument} {
		assert.Equal(t, typ.Compile(shape), typ.Compile(shape), "shape %s", shape)
	}
}

func TestCompileEnum(t *testing.T) {
	typ := testType(t, `{
		"name": "Post",
		"tree": {"status": {"type": "String", "enum": ["draft", "live"]}}
	}`)
	assert.Contains(t, typ.Compile(ShapeLean), `  status?: "draft" | "live";`)
}

func TestCompileArrays(t *testing.T) {
	typ := testType(t, `{
		"name": "Post",
		"tree": {
			"tags": ["String"],
			"ratings": {"type": ["Number"]},
			"anything": [],
			"legacy": "Array"
		}
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "  tags: string[];\n")
	assert.Contains(t, lean, "  ratings: number[];\n")
	assert.Contains(t, lean, "  anything: any[];\n")
	assert.Contains(t, lean, "  legacy: any[];\n")

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "  tags: mongoose.Types.Array<string>;\n")
	assert.Contains(t, doc, "  ratings: mongoose.Types.Array<number>;\n")
}

func TestCompileValidatorWrappedArray(t *testing.T) {
	typ := testType(t, `{
		"name": "Post",
		"tree": {
			"codes": {"type": [{"type": "String", "enum": ["a", "b"]}]},
			"flags": {"type": [{"type": "String", "enum": ["b", "c"]}], "enum": ["x", "y"]},
			"editors": {"type": [{"type": "ObjectId", "ref": "User"}]}
		}
	}`)

	lean := typ.Compile(ShapeLean)
	// Unwrapping the inner element spec keeps its own enum and makes the
	// field implicitly required.
	assert.Contains(t, lean, `  codes: ("a" | "b")[];`)
	// An enum declared on the outer spec wins over the element's.
	assert.Contains(t, lean, `  flags: ("x" | "y")[];`)
	assert.Contains(t, lean, `  editors: (User["_id"] | User)[];`)

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, `  codes: mongoose.Types.Array<"a" | "b">;`)
	assert.Contains(t, doc, `  editors: mongoose.Types.Array<User["_id"] | UserDocument>;`)
}

func TestCompileArrayOfRefs(t *testing.T) {
	typ := testType(t, `{
		"name": "Post",
		"tree": {"editors": [{"type": "ObjectId", "ref": "User"}]}
	}`)
	assert.Contains(t, typ.Compile(ShapeLean), `  editors: (User["_id"] | User)[];`)
	assert.Contains(t, typ.Compile(ShapeDocument), `  editors: mongoose.Types.Array<User["_id"] | UserDocument>;`)
}

func TestCompileSubSchema(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {
			"name": "String",
			"address": {"schema": {"city": "String", "zip": "Number"}}
		}
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export interface UserAddress {\n")
	assert.Contains(t, lean, "  city?: string;\n")
	assert.Contains(t, lean, "  address?: UserAddress;\n")
	// Hoisted definitions precede the owning entity.
	assert.Less(t,
		strings.Index(lean, "export interface UserAddress"),
		strings.Index(lean, "export interface User {"),
	)

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "export type UserAddressDocument = mongoose.Types.Subdocument & {\n")
	assert.Contains(t, doc, "  address?: UserAddressDocument;\n")
}

func TestCompileDocumentArray(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {
			"friends": [{"schema": {"alias": "String"}}],
			"pets": {"type": [{"schema": {"nick": "String"}}], "default": null}
		}
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export interface UserFriend {\n")
	assert.Contains(t, lean, "  friends: UserFriend[];\n")
	// Only an explicitly disabled default makes a document array optional.
	assert.Contains(t, lean, "  pets?: UserPet[];\n")

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "export type UserFriendDocument = mongoose.Types.ArraySubdocument & {\n")
	assert.Contains(t, doc, "  friends: mongoose.Types.DocumentArray<UserFriendDocument>;\n")
	assert.Contains(t, doc, "  pets?: mongoose.Types.DocumentArray<UserPetDocument>;\n")
}

func TestCompileNestedSubSchemaName(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {
			"meta": {"author": {"schema": {"bio": "String"}}}
		}
	}`)
	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export interface UserMetaAuthor {\n")
	assert.Contains(t, lean, "    author?: UserMetaAuthor;\n")
}

func TestCompileSubSchemaInsideSpecTree(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {
			"geo": {"type": {"lat": "Number", "pin": {"schema": {"label": "String"}}}}
		}
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export interface UserGeoPin {\n")
	assert.Contains(t, lean, "  label?: string;\n")
	assert.Contains(t, lean, "    lat?: number;\n")
	assert.Contains(t, lean, "    pin?: UserGeoPin;\n")

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "export type UserGeoPinDocument = mongoose.Types.Subdocument & {\n")
	assert.Contains(t, doc, "    pin?: UserGeoPinDocument;\n")
}

func TestCompileInlineObject(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {
			"geo": {"lat": "Number", "lng": "Number"}
		}
	}`)
	lean := typ.Compile(ShapeLean)
	// Inline nested objects render in place and are never optional.
	assert.Contains(t, lean, "  geo: {\n")
	assert.Contains(t, lean, "    lat?: number;\n")
	assert.Contains(t, lean, "  };\n")
}

func TestCompileMapAndBinary(t *testing.T) {
	typ := testType(t, `{
		"name": "Doc",
		"tree": {
			"scores": {"type": "Map", "of": "Number"},
			"blob": "Buffer",
			"price": "Decimal128"
		}
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "  scores?: Record<string, number>;\n")
	assert.Contains(t, lean, "  blob?: Buffer;\n")
	assert.Contains(t, lean, "  price?: number;\n")

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "  scores?: Map<string, number>;\n")
	assert.Contains(t, doc, "  blob?: mongoose.Types.Buffer;\n")
	assert.Contains(t, doc, "  price?: mongoose.Types.Decimal128;\n")
}

func TestCompileVirtuals(t *testing.T) {
	virtual := `{"path": "fullName", "getters": [], "setters": []}`
	idVirtual := `{"path": "id", "getters": [], "setters": []}`

	t.Run("excluded from lean by default", func(t *testing.T) {
		typ := testType(t, `{"name": "User", "tree": {"name": "String", "fullName": `+virtual+`}}`)
		assert.NotContains(t, typ.Compile(ShapeLean), "fullName")
		assert.Contains(t, typ.Compile(ShapeDocument), "  fullName?: any;\n")
	})
	t.Run("included in lean when options enable it", func(t *testing.T) {
		typ := testType(t, `{
			"name": "User",
			"tree": {"name": "String", "fullName": `+virtual+`},
			"options": {"toJSON": {"virtuals": true}}
		}`)
		assert.Contains(t, typ.Compile(ShapeLean), "  fullName?: any;\n")
	})
	t.Run("identity alias always skipped", func(t *testing.T) {
		typ := testType(t, `{
			"name": "User",
			"tree": {"name": "String", "id": `+idVirtual+`},
			"options": {"toObject": {"virtuals": true}}
		}`)
		assert.NotContains(t, typ.Compile(ShapeLean), "  id?:")
		assert.NotContains(t, typ.Compile(ShapeDocument), "  id?:")
	})
}

func TestCompileMetadataKeys(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String", "$__": "String", "$isNew": "Boolean", "_doc": "String"}
	}`)
	lean := typ.Compile(ShapeLean)
	assert.NotContains(t, lean, "$__")
	assert.NotContains(t, lean, "$isNew")
	assert.NotContains(t, lean, "_doc")
}

func TestCompileAuxTypes(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String"},
		"methods": [{"name": "greet", "signature": "() => string"}],
		"statics": [{"name": "createAnon"}, {"name": "initializeTimestamps"}]
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export type UserObject = User;\n")
	assert.Contains(t, lean, "export type UserMethods = {\n")
	assert.Contains(t, lean, "  greet: "+genericSignature+";\n")
	assert.Contains(t, lean, "export type UserStatics = {\n")
	assert.Contains(t, lean, "  createAnon: "+genericSignature+";\n")
	assert.Contains(t, lean, "export interface UserModel extends mongoose.Model<UserDocument>, UserStatics {}\n")
	assert.Contains(t, lean, "export type UserSchema = mongoose.Schema;\n")
	// The timestamp-initialization hook is never part of a collection type.
	assert.NotContains(t, lean, "initializeTimestamps")
	// No query helpers declared, so no query collection is emitted.
	assert.NotContains(t, lean, "UserQueries")

	// Auxiliary types belong to the plain shape only.
	doc := typ.Compile(ShapeDocument)
	assert.NotContains(t, doc, "export type UserObject")
}

func TestCompileQueryHelpers(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String"},
		"query": [{"name": "active"}]
	}`)

	lean := typ.Compile(ShapeLean)
	assert.Contains(t, lean, "export type UserQueries = {\n")
	assert.Contains(t, lean, "  active: "+genericSignature+";\n")
	assert.Contains(t, lean, "declare module \"mongoose\" {\n")
	assert.Contains(t, lean, "interface Query<ResultType, DocType, THelpers = {}> extends UserQueries {}\n")
	assert.Contains(t, lean, "export interface UserModel extends mongoose.Model<UserDocument, UserQueries>, UserStatics {}\n")

	doc := typ.Compile(ShapeDocument)
	assert.Contains(t, doc, "export type UserDocument = mongoose.Document<mongoose.Types.ObjectId, UserQueries> & UserMethods & {\n")
}
