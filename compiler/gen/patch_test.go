package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchFunctionCollections(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String"},
		"methods": [
			{"name": "greet", "signature": "() => string"},
			{"name": "mystery"}
		],
		"statics": [{"name": "countActive", "signature": "() => Promise<number>"}],
		"query": [{"name": "active", "signature": "() => this"}]
	}`)

	src := typ.Compile(ShapeLean) + typ.Compile(ShapeDocument)
	out, err := Patch(src, []*Type{typ})
	require.NoError(t, err)

	assert.Contains(t, out, "  greet: (this: UserDocument) => string;\n")
	// Members with no declared signature keep the generic default.
	assert.Contains(t, out, "  mystery: "+genericSignature+";\n")
	assert.Contains(t, out, "  countActive: (this: UserModel) => Promise<number>;\n")
	q := "mongoose.Query<any, UserDocument, UserQueries> & UserQueries"
	assert.Contains(t, out, "  active: (this: "+q+") => "+q+";\n")
}

func TestPatchVirtuals(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {
			"first": "String",
			"fullName": {"path": "fullName", "getters": [], "setters": []}
		},
		"virtuals": [{"name": "fullName", "type": "string"}],
		"options": {"toJSON": {"virtuals": true}}
	}`)

	src := typ.Compile(ShapeLean) + typ.Compile(ShapeDocument)
	out, err := Patch(src, []*Type{typ})
	require.NoError(t, err)
	assert.NotContains(t, out, "  fullName?: any;\n")
	assert.Contains(t, out, "  fullName?: string;\n")
}

func TestPatchIsIdempotent(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String"},
		"methods": [{"name": "greet", "signature": "(x: number) => string"}],
		"virtuals": [{"name": "fullName", "type": "string"}]
	}`)

	src := typ.Compile(ShapeLean) + typ.Compile(ShapeDocument)
	once, err := Patch(src, []*Type{typ})
	require.NoError(t, err)
	twice, err := Patch(once, []*Type{typ})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPatchMissingDecl(t *testing.T) {
	typ := testType(t, `{
		"name": "User",
		"tree": {"name": "String"},
		"methods": [{"name": "greet", "signature": "() => string"}]
	}`)
	_, err := Patch("// nothing here\n", []*Type{typ})
	require.Error(t, err)
	assert.True(t, IsPatchError(err))
	assert.ErrorIs(t, err, ErrPatchFailed)
}
