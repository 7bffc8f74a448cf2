package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongotype/mongotype/compiler/load"
)

func TestTypeNames(t *testing.T) {
	typ := testType(t, `{"name": "User", "tree": {"name": "String"}}`)
	assert.Equal(t, "User", typ.LeanName())
	assert.Equal(t, "UserObject", typ.ObjectName())
	assert.Equal(t, "UserDocument", typ.DocumentName())
	assert.Equal(t, "UserQueries", typ.QueriesName())
	assert.Equal(t, "UserMethods", typ.MethodsName())
	assert.Equal(t, "UserStatics", typ.StaticsName())
	assert.Equal(t, "UserModel", typ.ModelName())
	assert.Equal(t, "UserSchema", typ.SchemaName())
}

func TestTypeCollection(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"User", "users"},
		{"Category", "categories"},
		{"Person", "people"},
		{"Status", "statuses"},
	}
	cfg, err := NewConfig(WithTarget("out.ts"))
	require.NoError(t, err)
	for _, tt := range tests {
		typ, err := NewType(cfg, &load.Schema{Name: tt.name, Tree: load.NewTree()})
		require.NoError(t, err)
		assert.Equal(t, tt.want, typ.Collection(), "entity %s", tt.name)
	}
}

func TestValidEntityName(t *testing.T) {
	for _, name := range []string{"User", "user", "_Internal", "$Model", "User2"} {
		assert.NoError(t, ValidEntityName(name), "name %q", name)
	}
	for _, name := range []string{"", "2User", "User-Profile", "a/b", `a\b`, "User Name"} {
		assert.Error(t, ValidEntityName(name), "name %q", name)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithTarget("types/mongoose.gen.ts"),
		WithHeader("// generated for the api package"),
		WithImports("import a;", "import b;"),
		WithAugment(true),
	)
	require.NoError(t, err)
	assert.Equal(t, "types/mongoose.gen.ts", cfg.Target)
	assert.Equal(t, "// generated for the api package", cfg.Header)
	assert.Equal(t, []string{"import a;", "import b;"}, cfg.Imports)
	assert.True(t, cfg.Augment)

	_, err = NewConfig(WithTarget(""))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
