package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parseFixture = `/* tslint:disable */

import mongoose from "mongoose";

/**
 * Lean version of UserDocument
 */
export interface User {
  name?: string;
  geo: {
    lat?: number;
    lng?: number;
  };
  _id: mongoose.Types.ObjectId;
}

export type UserObject = User;

export type UserMethods = {
  greet: (...args: any[]) => any;
};

export interface UserModel extends mongoose.Model<UserDocument>, UserStatics {}
`

func TestParseFileRoundTrip(t *testing.T) {
	f := parseFile(parseFixture)
	assert.Equal(t, parseFixture, f.String())
}

func TestParseFileDecls(t *testing.T) {
	f := parseFile(parseFixture)
	for _, name := range []string{"User", "UserObject", "UserMethods", "UserModel"} {
		assert.Contains(t, f.decls, name)
	}

	user := f.decls["User"]
	ms := f.members(user)
	require.Len(t, ms, 2)
	assert.Equal(t, "name", ms[0].key)
	assert.True(t, ms[0].optional)
	assert.Equal(t, "string", ms[0].expr)
	// Members of the inline object literal belong to no declaration.
	assert.Equal(t, "_id", ms[1].key)
	assert.False(t, ms[1].optional)
	assert.Equal(t, "mongoose.Types.ObjectId", ms[1].expr)
}

func TestParseFileSingleLineDecl(t *testing.T) {
	f := parseFile(parseFixture)
	alias := f.decls["UserObject"]
	require.NotNil(t, alias)
	assert.Equal(t, alias.start, alias.end)

	model := f.decls["UserModel"]
	require.NotNil(t, model)
	assert.Equal(t, model.start, model.end)
}

func TestSetExpr(t *testing.T) {
	f := parseFile(parseFixture)
	methods := f.decls["UserMethods"]
	ms := f.members(methods)
	require.Len(t, ms, 1)
	f.setExpr(ms[0], "(this: UserDocument) => string")
	assert.Contains(t, f.String(), "  greet: (this: UserDocument) => string;\n")
	assert.NotContains(t, f.String(), "  greet: (...args: any[]) => any;\n")
}
