package gen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser capitalizes the first letter of a segment without lowering the
// rest, so camel-cased segments keep their interior casing.
var titleCaser = cases.Title(language.Und, cases.NoLower)

// subEntityName derives the generated type name for a nested sub-entity
// from its dotted field path and its owning entity name. The owning name is
// concatenated with each path segment capitalized; a trailing plural "s" is
// stripped exactly once so array element types read as singular, except a
// double "s" ending ("address"), which is not a plural. The
// function is pure and stable: callers cache the result against the hoisted
// sub-schema so it is computed once per binding.
func subEntityName(owner, path string) string {
	name := owner
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		name += titleCaser.String(seg)
	}
	if strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") {
		name = name[:len(name)-1]
	}
	return name
}
