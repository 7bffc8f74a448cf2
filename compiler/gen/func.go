package gen

import "strings"

// funcRole tags which function collection a member belongs to.
type funcRole uint8

const (
	roleMethod funcRole = iota
	roleStatic
	roleQuery
)

// timestampHook is the ORM's internal timestamp-initialization member. It is
// never emitted into any function-collection type.
const timestampHook = "initializeTimestamps"

// genericSignature is the member type rendered when no call signature is
// known. The patch pass upgrades it once a real signature is available.
const genericSignature = "(...args: any[]) => any"

// funcType synthesizes the member type for one function-collection member.
// The role decides the implicit receiver: instance behaviors bind the live
// object type, static behaviors bind the aggregate model type, and query
// helpers bind (and return) the generic query type of the owning document.
// sig, when non-empty, is a known call signature of the shape
// "(paramList) => returnExpr".
func (t *Type) funcType(role funcRole, sig string) string {
	params, ret, ok := splitSignature(sig)
	if !ok {
		return genericSignature
	}
	if ret == "" {
		ret = "any"
	}
	tail := ""
	if params != "" {
		tail = ", " + params
	}
	switch role {
	case roleQuery:
		q := "mongoose.Query<any, " + t.DocumentName() + ", " + t.QueriesName() + "> & " + t.QueriesName()
		return "(this: " + q + tail + ") => " + q
	case roleStatic:
		return "(this: " + t.ModelName() + tail + ") => " + ret
	default:
		return "(this: " + t.DocumentName() + tail + ") => " + ret
	}
}

// splitSignature splits a known call signature "(paramList) => returnExpr"
// into its parameter list and return expression. Parameter lists may contain
// nested parentheses (function-typed parameters, generics with defaults).
func splitSignature(sig string) (params, ret string, ok bool) {
	sig = strings.TrimSpace(sig)
	if sig == "" || sig[0] != '(' {
		return "", "", false
	}
	depth := 0
	end := -1
	for i, r := range sig {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return "", "", false
	}
	params = strings.TrimSpace(sig[1:end])
	rest := strings.TrimSpace(sig[end+1:])
	if rest != "" {
		if !strings.HasPrefix(rest, "=>") {
			return "", "", false
		}
		ret = strings.TrimSpace(strings.TrimPrefix(rest, "=>"))
	}
	return params, ret, true
}
