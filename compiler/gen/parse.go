package gen

import "strings"

// parsedFile is a line-oriented view of one generated typings file. Parsing
// keeps every source line verbatim, so rendering a file that was parsed and
// never modified reproduces the input byte for byte.
type parsedFile struct {
	lines []string
	decls map[string]*decl
}

// decl spans one exported declaration block: start is the header line
// carrying the declaration name, end is the line closing the block. A
// single-line declaration has start == end.
type decl struct {
	name  string
	start int
	end   int
}

// member is one top-level member line of a declaration block. Members
// nested inside inline object literals are not members of the block.
type member struct {
	line     int
	key      string
	optional bool
	expr     string
	indent   string
}

// parseFile indexes the exported declarations of a generated file. Lines
// that belong to no declaration, including comment blocks and the module
// augmentation wrapper, pass through untouched.
func parseFile(src string) *parsedFile {
	f := &parsedFile{
		lines: strings.Split(src, "\n"),
		decls: make(map[string]*decl),
	}
	for i := 0; i < len(f.lines); i++ {
		name, open := declHeader(f.lines[i])
		if name == "" {
			continue
		}
		d := &decl{name: name, start: i, end: i}
		if open {
			d.end = closingLine(f.lines, i)
			i = d.end
		}
		f.decls[name] = d
	}
	return f
}

// declHeader recognizes the header line of an exported declaration and
// reports whether it opens a multi-line block.
func declHeader(line string) (name string, open bool) {
	trimmed := strings.TrimLeft(line, " ")
	rest, ok := strings.CutPrefix(trimmed, "export type ")
	if !ok {
		rest, ok = strings.CutPrefix(trimmed, "export interface ")
	}
	if !ok {
		return "", false
	}
	end := strings.IndexAny(rest, " =<{")
	if end < 0 {
		return "", false
	}
	name = rest[:end]
	open = strings.HasSuffix(trimmed, "{") && !strings.HasSuffix(trimmed, "{}")
	return name, open
}

// closingLine scans forward from an opening header line to the line closing
// its block, balancing braces across nested inline object literals.
func closingLine(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if depth == 0 && i > start {
			return i
		}
		if depth == 0 && i == start {
			// Header both opened and closed on one line.
			if strings.Contains(lines[i], "{") {
				return i
			}
		}
	}
	return len(lines) - 1
}

// members returns the top-level member lines of a block declaration,
// skipping lines nested inside inline object literals.
func (f *parsedFile) members(d *decl) []member {
	var out []member
	depth := 0
	for i := d.start; i <= d.end; i++ {
		line := f.lines[i]
		opens := strings.Count(line, "{")
		closes := strings.Count(line, "}")
		if i > d.start && depth == 1 {
			if m, ok := parseMember(line, i); ok && opens == closes {
				out = append(out, m)
			}
		}
		depth += opens - closes
	}
	return out
}

// parseMember splits one simple member line of the form
// "  key: expr;" or "  key?: expr;".
func parseMember(line string, idx int) (member, bool) {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]
	if !strings.HasSuffix(body, ";") {
		return member{}, false
	}
	colon := strings.Index(body, ": ")
	if colon <= 0 {
		return member{}, false
	}
	key := body[:colon]
	optional := strings.HasSuffix(key, "?")
	if optional {
		key = key[:len(key)-1]
	}
	if !validMemberKey(key) {
		return member{}, false
	}
	return member{
		line:     idx,
		key:      key,
		optional: optional,
		expr:     strings.TrimSuffix(body[colon+2:], ";"),
		indent:   indent,
	}, true
}

func validMemberKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// setExpr rewrites the type expression of one member line in place.
func (f *parsedFile) setExpr(m member, expr string) {
	opt := ""
	if m.optional {
		opt = "?"
	}
	f.lines[m.line] = m.indent + m.key + opt + ": " + expr + ";"
}

// String renders the file back to source text.
func (f *parsedFile) String() string {
	return strings.Join(f.lines, "\n")
}
