package gen

import "strings"

// commentBlock renders a fixed descriptive doc-comment block.
func commentBlock(lines ...string) string {
	var b strings.Builder
	b.WriteString("/**\n")
	for _, l := range lines {
		if l == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(" */\n")
	return b.String()
}

func commentLean(t *Type) string {
	return commentBlock(
		"Lean version of "+t.DocumentName(),
		"",
		"This has all Mongoose getters & functions removed. This type will be returned from `"+t.DocumentName()+".toObject()`. To avoid conflicts with model names, use the type alias `"+t.ObjectName()+"`.",
		"```",
		"const "+lowerFirst(t.Name)+"Object = "+lowerFirst(t.Name)+".toObject();",
		"```",
	)
}

func commentLeanSub(name string) string {
	return commentBlock(
		"Lean version of " + name + "Document",
		"",
		"This has all Mongoose getters & functions removed. This type will be returned from `" + name + "Document.toObject()`.",
	)
}

func commentDocument(t *Type) string {
	return commentBlock(
		"Mongoose Document type",
		"",
		"Documents are stored in the \""+t.Collection()+"\" collection.",
		"",
		"Pass this type to the Mongoose Model constructor:",
		"```",
		"const "+t.Name+" = mongoose.model<"+t.DocumentName()+", "+t.ModelName()+">(\""+t.Name+"\", "+t.SchemaName()+");",
		"```",
	)
}

func commentSubdocument(name string, array bool) string {
	kind := "Mongoose Embedded Document type"
	detail := "Type of `" + name + "Document`"
	if array {
		kind = "Mongoose Document Array type"
		detail = "Element of the parent's document array, accessed as `" + name + "Document`"
	}
	return commentBlock(
		kind,
		"",
		detail+". Subdocument fields keep their Mongoose getters.",
	)
}

// auxTypes emits the per-entity auxiliary types, once per top-level plain
// shape invocation: the object-shape alias, the query-helper collection and
// its generic-query augmentation (only when query helpers exist), the
// instance- and static-behavior collections, the aggregate model interface,
// and the schema marker alias. Each unit carries its fixed descriptive
// comment block.
func (t *Type) auxTypes() string {
	var b strings.Builder

	b.WriteString(commentBlock(
		"Lean version of "+t.DocumentName()+" (type alias of `"+t.LeanName()+"`)",
		"",
		"Use this type alias to avoid conflicts with model names:",
		"```",
		"import { "+t.ObjectName()+" } from \"../interfaces/mongoose.gen.ts\"",
		"```",
	))
	b.WriteString("export type " + t.ObjectName() + " = " + t.LeanName() + ";\n\n")

	if t.HasQueries() {
		b.WriteString(commentBlock(
			"Mongoose Query type",
			"",
			"This type is returned from query functions. For most use cases, you should not need to use this type explicitly.",
		))
		b.WriteString("export type " + t.QueriesName() + " = {\n")
		for _, fn := range t.Queries {
			if fn.Name == timestampHook {
				continue
			}
			b.WriteString("  " + fn.Name + ": " + genericSignature + ";\n")
		}
		b.WriteString("};\n\n")
		b.WriteString(t.queryAugmentation())
	}

	b.WriteString(commentBlock(
		"Mongoose Method types",
		"",
		"Use type assertion to ensure "+t.Name+" methods type safety:",
		"```",
		t.SchemaName()+".methods = <"+t.MethodsName()+">{ ... };",
		"```",
	))
	b.WriteString("export type " + t.MethodsName() + " = {\n")
	for _, fn := range t.Methods {
		if fn.Name == timestampHook {
			continue
		}
		b.WriteString("  " + fn.Name + ": " + genericSignature + ";\n")
	}
	b.WriteString("};\n\n")

	b.WriteString(commentBlock(
		"Mongoose Static types",
		"",
		"Use type assertion to ensure "+t.Name+" statics type safety:",
		"```",
		t.SchemaName()+".statics = <"+t.StaticsName()+">{ ... };",
		"```",
	))
	b.WriteString("export type " + t.StaticsName() + " = {\n")
	for _, fn := range t.Statics {
		if fn.Name == timestampHook {
			continue
		}
		b.WriteString("  " + fn.Name + ": " + genericSignature + ";\n")
	}
	b.WriteString("};\n\n")

	model := "mongoose.Model<" + t.DocumentName()
	if t.HasQueries() {
		model += ", " + t.QueriesName()
	}
	model += ">"
	b.WriteString(commentBlock(
		"Mongoose Model type",
		"",
		"Pass this type to the Mongoose Model constructor:",
		"```",
		"const "+t.Name+" = mongoose.model<"+t.DocumentName()+", "+t.ModelName()+">(\""+t.Name+"\", "+t.SchemaName()+");",
		"```",
	))
	b.WriteString("export interface " + t.ModelName() + " extends " + model + ", " + t.StaticsName() + " {}\n\n")

	b.WriteString(commentBlock(
		"Mongoose Schema type",
		"",
		"Assign this type to new "+t.Name+" schema instances:",
		"```",
		"const "+t.SchemaName()+": "+t.SchemaName()+" = new mongoose.Schema({ ... });",
		"```",
	))
	b.WriteString("export type " + t.SchemaName() + " = mongoose.Schema;\n\n")

	return b.String()
}

// queryAugmentation extends the ORM's generic query interface with the
// entity's query helpers. Inside an augmentation unit the declarations
// already live in the ORM's namespace, so the wrapper is elided.
func (t *Type) queryAugmentation() string {
	ext := "interface Query<ResultType, DocType, THelpers = {}> extends " + t.QueriesName() + " {}\n"
	if t.Augment {
		return ext + "\n"
	}
	return "declare module \"mongoose\" {\n" + ext + "}\n\n"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
