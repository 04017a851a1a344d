package emit

import (
	"fmt"
	"strings"

	"mavgen/internal/core"
	"mavgen/internal/types"
)

const dialectProtoTmpl = `// Generated by mavgen from {{.Dialect.Name}}.xml. Do not edit.

syntax = "proto3";

package mavlink.{{.Dialect.Name}};
{{- range .Imports}}
import "mavlink/{{.}}.proto";
{{- end}}
{{- range .Dialect.OrderedEnums}}

{{enumBlock .}}
{{- end}}
{{- range .Messages}}

{{messageBlock .}}
{{- end}}
`

// RenderDialectProto renders one dialect's schema definition: its enums
// and messages in document order, preceded by imports for its transitive
// includes when the dialect was not flattened.
func RenderDialectProto(ctx *Context) (string, error) {
	return render("dialect.proto", dialectProtoTmpl, ctx.funcs(), ctx)
}

func (c *Context) enumBlock(enum types.Enum) string {
	var b strings.Builder
	if enum.Description != nil {
		b.WriteString(core.FormatComment(*enum.Description, 0))
		b.WriteByte('\n')
	}
	if enum.IsBitmask {
		b.WriteString("// Bitmask: entries combine bitwise.\n")
	}
	if enum.Deprecated != nil {
		b.WriteString(deprecationComment(enum.Deprecated, 0, "Deprecated"))
		b.WriteByte('\n')
	}
	b.WriteString("enum ")
	b.WriteString(core.SanitizeEnumName(enum.Name))
	b.WriteString(" {\n")
	synthesizeZero := len(enum.Entries) == 0 || enum.Entries[0].Value != 0
	if hasDuplicateValues(enum) || (synthesizeZero && hasZeroEntry(enum)) {
		b.WriteString("  option allow_alias = true;\n")
	}
	if synthesizeZero {
		// proto3 requires the first entry to be zero; MAVLink enums are
		// not obliged to declare one, let alone declare it first.
		fmt.Fprintf(&b, "  %s_UNSPECIFIED = 0;\n", enum.Name)
	}
	for _, entry := range enum.Entries {
		if entry.Description != nil {
			b.WriteString(core.FormatComment(*entry.Description, 2))
			b.WriteByte('\n')
		}
		if entry.Deprecated != nil {
			b.WriteString(deprecationComment(entry.Deprecated, 2, "Deprecated"))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s = %d;\n", entry.Name, entry.Value)
	}
	b.WriteString("}")
	return b.String()
}

func (c *Context) messageBlock(msg types.Message) string {
	var b strings.Builder
	if msg.Description != nil {
		b.WriteString(core.FormatComment(*msg.Description, 0))
		b.WriteByte('\n')
	}
	if msg.WIP {
		b.WriteString("// Work in progress: the definition may change.\n")
	}
	if msg.Deprecated != nil {
		b.WriteString(deprecationComment(msg.Deprecated, 0, "Deprecated"))
		b.WriteByte('\n')
	}
	if msg.Superseded != nil {
		b.WriteString(deprecationComment(msg.Superseded, 0, "Superseded"))
		b.WriteByte('\n')
	}
	b.WriteString("message ")
	b.WriteString(core.SanitizeMessageName(msg.Name))
	b.WriteString(" {\n")
	for i, field := range msg.Fields {
		if text := fieldComment(field); text != "" {
			b.WriteString(core.FormatComment(text, 2))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s %s = %d;\n", c.protoFieldType(field), core.SanitizeFieldName(field.Name), i+1)
	}
	b.WriteString("}")
	return b.String()
}

func fieldComment(field types.MessageField) string {
	var parts []string
	if field.Description != nil {
		parts = append(parts, *field.Description)
	}
	if field.Units != nil {
		parts = append(parts, "["+*field.Units+"]")
	}
	if field.Invalid != nil {
		parts = append(parts, "Invalid: "+*field.Invalid+".")
	}
	return strings.Join(parts, " ")
}

func deprecationComment(dep *types.Deprecation, indent int, kind string) string {
	text := kind
	if dep.Since != "" {
		text += " since " + dep.Since
	}
	if dep.ReplacedBy != "" {
		text += "; replaced by " + dep.ReplacedBy
	}
	return core.FormatComment(text+".", indent)
}

func hasDuplicateValues(enum types.Enum) bool {
	seen := map[int]struct{}{}
	for _, entry := range enum.Entries {
		if _, dup := seen[entry.Value]; dup {
			return true
		}
		seen[entry.Value] = struct{}{}
	}
	return false
}

func hasZeroEntry(enum types.Enum) bool {
	for _, entry := range enum.Entries {
		if entry.Value == 0 {
			return true
		}
	}
	return false
}
