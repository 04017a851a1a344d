// Package emit renders resolved dialect IR into textual artifacts:
// per-dialect proto schemas, the bridge service definition, and the
// optional C++ message converter. Rendering is a pure function of the
// context; writing the result is the caller's concern.
package emit

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"mavgen/internal/core"
	"mavgen/internal/types"
)

// Context is the explicit rendering context handed to each template:
// the resolved IR, the cross-dialect enum ownership index, and the
// emission options. Templates see nothing else, so output never depends
// on registration order or hidden globals.
type Context struct {
	Dialect  *types.Dialect
	Dialects map[string]*types.Dialect

	// Imports is the dialect's transitive include closure, used for
	// document references when dialects are emitted unmerged.
	Imports []string

	Index   core.EnumIndex
	Policy  types.ArrayPolicy
	SkipWIP bool
}

// DialectOrder returns all dialect names sorted lexicographically for
// deterministic multi-dialect output.
func (c *Context) DialectOrder() []string {
	names := make([]string, 0, len(c.Dialects))
	for name := range c.Dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Messages returns the current dialect's messages in document order,
// honoring the SkipWIP option.
func (c *Context) Messages() []types.Message {
	all := c.Dialect.OrderedMessages()
	if !c.SkipWIP {
		return all
	}
	kept := all[:0:0]
	for _, msg := range all {
		if !msg.WIP {
			kept = append(kept, msg)
		}
	}
	return kept
}

// protoFieldType resolves one field to its proto type: explicit enum
// references win (qualified through the ownership index), everything
// else goes through the type mapping table.
func (c *Context) protoFieldType(field types.MessageField) string {
	if field.Enum != nil {
		var ref string
		if _, local := c.Dialect.EnumByName(*field.Enum); local {
			// A flattened dialect carries its includes' enums, so a
			// local declaration wins over the cross-dialect index.
			ref = core.SanitizeEnumName(*field.Enum)
		} else {
			ref = c.Index.ResolveEnumRef(*field.Enum, c.Dialect.Name)
		}
		if field.IsArray() {
			return "repeated " + ref
		}
		return ref
	}
	return core.ToProtoType(field.Type, c.Policy)
}

func (c *Context) funcs() template.FuncMap {
	return template.FuncMap{
		"enumName":     core.SanitizeEnumName,
		"messageName":  core.SanitizeMessageName,
		"fieldName":    core.SanitizeFieldName,
		"comment":      core.FormatComment,
		"protoType":    c.protoFieldType,
		"enumBlock":    c.enumBlock,
		"messageBlock": c.messageBlock,
	}
}

func render(name string, text string, funcs template.FuncMap, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}
	return buf.String(), nil
}
