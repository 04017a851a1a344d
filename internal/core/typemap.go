// Package core holds the pure transformation logic of the schema
// compiler: type mapping, name sanitization, include resolution, and
// dialect validation. Nothing in this package touches the filesystem.
package core

import (
	"strings"

	"mavgen/internal/types"
)

// protoScalar maps a MAVLink base type token to its proto3 scalar type.
// 8/16/32-bit integers widen to the 32-bit proto type; downstream
// consumers rely on this exact widening.
var protoScalar = map[string]string{
	"uint8_t":  "uint32",
	"uint16_t": "uint32",
	"uint32_t": "uint32",
	"uint64_t": "uint64",

	"int8_t":  "int32",
	"int16_t": "int32",
	"int32_t": "int32",
	"int64_t": "int64",

	"float":  "float",
	"double": "double",

	"char": "string",

	// Special MAVLink alias used by HEARTBEAT.mavlink_version.
	"uint8_t_mavlink_version": "uint32",
}

// fallbackType is emitted for unrecognized tokens so that one odd field
// never aborts generation of an entire dialect.
const fallbackType = "bytes"

// ToProtoType maps a raw MAVLink field type token (array-qualified or
// not) to a proto3 type under the given array policy. It never fails:
// unknown tokens degrade to bytes.
func ToProtoType(mavlinkType string, policy types.ArrayPolicy) string {
	field := types.MessageField{Type: mavlinkType}
	if field.IsArray() {
		base := field.BaseType()
		switch {
		case base == "char":
			// Fixed-length char arrays collapse to string; the declared
			// length is intentionally not preserved.
			return "string"
		case base == "uint8_t":
			return "bytes"
		case policy == types.ArrayPolicyBytes:
			return "bytes"
		}
		scalar, ok := protoScalar[base]
		if !ok {
			return fallbackType
		}
		return "repeated " + scalar
	}
	scalar, ok := protoScalar[mavlinkType]
	if !ok {
		return fallbackType
	}
	return scalar
}

// IsEnumType reports whether a field type token looks like an enum
// reference: not array-qualified and not a known base type. Used only as
// a fallback heuristic when a field carries no explicit enum attribute.
func IsEnumType(fieldType string) bool {
	if strings.IndexByte(fieldType, '[') >= 0 {
		return false
	}
	_, known := protoScalar[fieldType]
	return !known
}

// SanitizeEnumName converts an UPPER_SNAKE_CASE enum name to PascalCase
// (MAV_TYPE -> MavType). Internal acronyms are naively lowercased
// (GPS -> Gps); downstream consumers expect this exact transform.
func SanitizeEnumName(name string) string {
	return pascalCase(name)
}

// SanitizeMessageName converts an UPPER_SNAKE_CASE message name to
// PascalCase (GLOBAL_POSITION_INT -> GlobalPositionInt).
func SanitizeMessageName(name string) string {
	return pascalCase(name)
}

// SanitizeFieldName lowercases a field name for proto snake_case
// compatibility. Already-lowercase input passes through unchanged.
func SanitizeFieldName(name string) string {
	return strings.ToLower(name)
}

func pascalCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}

// FormatComment reflows free text into a //-comment block indented by
// indent spaces, greedily wrapping on word boundaries so no line exceeds
// 80 columns including indent and marker. Empty text yields an empty
// string; callers skip emitting it.
func FormatComment(text string, indent int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	prefix := strings.Repeat(" ", indent)
	maxLine := 80 - indent - len("// ")

	var lines []string
	var current []string
	length := 0
	for _, word := range words {
		wordLen := len(word) + 1
		if len(current) > 0 && length+wordLen > maxLine {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
			length = wordLen
			continue
		}
		current = append(current, word)
		length += wordLen
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	for i, line := range lines {
		lines[i] = prefix + "// " + line
	}
	return strings.Join(lines, "\n")
}

// FieldTypeInfo is the resolved classification of one message field,
// computed once per field when emitting the native converter.
type FieldTypeInfo struct {
	ProtoType   string
	CType       string
	IsEnum      bool
	IsArray     bool
	ArrayLength int
}

// ResolveFieldType classifies a field for converter emission. enumName is
// the sanitized, possibly dialect-qualified proto enum name when the
// field references an enum; empty otherwise.
func ResolveFieldType(field types.MessageField, enumName string, policy types.ArrayPolicy) FieldTypeInfo {
	info := FieldTypeInfo{
		ProtoType: ToProtoType(field.Type, policy),
		CType:     field.BaseType(),
		IsEnum:    enumName != "",
	}
	if length, ok := field.ArrayLength(); ok {
		info.IsArray = true
		info.ArrayLength = length
	}
	if enumName != "" {
		info.ProtoType = enumName
	}
	return info
}
