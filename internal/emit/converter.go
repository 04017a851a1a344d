package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"mavgen/internal/core"
	"mavgen/internal/types"
)

const converterHeaderTmpl = `// Generated by mavgen. Do not edit.

#pragma once

#include <cstdint>
#include <optional>

#include <mavlink.h>

#include <mavlink_bridge.pb.h>

namespace mav2grpc {

// Bidirectional mapping between the generic MAVLink wire representation
// and the generated protobuf message types.
class MessageConverter {
public:
  // Decode a received wire message into the proto envelope. Returns
  // std::nullopt for unknown message ids.
  static std::optional<mavlink::MavlinkMessage> to_proto(const mavlink_message_t& msg);

  // Encode a proto envelope back into a wire message. Returns
  // std::nullopt when the envelope carries no known message.
  static std::optional<mavlink_message_t> from_proto(
      const mavlink::MavlinkMessage& proto, uint8_t system_id, uint8_t component_id);
};

}  // namespace mav2grpc
`

const converterSourceTmpl = `// Generated by mavgen. Do not edit.

#include "MessageConverter.h"

#include <algorithm>
#include <cstring>

namespace mav2grpc {

std::optional<mavlink::MavlinkMessage> MessageConverter::to_proto(const mavlink_message_t& msg) {
  mavlink::MavlinkMessage out;
  out.set_system_id(msg.sysid);
  out.set_component_id(msg.compid);
  out.set_message_id(msg.msgid);
  switch (msg.msgid) {
{{- range .Messages}}
    case {{.ID}}: {  // {{.Name}}
      mavlink_{{.LowerName}}_t decoded;
      mavlink_msg_{{.LowerName}}_decode(&msg, &decoded);
      auto* typed = out.mutable_{{.Accessor}}();
{{- range .Decode}}
      {{.}}
{{- end}}
      break;
    }
{{- end}}
    default:
      return std::nullopt;
  }
  return out;
}

std::optional<mavlink_message_t> MessageConverter::from_proto(
    const mavlink::MavlinkMessage& proto, uint8_t system_id, uint8_t component_id) {
  mavlink_message_t msg{};
  switch (proto.message_case()) {
{{- range .Messages}}
    case mavlink::MavlinkMessage::{{.CaseConst}}: {
      const auto& typed = proto.{{.Accessor}}();
      mavlink_{{.LowerName}}_t packed{};
{{- range .Encode}}
      {{.}}
{{- end}}
      mavlink_msg_{{.LowerName}}_encode(system_id, component_id, &msg, &packed);
      break;
    }
{{- end}}
    default:
      return std::nullopt;
  }
  return msg;
}

}  // namespace mav2grpc
`

// converterMessage is the enriched per-message view the converter
// templates render: identity plus precomputed decode/encode statements.
type converterMessage struct {
	ID        int
	Name      string
	LowerName string
	Accessor  string
	CaseConst string
	Decode    []string
	Encode    []string
}

type converterData struct {
	Messages []converterMessage
}

// RenderConverterHeader renders the converter declaration unit.
func RenderConverterHeader(ctx *Context) (string, error) {
	return render("converter.h", converterHeaderTmpl, ctx.funcs(), converterData{})
}

// RenderConverterSource renders the converter implementation: one switch
// case per message id across every supplied dialect, sorted by id.
// Cross-dialect id collisions are kept (each produces its own entry) but
// flagged, since only one converter entry per id can win at link time.
func RenderConverterSource(ctx *Context) (string, error) {
	data := converterData{Messages: ctx.converterMessages()}
	return render("converter.cc", converterSourceTmpl, ctx.funcs(), data)
}

func (c *Context) converterMessages() []converterMessage {
	type owned struct {
		dialect string
		msg     types.Message
	}
	var flat []owned
	for _, name := range c.DialectOrder() {
		dialect := c.Dialects[name]
		for _, msg := range dialect.OrderedMessages() {
			if c.SkipWIP && msg.WIP {
				continue
			}
			flat = append(flat, owned{dialect: name, msg: msg})
		}
	}
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].msg.ID != flat[j].msg.ID {
			return flat[i].msg.ID < flat[j].msg.ID
		}
		return flat[i].dialect < flat[j].dialect
	})

	seen := map[int]string{}
	messages := make([]converterMessage, 0, len(flat))
	for _, entry := range flat {
		if prev, dup := seen[entry.msg.ID]; dup {
			log.Warn().
				Int("id", entry.msg.ID).
				Str("dialect", entry.dialect).
				Str("previous", prev).
				Msg("message id collides across dialects, only one converter entry can win")
		} else {
			seen[entry.msg.ID] = entry.dialect
		}
		messages = append(messages, c.converterMessage(entry.dialect, entry.msg))
	}
	return messages
}

func (c *Context) converterMessage(dialectName string, msg types.Message) converterMessage {
	accessor := dialectName + "_" + core.SanitizeFieldName(msg.Name)
	out := converterMessage{
		ID:        msg.ID,
		Name:      msg.Name,
		LowerName: strings.ToLower(msg.Name),
		Accessor:  accessor,
		CaseConst: "k" + core.SanitizeMessageName(accessor),
	}
	for _, field := range msg.Fields {
		decode, encode := c.fieldConversion(dialectName, field)
		out.Decode = append(out.Decode, decode)
		out.Encode = append(out.Encode, encode)
	}
	return out
}

// fieldConversion builds the decode and encode statement for one field:
// decode assigns the wire struct member into the typed proto field,
// encode performs the inverse.
func (c *Context) fieldConversion(dialectName string, field types.MessageField) (string, string) {
	name := field.Name
	fn := core.SanitizeFieldName(field.Name)
	enumType := c.cppEnumType(dialectName, field)
	info := core.ResolveFieldType(field, enumType, c.Policy)

	switch {
	case info.IsArray && field.BaseType() == "char":
		return fmt.Sprintf("typed->set_%s(std::string(decoded.%s, strnlen(decoded.%s, %d)));", fn, name, name, info.ArrayLength),
			fmt.Sprintf("std::strncpy(packed.%s, typed.%s().c_str(), sizeof(packed.%s));", name, fn, name)

	case info.IsArray && (field.BaseType() == "uint8_t" || (!info.IsEnum && c.Policy == types.ArrayPolicyBytes)):
		// Opaque byte sequences are raw copies in both directions.
		return fmt.Sprintf("typed->set_%s(decoded.%s, sizeof(decoded.%s));", fn, name, name),
			fmt.Sprintf("std::memcpy(packed.%s, typed.%s().data(), std::min(typed.%s().size(), sizeof(packed.%s)));", name, fn, fn, name)

	case info.IsArray && info.IsEnum:
		return fmt.Sprintf("for (size_t i = 0; i < %d; ++i) typed->add_%s(static_cast<%s>(decoded.%s[i]));", info.ArrayLength, fn, enumType, name),
			fmt.Sprintf("for (int i = 0; i < typed.%s_size() && i < %d; ++i) packed.%s[i] = static_cast<%s>(typed.%s(i));", fn, info.ArrayLength, name, info.CType, fn)

	case info.IsArray:
		return fmt.Sprintf("for (size_t i = 0; i < %d; ++i) typed->add_%s(decoded.%s[i]);", info.ArrayLength, fn, name),
			fmt.Sprintf("for (int i = 0; i < typed.%s_size() && i < %d; ++i) packed.%s[i] = static_cast<%s>(typed.%s(i));", fn, info.ArrayLength, name, info.CType, fn)

	case info.IsEnum:
		return fmt.Sprintf("typed->set_%s(static_cast<%s>(decoded.%s));", fn, enumType, name),
			fmt.Sprintf("packed.%s = static_cast<%s>(typed.%s());", name, info.CType, fn)

	case field.Type == "char":
		return fmt.Sprintf("typed->set_%s(std::string(1, decoded.%s));", fn, name),
			fmt.Sprintf("packed.%s = typed.%s().empty() ? 0 : typed.%s()[0];", name, fn, fn)

	case info.ProtoType == "bytes":
		// Unrecognized token: copy the raw bytes of the member.
		return fmt.Sprintf("typed->set_%s(reinterpret_cast<const char*>(&decoded.%s), sizeof(decoded.%s));", fn, name, name),
			fmt.Sprintf("std::memcpy(&packed.%s, typed.%s().data(), std::min(typed.%s().size(), sizeof(packed.%s)));", name, fn, fn, name)

	default:
		return fmt.Sprintf("typed->set_%s(decoded.%s);", fn, name),
			fmt.Sprintf("packed.%s = static_cast<%s>(typed.%s());", name, info.CType, fn)
	}
}

// cppEnumType returns the fully qualified C++ proto enum type for a
// field's enum reference, or empty when the field references none. An
// unresolved reference falls back to the local dialect's namespace.
func (c *Context) cppEnumType(dialectName string, field types.MessageField) string {
	if field.Enum == nil {
		return ""
	}
	owner, ok := c.Index.Owner(*field.Enum)
	if !ok {
		log.Warn().
			Str("enum", *field.Enum).
			Str("dialect", dialectName).
			Msg("unresolved enum reference in converter, assuming local dialect")
		owner = dialectName
	}
	return "mavlink::" + owner + "::" + core.SanitizeEnumName(*field.Enum)
}
