package emit

import (
	"sort"

	"mavgen/internal/core"
	"mavgen/internal/types"
)

const bridgeProtoTmpl = `// Generated by mavgen. Do not edit.

syntax = "proto3";

package mavlink;
{{- range .Order}}
import "mavlink/{{.}}.proto";
{{- end}}

// Envelope carrying one decoded message from any compiled dialect.
message MavlinkMessage {
  uint32 system_id = 1;
  uint32 component_id = 2;
  uint32 message_id = 3;

  oneof message {
{{- range .Union}}
    {{.Type}} {{.Field}} = {{.Number}};
{{- end}}
  }
}

// Subscription criteria for StreamMessages. Zero values match anything.
message StreamFilter {
  uint32 system_id = 1;
  uint32 component_id = 2;
  repeated uint32 message_ids = 3;
}

message SendResponse {
  bool success = 1;
  string error_message = 2;
}

service MavlinkBridge {
  rpc StreamMessages(StreamFilter) returns (stream MavlinkMessage);
  rpc SendMessage(MavlinkMessage) returns (SendResponse);
}
`

// unionEntry is one member of the MavlinkMessage oneof.
type unionEntry struct {
	Type   string
	Field  string
	Number int
}

type bridgeData struct {
	Order []string
	Union []unionEntry
}

// Oneof members start above the envelope's own fields to leave room for
// additions without renumbering.
const unionFieldBase = 10

// RenderBridgeProto renders the bridge service definition over the union
// of every message of every supplied dialect. Dialects are ordered
// lexicographically and messages by id, so the output is deterministic.
func RenderBridgeProto(ctx *Context) (string, error) {
	data := bridgeData{Order: ctx.DialectOrder()}
	number := unionFieldBase
	for _, name := range data.Order {
		dialect := ctx.Dialects[name]
		ids := append([]int(nil), dialect.MessageOrder...)
		sort.Ints(ids)
		for _, id := range ids {
			msg := dialect.Messages[id]
			if ctx.SkipWIP && msg.WIP {
				continue
			}
			data.Union = append(data.Union, unionEntry{
				Type:   name + "." + core.SanitizeMessageName(msg.Name),
				Field:  unionFieldName(name, msg),
				Number: number,
			})
			number++
		}
	}
	return render("bridge.proto", bridgeProtoTmpl, ctx.funcs(), data)
}

// unionFieldName prefixes the message name with its dialect so two
// dialects declaring the same message name cannot collide in the oneof.
func unionFieldName(dialectName string, msg types.Message) string {
	return dialectName + "_" + core.SanitizeFieldName(msg.Name)
}
