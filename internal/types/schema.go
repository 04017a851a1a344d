package types

import (
	"strconv"
	"strings"
)

// Deprecation marks a symbol as deprecated and optionally names its
// replacement. MAVLink XML encodes this as a <deprecated> child with
// "since" and "replaced_by" attributes; either may be absent.
type Deprecation struct {
	Since      string
	ReplacedBy string
}

// EnumEntry is a single <entry> of a MAVLink enum. Entry names are unique
// within an enum; values conventionally are but need not be.
type EnumEntry struct {
	Value       int
	Name        string
	Description *string
	Deprecated  *Deprecation
}

// Enum is a MAVLink enum declaration. Entries keep document order, which
// is significant for the generated output.
type Enum struct {
	Name        string
	Description *string
	IsBitmask   bool
	Entries     []EnumEntry
	Deprecated  *Deprecation
}

// MessageField is one <field> of a MAVLink message. Type holds the raw
// source token, possibly array-qualified (e.g. "uint8_t", "char[16]").
// Enum references are by name and not validated at parse time; a dangling
// reference is resolved (or warned about) at emission time.
type MessageField struct {
	Type        string
	Name        string
	Enum        *string
	Units       *string
	Description *string
	Invalid     *string
	PrintFormat *string
}

// IsArray reports whether the field type carries array notation.
func (f MessageField) IsArray() bool {
	return strings.IndexByte(f.Type, '[') >= 0 && strings.IndexByte(f.Type, ']') >= 0
}

// ArrayLength returns the declared fixed length for array fields.
// The second return value is false for non-array fields.
func (f MessageField) ArrayLength() (int, bool) {
	if !f.IsArray() {
		return 0, false
	}
	start := strings.IndexByte(f.Type, '[')
	end := strings.IndexByte(f.Type, ']')
	if end <= start+1 {
		return 0, false
	}
	length, err := strconv.Atoi(f.Type[start+1 : end])
	if err != nil {
		return 0, false
	}
	return length, true
}

// BaseType returns the field type without array notation.
func (f MessageField) BaseType() string {
	if f.IsArray() {
		return f.Type[:strings.IndexByte(f.Type, '[')]
	}
	return f.Type
}

// Message is a MAVLink message declaration. Fields keep wire/document
// order. IDs are unique within a dialect; collisions across merged
// dialects deduplicate first-seen-wins.
type Message struct {
	ID          int
	Name        string
	Description *string
	Fields      []MessageField
	Deprecated  *Deprecation
	Superseded  *Deprecation
	WIP         bool
}

// Dialect is one schema document's full symbol set. Includes are kept as
// declared (file names, not yet resolved). EnumOrder and MessageOrder
// preserve document order for deterministic emission; the maps provide
// lookup by name and id.
type Dialect struct {
	Name     string
	FilePath string
	Version  *int
	Dialect  *int

	Includes []string

	Enums     map[string]Enum
	EnumOrder []string

	Messages     map[int]Message
	MessageOrder []int
}

// MessageByName scans messages in document order and returns the first
// match. Duplicate names are not expected and not guarded against.
func (d *Dialect) MessageByName(name string) (Message, bool) {
	for _, id := range d.MessageOrder {
		if msg, ok := d.Messages[id]; ok && msg.Name == name {
			return msg, true
		}
	}
	return Message{}, false
}

// EnumByName looks up an enum by its source name.
func (d *Dialect) EnumByName(name string) (Enum, bool) {
	enum, ok := d.Enums[name]
	return enum, ok
}

// OrderedEnums returns the dialect's enums in document order.
func (d *Dialect) OrderedEnums() []Enum {
	enums := make([]Enum, 0, len(d.EnumOrder))
	for _, name := range d.EnumOrder {
		if enum, ok := d.Enums[name]; ok {
			enums = append(enums, enum)
		}
	}
	return enums
}

// OrderedMessages returns the dialect's messages in document order.
func (d *Dialect) OrderedMessages() []Message {
	messages := make([]Message, 0, len(d.MessageOrder))
	for _, id := range d.MessageOrder {
		if msg, ok := d.Messages[id]; ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
