package adapters

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mavgen/internal/ports"
	"mavgen/internal/shared"
	"mavgen/internal/types"
)

// DialectXMLAdapter parses MAVLink XML dialect files from a single
// definitions directory. Parsed dialects are cached by name for the
// lifetime of the adapter; the cache doubles as the cycle breaker for
// mutually-including schemas and is never mutated after a dialect is
// fully populated.
type DialectXMLAdapter struct {
	dir string

	mu    sync.Mutex
	cache map[string]*types.Dialect
}

func NewDialectXMLAdapter(dir string) *DialectXMLAdapter {
	return &DialectXMLAdapter{dir: dir, cache: map[string]*types.Dialect{}}
}

type mavlinkXML struct {
	Version  string       `xml:"version"`
	Dialect  string       `xml:"dialect"`
	Includes []string     `xml:"include"`
	Enums    []enumXML    `xml:"enums>enum"`
	Messages []messageXML `xml:"messages>message"`
}

type enumXML struct {
	Name        string         `xml:"name,attr"`
	Bitmask     string         `xml:"bitmask,attr"`
	Description string         `xml:"description"`
	Deprecated  *deprecatedXML `xml:"deprecated"`
	Entries     []entryXML     `xml:"entry"`
}

type entryXML struct {
	Value       string         `xml:"value,attr"`
	Name        string         `xml:"name,attr"`
	Description string         `xml:"description"`
	Deprecated  *deprecatedXML `xml:"deprecated"`
}

type messageXML struct {
	ID          string         `xml:"id,attr"`
	Name        string         `xml:"name,attr"`
	Description string         `xml:"description"`
	Deprecated  *deprecatedXML `xml:"deprecated"`
	Superseded  *deprecatedXML `xml:"superseded"`
	WIP         *struct{}      `xml:"wip"`
	Fields      []fieldXML     `xml:"field"`
}

type deprecatedXML struct {
	Since      string `xml:"since,attr"`
	ReplacedBy string `xml:"replaced_by,attr"`
}

type fieldXML struct {
	Type        string `xml:"type,attr"`
	Name        string `xml:"name,attr"`
	Enum        string `xml:"enum,attr"`
	Units       string `xml:"units,attr"`
	Invalid     string `xml:"invalid,attr"`
	PrintFormat string `xml:"print_format,attr"`
	Description string `xml:",chardata"`
}

// Parse loads one dialect file and recursively parses its includes.
// The dialect is cached before include recursion starts, so circular
// include graphs terminate instead of recursing forever.
func (a *DialectXMLAdapter) Parse(fileName string) (*types.Dialect, error) {
	name := shared.DialectName(fileName)
	if dialect, ok := a.Cached(name); ok {
		return dialect, nil
	}

	path := filepath.Join(a.dir, fileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("dialect schema not found: %s", path)).
			WithCause(err)
	}

	var doc mavlinkXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed dialect schema: %s", path)).
			WithCause(err)
	}

	dialect := &types.Dialect{
		Name:     name,
		FilePath: path,
		Enums:    map[string]types.Enum{},
		Messages: map[int]types.Message{},
	}
	if err := a.populate(dialect, &doc, path); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[name] = dialect
	a.mu.Unlock()

	// Includes are parsed for the side effect of populating the cache;
	// the resolver reaches them there.
	for _, include := range dialect.Includes {
		if _, err := a.Parse(include); err != nil {
			return nil, err
		}
	}
	return dialect, nil
}

// Cached returns the already-parsed dialect for a name, if any.
func (a *DialectXMLAdapter) Cached(dialectName string) (*types.Dialect, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	dialect, ok := a.cache[dialectName]
	return dialect, ok
}

func (a *DialectXMLAdapter) populate(dialect *types.Dialect, doc *mavlinkXML, path string) error {
	if trimmed := strings.TrimSpace(doc.Version); trimmed != "" {
		version, err := strconv.Atoi(trimmed)
		if err != nil {
			return malformedValue(path, "version", trimmed, err)
		}
		dialect.Version = &version
	}
	if trimmed := strings.TrimSpace(doc.Dialect); trimmed != "" {
		number, err := strconv.Atoi(trimmed)
		if err != nil {
			return malformedValue(path, "dialect", trimmed, err)
		}
		dialect.Dialect = &number
	}
	for _, include := range doc.Includes {
		if trimmed := strings.TrimSpace(include); trimmed != "" {
			dialect.Includes = append(dialect.Includes, trimmed)
		}
	}
	for _, elem := range doc.Enums {
		enum, err := parseEnum(elem, path)
		if err != nil {
			return err
		}
		if _, exists := dialect.Enums[enum.Name]; exists {
			log.Warn().
				Str("dialect", dialect.Name).
				Str("enum", enum.Name).
				Msg("duplicate enum name, later declaration wins")
		} else {
			dialect.EnumOrder = append(dialect.EnumOrder, enum.Name)
		}
		dialect.Enums[enum.Name] = enum
	}
	for _, elem := range doc.Messages {
		message, err := parseMessage(elem, path)
		if err != nil {
			return err
		}
		if _, exists := dialect.Messages[message.ID]; exists {
			log.Warn().
				Str("dialect", dialect.Name).
				Int("id", message.ID).
				Str("message", message.Name).
				Msg("duplicate message id, later declaration wins")
		} else {
			dialect.MessageOrder = append(dialect.MessageOrder, message.ID)
		}
		dialect.Messages[message.ID] = message
	}
	return nil
}

func parseEnum(elem enumXML, path string) (types.Enum, error) {
	enum := types.Enum{
		Name:        elem.Name,
		IsBitmask:   elem.Bitmask == "true",
		Description: optionalText(elem.Description),
		Deprecated:  deprecation(elem.Deprecated),
	}
	for _, entryElem := range elem.Entries {
		value := 0
		if trimmed := strings.TrimSpace(entryElem.Value); trimmed != "" {
			parsed, err := strconv.Atoi(trimmed)
			if err != nil {
				return types.Enum{}, malformedValue(path, "entry value", trimmed, err)
			}
			value = parsed
		}
		enum.Entries = append(enum.Entries, types.EnumEntry{
			Value:       value,
			Name:        entryElem.Name,
			Description: optionalText(entryElem.Description),
			Deprecated:  deprecation(entryElem.Deprecated),
		})
	}
	return enum, nil
}

func parseMessage(elem messageXML, path string) (types.Message, error) {
	id, err := strconv.Atoi(strings.TrimSpace(elem.ID))
	if err != nil {
		return types.Message{}, malformedValue(path, "message id", elem.ID, err)
	}
	message := types.Message{
		ID:          id,
		Name:        elem.Name,
		Description: optionalText(elem.Description),
		Deprecated:  deprecation(elem.Deprecated),
		Superseded:  deprecation(elem.Superseded),
		WIP:         elem.WIP != nil,
	}
	for _, fieldElem := range elem.Fields {
		message.Fields = append(message.Fields, types.MessageField{
			Type:        fieldElem.Type,
			Name:        fieldElem.Name,
			Enum:        optionalText(fieldElem.Enum),
			Units:       optionalText(fieldElem.Units),
			Invalid:     optionalText(fieldElem.Invalid),
			PrintFormat: optionalText(fieldElem.PrintFormat),
			Description: optionalText(fieldElem.Description),
		})
	}
	return message, nil
}

// optionalText keeps absent and empty distinguishable: an absent or
// blank value stays nil so emission can skip it entirely.
func optionalText(value string) *string {
	collapsed := shared.CollapseWhitespace(value)
	if collapsed == "" {
		return nil
	}
	return &collapsed
}

func deprecation(elem *deprecatedXML) *types.Deprecation {
	if elem == nil {
		return nil
	}
	return &types.Deprecation{Since: elem.Since, ReplacedBy: elem.ReplacedBy}
}

func malformedValue(path string, what string, value string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("malformed dialect schema %s: non-numeric %s %q", path, what, value)).
		WithCause(cause)
}

var _ ports.DialectParserPort = (*DialectXMLAdapter)(nil)
