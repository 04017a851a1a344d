package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mavgen/internal/types"
)

// DialectValidator performs structural checks on a parsed dialect beyond
// what the XML parser enforces. Parsing accepts anything well-formed;
// validation catches authoring errors worth failing a build over.
type DialectValidator struct{}

func NewDialectValidator() DialectValidator {
	return DialectValidator{}
}

func (v DialectValidator) ValidateDialect(ctx context.Context, dialect *types.Dialect) error {
	assert.NotEmpty(ctx, dialect.Name, "dialect name must be set")

	for _, enum := range dialect.OrderedEnums() {
		if enum.Name == "" {
			return invalidDialect(dialect, "enum without a name")
		}
		if len(enum.Entries) == 0 {
			return invalidDialect(dialect, fmt.Sprintf("enum %s has no entries", enum.Name))
		}
		seen := map[string]struct{}{}
		for _, entry := range enum.Entries {
			if entry.Name == "" {
				return invalidDialect(dialect, fmt.Sprintf("enum %s has an unnamed entry", enum.Name))
			}
			if _, dup := seen[entry.Name]; dup {
				return invalidDialect(dialect, fmt.Sprintf("enum %s repeats entry name %s", enum.Name, entry.Name))
			}
			seen[entry.Name] = struct{}{}
		}
	}

	for _, message := range dialect.OrderedMessages() {
		if message.Name == "" {
			return invalidDialect(dialect, fmt.Sprintf("message id %d has no name", message.ID))
		}
		if message.ID < 0 {
			return invalidDialect(dialect, fmt.Sprintf("message %s has negative id %d", message.Name, message.ID))
		}
		for _, field := range message.Fields {
			if field.Name == "" || field.Type == "" {
				return invalidDialect(dialect, fmt.Sprintf("message %s has a field without name or type", message.Name))
			}
			if field.Enum != nil {
				if _, ok := dialect.EnumByName(*field.Enum); !ok {
					// Cross-dialect and forward references are legal;
					// emission resolves or warns about them.
					log.Ctx(ctx).Debug().
						Str("dialect", dialect.Name).
						Str("message", message.Name).
						Str("enum", *field.Enum).
						Msg("enum reference not declared locally")
				}
			}
		}
	}

	log.Ctx(ctx).Debug().Str("dialect", dialect.Name).Msg("dialect validated")
	return nil
}

func invalidDialect(dialect *types.Dialect, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid dialect %s: %s", dialect.Name, reason))
}
