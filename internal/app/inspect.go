package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mavgen/internal/core"
)

// Inspect parses one dialect and reports its symbol counts before and
// after include resolution, plus the transitive include closure.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	if strings.TrimSpace(req.Dialect) == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dialect name is required")
	}
	if strings.TrimSpace(req.XMLDir) == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dialect definitions directory is required")
	}

	parser := s.NewParser(req.XMLDir)
	resolver := core.NewIncludeResolver(parser)

	dialect, err := parser.Parse(req.Dialect + ".xml")
	if err != nil {
		return InspectResult{}, err
	}
	closure, err := resolver.IncludeClosure(req.Dialect)
	if err != nil {
		return InspectResult{}, err
	}
	merged, err := resolver.ResolveIncludes(req.Dialect)
	if err != nil {
		return InspectResult{}, err
	}

	log.Ctx(ctx).Debug().
		Str("dialect", dialect.Name).
		Int("merged_enums", len(merged.Enums)).
		Int("merged_messages", len(merged.Messages)).
		Msg("dialect inspected")

	return InspectResult{
		Dialect:            dialect.Name,
		Version:            dialect.Version,
		DialectNumber:      dialect.Dialect,
		Includes:           dialect.Includes,
		IncludeClosure:     closure,
		EnumCount:          len(dialect.Enums),
		MessageCount:       len(dialect.Messages),
		MergedEnumCount:    len(merged.Enums),
		MergedMessageCount: len(merged.Messages),
	}, nil
}
