package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"mavgen/internal/core"
)

// Validate parses the requested dialects (and, through include recursion,
// everything they include) and runs structural validation on each.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	if len(req.Dialects) == 0 {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one dialect is required")
	}
	if strings.TrimSpace(req.XMLDir) == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dialect definitions directory is required")
	}

	parser := s.NewParser(req.XMLDir)
	validator := core.NewDialectValidator()

	var validated []string
	for _, name := range req.Dialects {
		dialect, err := parser.Parse(name + ".xml")
		if err != nil {
			return ValidateResult{}, err
		}
		if err := validator.ValidateDialect(ctx, dialect); err != nil {
			return ValidateResult{}, err
		}
		validated = append(validated, dialect.Name)
	}
	return ValidateResult{Dialects: validated}, nil
}
