package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mavgen/internal/core"
	"mavgen/internal/emit"
	"mavgen/internal/ports"
	"mavgen/internal/types"
)

// Generate runs the whole pipeline: parse the requested dialects, resolve
// their include graphs, and emit the proto schemas, the bridge service
// definition, and optionally the C++ converter pair.
//
// Failure policy: parse errors and write errors abort the run; a
// rendering error is logged with the offending dialect and the run
// continues with the next artifact, since one malformed dialect should
// not block emission of the others.
func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if req.Preset != "" {
		preset, err := s.Presets.LoadPreset(req.PresetsFile, req.Preset)
		if err != nil {
			return GenerateResult{}, err
		}
		if len(req.Dialects) == 0 {
			req.Dialects = preset.Dialects
		}
		req.Merge = req.Merge || preset.Merge
		req.Converter = req.Converter || preset.Converter
		req.SkipWIP = req.SkipWIP || preset.SkipWIP
		if strings.TrimSpace(req.ArrayPolicy) == "" {
			req.ArrayPolicy = string(preset.ArrayPolicy)
		}
	}
	if len(req.Dialects) == 0 {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one dialect is required")
	}
	if strings.TrimSpace(req.XMLDir) == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dialect definitions directory is required")
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	policy := types.ArrayPolicy(req.ArrayPolicy)
	if req.ArrayPolicy == "" {
		policy = types.ArrayPolicyRepeated
	}
	if !policy.Valid() {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid array policy %q (want repeated or bytes)", req.ArrayPolicy))
	}

	parser := s.NewParser(req.XMLDir)
	resolver := core.NewIncludeResolver(parser)
	writer := s.NewWriter(req.OutputDir)

	resolved := map[string]*types.Dialect{}
	imports := map[string][]string{}
	for _, name := range req.Dialects {
		if req.Merge {
			merged, err := resolver.ResolveIncludes(name)
			if err != nil {
				return GenerateResult{}, err
			}
			resolved[merged.Name] = merged
			continue
		}
		dialect, err := parser.Parse(name + ".xml")
		if err != nil {
			return GenerateResult{}, err
		}
		closure, err := resolver.IncludeClosure(name)
		if err != nil {
			return GenerateResult{}, err
		}
		resolved[dialect.Name] = dialect
		imports[dialect.Name] = closure
	}

	// Flattened dialects own every enum they carry; unmerged runs need
	// the cross-dialect ownership index to qualify foreign references.
	var index core.EnumIndex
	if req.Merge {
		index = core.BuildEnumIndexFrom(resolved)
	} else {
		built, err := resolver.BuildEnumIndex(req.Dialects)
		if err != nil {
			return GenerateResult{}, err
		}
		index = built
	}

	result := GenerateResult{Dialects: req.Dialects}
	shared := emit.Context{
		Dialects: resolved,
		Index:    index,
		Policy:   policy,
		SkipWIP:  req.SkipWIP,
	}

	for _, name := range req.Dialects {
		dialect := resolved[name]
		dialectCtx := shared
		dialectCtx.Dialect = dialect
		dialectCtx.Imports = imports[name]

		content, err := emit.RenderDialectProto(&dialectCtx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("dialect", name).Msg("dialect proto rendering failed, skipping artifact")
			result.RenderErrors = append(result.RenderErrors, name)
			continue
		}
		path, err := writer.WriteArtifact(filepath.Join("mavlink", name+".proto"), content)
		if err != nil {
			return GenerateResult{}, err
		}
		result.Artifacts = append(result.Artifacts, path)
		result.EnumCount += len(dialect.Enums)
		result.MessageCount += len(dialect.Messages)
		log.Ctx(ctx).Info().
			Str("dialect", name).
			Int("enums", len(dialect.Enums)).
			Int("messages", len(dialect.Messages)).
			Str("artifact", path).
			Msg("dialect proto generated")
	}

	if content, err := emit.RenderBridgeProto(&shared); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("bridge service rendering failed, skipping artifact")
		result.RenderErrors = append(result.RenderErrors, "mavlink_bridge")
	} else {
		path, err := writer.WriteArtifact("mavlink_bridge.proto", content)
		if err != nil {
			return GenerateResult{}, err
		}
		result.Artifacts = append(result.Artifacts, path)
	}

	if req.Converter {
		artifacts, err := s.emitConverter(ctx, &shared, writer)
		if err != nil {
			return GenerateResult{}, err
		}
		if artifacts == nil {
			result.RenderErrors = append(result.RenderErrors, "converter")
		}
		result.Artifacts = append(result.Artifacts, artifacts...)
	}

	if req.Manifest {
		records := make([]types.ArtifactRecord, 0, len(result.Artifacts))
		for _, path := range result.Artifacts {
			rel, err := filepath.Rel(req.OutputDir, path)
			if err != nil {
				rel = path
			}
			records = append(records, types.ArtifactRecord{Path: rel})
		}
		manifestPath, err := s.Manifest.WriteManifest(req.OutputDir, types.GenerationManifest{
			Tool:        "mavgen",
			Version:     req.ToolVersion,
			Dialects:    req.Dialects,
			Merge:       req.Merge,
			ArrayPolicy: policy,
			Enums:       result.EnumCount,
			Messages:    result.MessageCount,
			Artifacts:   records,
		})
		if err != nil {
			return GenerateResult{}, err
		}
		result.Artifacts = append(result.Artifacts, manifestPath)
		log.Ctx(ctx).Info().Str("manifest", manifestPath).Msg("generation manifest written")
	}
	return result, nil
}

func (s Service) emitConverter(ctx context.Context, shared *emit.Context, writer ports.ArtifactWriterPort) ([]string, error) {
	header, err := emit.RenderConverterHeader(shared)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("converter header rendering failed, skipping artifact")
		return nil, nil
	}
	source, err := emit.RenderConverterSource(shared)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("converter source rendering failed, skipping artifact")
		return nil, nil
	}
	headerPath, err := writer.WriteArtifact("MessageConverter.h", header)
	if err != nil {
		return nil, err
	}
	sourcePath, err := writer.WriteArtifact("MessageConverter.cc", source)
	if err != nil {
		return nil, err
	}
	return []string{headerPath, sourcePath}, nil
}
