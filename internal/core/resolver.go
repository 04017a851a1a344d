package core

import (
	"sort"

	"github.com/rs/zerolog/log"

	"mavgen/internal/ports"
	"mavgen/internal/shared"
	"mavgen/internal/types"
)

// IncludeResolver assembles a dialect's transitive include graph on top
// of the parser's cache. It never mutates cached dialects; merged results
// are new values consumed by the emitter and discarded.
type IncludeResolver struct {
	Parser ports.DialectParserPort
}

func NewIncludeResolver(parser ports.DialectParserPort) IncludeResolver {
	return IncludeResolver{Parser: parser}
}

// ResolveIncludes parses a dialect and flattens it with its transitive
// includes into one merged symbol table. The walk order is the root
// followed by the include closure in depth-first document order; the
// first dialect in the walk to declare an enum name or message id wins,
// and every shadowed declaration is reported as a warning. A dialect
// without includes is returned unmodified.
func (r IncludeResolver) ResolveIncludes(dialectName string) (*types.Dialect, error) {
	root, err := r.Parser.Parse(dialectName + ".xml")
	if err != nil {
		return nil, err
	}
	if len(root.Includes) == 0 {
		return root, nil
	}
	closure, err := r.IncludeClosure(dialectName)
	if err != nil {
		return nil, err
	}

	walk := []*types.Dialect{root}
	for _, name := range closure {
		dialect, err := r.Parser.Parse(name + ".xml")
		if err != nil {
			return nil, err
		}
		walk = append(walk, dialect)
	}

	merged := &types.Dialect{
		Name:     root.Name,
		FilePath: root.FilePath,
		Version:  root.Version,
		Dialect:  root.Dialect,
		Enums:    map[string]types.Enum{},
		Messages: map[int]types.Message{},
	}
	for _, dialect := range walk {
		for _, name := range dialect.EnumOrder {
			if _, seen := merged.Enums[name]; seen {
				log.Warn().
					Str("dialect", dialect.Name).
					Str("enum", name).
					Msg("duplicate enum dropped during merge, first-seen wins")
				continue
			}
			merged.Enums[name] = dialect.Enums[name]
			merged.EnumOrder = append(merged.EnumOrder, name)
		}
		for _, id := range dialect.MessageOrder {
			if _, seen := merged.Messages[id]; seen {
				log.Warn().
					Str("dialect", dialect.Name).
					Int("id", id).
					Msg("duplicate message id dropped during merge, first-seen wins")
				continue
			}
			merged.Messages[id] = dialect.Messages[id]
			merged.MessageOrder = append(merged.MessageOrder, id)
		}
	}
	return merged, nil
}

// IncludeClosure returns the names of every dialect transitively included
// by the named dialect, in depth-first order with duplicates removed. The
// root itself is not part of the closure. The result is used only to emit
// document references; it never merges symbol tables.
func (r IncludeResolver) IncludeClosure(dialectName string) ([]string, error) {
	root, err := r.Parser.Parse(dialectName + ".xml")
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{root.Name: {}}
	var closure []string
	var visit func(dialect *types.Dialect) error
	visit = func(dialect *types.Dialect) error {
		for _, include := range dialect.Includes {
			name := shared.DialectName(include)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			closure = append(closure, name)
			next, err := r.Parser.Parse(include)
			if err != nil {
				return err
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	return closure, nil
}

// EnumIndex maps every enum name to the first supplied dialect that
// declares it, so cross-dialect enum references can be qualified without
// flattening the dialects themselves.
type EnumIndex struct {
	owners map[string]string
}

// BuildEnumIndex parses every requested dialect independently and builds
// the cross-dialect enum ownership index. Supply order is precedence
// order: the first dialect declaring a name owns it.
func (r IncludeResolver) BuildEnumIndex(dialectNames []string) (EnumIndex, error) {
	index := EnumIndex{owners: map[string]string{}}
	for _, dialectName := range dialectNames {
		dialect, err := r.Parser.Parse(dialectName + ".xml")
		if err != nil {
			return EnumIndex{}, err
		}
		for _, enumName := range dialect.EnumOrder {
			if _, claimed := index.owners[enumName]; !claimed {
				index.owners[enumName] = dialect.Name
			}
		}
	}
	return index, nil
}

// BuildEnumIndexFrom builds the ownership index over already-resolved
// dialects, for flattened runs where every enum is local to its merged
// dialect. Names are visited in sorted order so ties resolve the same
// way on every run.
func BuildEnumIndexFrom(dialects map[string]*types.Dialect) EnumIndex {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)

	index := EnumIndex{owners: map[string]string{}}
	for _, name := range names {
		for _, enumName := range dialects[name].EnumOrder {
			if _, claimed := index.owners[enumName]; !claimed {
				index.owners[enumName] = name
			}
		}
	}
	return index
}

// Owner returns the dialect that declares an enum, if any.
func (idx EnumIndex) Owner(enumName string) (string, bool) {
	owner, ok := idx.owners[enumName]
	return owner, ok
}

// ResolveEnumRef resolves a field's enum reference to a stable proto type
// name. Enums owned by another dialect are qualified with that dialect's
// package; an unresolved reference falls back to the unqualified
// sanitized name with a warning, since forward and external references
// are still worth emitting.
func (idx EnumIndex) ResolveEnumRef(enumName string, localDialect string) string {
	sanitized := SanitizeEnumName(enumName)
	owner, ok := idx.owners[enumName]
	if !ok {
		log.Warn().
			Str("enum", enumName).
			Str("dialect", localDialect).
			Msg("unresolved enum reference, emitting unqualified name")
		return sanitized
	}
	if owner == localDialect {
		return sanitized
	}
	return owner + "." + sanitized
}
