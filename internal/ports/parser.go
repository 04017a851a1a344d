package ports

import "mavgen/internal/types"

// DialectParserPort parses MAVLink XML dialect files into the in-memory
// IR. Implementations cache parsed dialects by name: parsing the same
// file twice returns the cached Dialect without re-reading the file,
// which also terminates circular include graphs.
type DialectParserPort interface {
	// Parse reads one dialect file (e.g. "common.xml"), recursively
	// parsing every file it includes. Included dialects are reachable
	// afterwards via Cached.
	Parse(fileName string) (*types.Dialect, error)

	// Cached returns the parsed dialect for a name (file name without
	// the .xml extension), or false if it was never parsed.
	Cached(dialectName string) (*types.Dialect, bool)
}
