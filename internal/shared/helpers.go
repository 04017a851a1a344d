// Package shared provides common utility functions used across multiple
// packages in the mavgen codebase.
package shared

import (
	"path/filepath"
	"strings"
)

// DialectName derives a dialect name from its schema file name by
// stripping the extension ("common.xml" -> "common").
func DialectName(fileName string) string {
	return strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
}

// CollapseWhitespace reduces any run of whitespace (including newlines
// from multi-line XML descriptions) to a single space.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
