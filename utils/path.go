package utils

import "strings"

// NormalizePath replaces every forward slash with a doubled backslash.
// Existing backslashes are left as they are.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "/", `\\`)
}
