// Package pathing resolves file names read from a -config file.
package pathing

import (
	"path/filepath"
	"strings"
)

// Stdin is the file name that stands for standard input or output.
const Stdin = "-"

// NormalizeInputPath trims path-like input from config fields.
func NormalizeInputPath(path string) string {
	return strings.TrimSpace(path)
}

// IsAbsoluteLike reports whether the path should be treated as absolute
// regardless of host OS path semantics.
func IsAbsoluteLike(path string) bool {
	path = NormalizeInputPath(path)
	if path == "" {
		return false
	}
	if filepath.IsAbs(path) {
		return true
	}
	if strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, `//`) || strings.HasPrefix(path, "/") {
		return true
	}
	if len(path) >= 3 && isASCIIAlpha(path[0]) && path[1] == ':' && (path[2] == '\\' || path[2] == '/') {
		return true
	}

	return false
}

// Resolve joins a relative path onto the directory of configFile. Absolute
// paths, "-" and empty values are returned trimmed but otherwise unchanged.
func Resolve(path string, configFile string) string {
	path = NormalizeInputPath(path)
	if path == "" || path == Stdin || IsAbsoluteLike(path) {
		return path
	}

	return filepath.Join(filepath.Dir(configFile), path)
}

// ResolveAll applies Resolve to every path.
func ResolveAll(paths []string, configFile string) []string {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		resolved = append(resolved, Resolve(p, configFile))
	}
	return resolved
}

func isASCIIAlpha(char byte) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}
