// Package pattern implements the glob policy deciding which files
// are kept out of an archive's packed body
package pattern

import "strings"

// Match returns whether path matches pattern.
//
// The rules are intentionally simpler than a full glob and must stay
// that way: archives produced by the existing tooling rely on them.
//   - A pattern containing "**" matches when path ends with whatever
//     follows the last "**". Everything before it, including any
//     literal prefix like "bin/", is ignored. In particular "bin/**"
//     matches every path.
//   - A pattern starting with "*." is an extension filter: it
//     matches when path ends with the pattern minus its leading "*".
//   - Any other pattern containing "*" matches nothing.
//   - A pattern without wildcards matches on strict equality.
func Match(path, pattern string) bool {
	if i := strings.LastIndex(pattern, "**"); i != -1 {
		return strings.HasSuffix(path, pattern[i+2:])
	}
	if strings.Contains(pattern, "*") {
		if !strings.HasPrefix(pattern, "*.") {
			return false
		}
		return strings.HasSuffix(path, pattern[1:])
	}
	return path == pattern
}

// ShouldUnpack returns whether path matches any of the given
// patterns. A matched file is excluded from the packed body and
// copied to the side directory instead
func ShouldUnpack(path string, patterns []string) bool {
	for _, p := range patterns {
		if Match(path, p) {
			return true
		}
	}
	return false
}
