package auth

import "strings"

// RequiresAuth reports whether a request path requires authentication given a
// list of exclusion patterns. An empty path or an empty list always requires
// auth: exclusions opt paths out, never in.
//
// Pattern forms, matched case-sensitively against the start of path:
//   - "prefix*" matches any path beginning with prefix.
//   - "prefix/" matches any path beginning with prefix (the slash itself is
//     treated as the wildcard marker).
//   - "prefix" (no marker) matches prefix exactly or prefix/ and below, so a
//     bare entry only matches on a "/" boundary.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}
	for _, pattern := range excluded {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if matchesExclusion(path, pattern) {
			return false
		}
	}
	return true
}

func matchesExclusion(path, pattern string) bool {
	switch {
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(path, pattern[:len(pattern)-1])
	case strings.HasSuffix(pattern, "/"):
		return strings.HasPrefix(path, pattern[:len(pattern)-1])
	default:
		return path == pattern || strings.HasPrefix(path, pattern+"/")
	}
}
