package valuestore

import "strings"

// NormalizePath converts form-style field names into dot paths:
// "user[firstName]" becomes "user.firstName" and "items[0][name]" becomes
// "items.0.name". A trailing "[]" collection marker is dropped. Paths must
// be non-empty and name real fields; malformed input is passed through.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimSuffix(path, "[]")
	if !strings.Contains(path, "[") {
		return path
	}

	parts := strings.Split(path, "[")
	for i, part := range parts {
		parts[i] = strings.Replace(part, "]", "", 1)
	}
	return strings.Join(parts, ".")
}
