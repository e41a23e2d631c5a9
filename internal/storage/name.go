package storage

import (
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ObjectName returns a collision-resistant object name for an upload:
// a ULID (millisecond timestamp plus 80 bits of randomness) with the
// sanitized extension of the original filename. Two uploads in the
// same millisecond still get distinct names.
func ObjectName(original string) string {
	return ulid.Make().String() + sanitizeExt(original)
}

// sanitizeExt extracts a safe lowercase extension from a filename.
// Anything other than letters and digits is dropped; an absent or
// oversized extension yields none.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	ext = strings.TrimPrefix(ext, ".")

	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	clean := b.String()
	if clean == "" || len(clean) > 8 {
		return ""
	}
	return "." + clean
}
