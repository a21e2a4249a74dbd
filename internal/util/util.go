package util

import (
	"fmt"
	"strings"
)

// RedactKey masks most of a credential string for safe logging, keeping only
// the first and last few characters.
// Example: "aVeryLongAccessKeyValue" -> "aVer***alue"
func RedactKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:4] + "***" + key[len(key)-4:]
}

// RedactURL masks the host portion of a URL before the first dot so that
// account-scoped endpoints (e.g. R2) can be logged without leaking the
// account identifier.
// Example: "https://abc123.r2.cloudflarestorage.com" -> "https://***.r2.cloudflarestorage.com"
func RedactURL(url string) string {
	if url == "" {
		return "none"
	}
	rest := url
	scheme := ""
	if idx := strings.Index(url, "://"); idx >= 0 {
		scheme = url[:idx+3]
		rest = url[idx+3:]
	}
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) > 1 {
		return fmt.Sprintf("%s***.%s", scheme, parts[1])
	}
	return scheme + "***"
}
