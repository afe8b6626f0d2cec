package urlutil

import (
	"net/url"
	"strings"
)

const redacted = "REDACTED"

// Redact returns a copy of sourceUrl whose query values for the given keys
// are replaced with "REDACTED". Key matching is case-insensitive.
//
// The raw query is rewritten pair by pair rather than through url.Values,
// so every other parameter keeps its original encoding and order.
func Redact(sourceUrl url.URL, keys ...string) url.URL {
	if sourceUrl.RawQuery == "" || len(keys) == 0 {
		return sourceUrl
	}

	secret := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		secret[lowerASCII(k)] = struct{}{}
	}

	pairs := strings.Split(sourceUrl.RawQuery, "&")
	for i, pair := range pairs {
		name, _, hasValue := strings.Cut(pair, "=")
		if _, ok := secret[lowerASCII(name)]; ok && hasValue {
			pairs[i] = name + "=" + redacted
		}
	}

	out := sourceUrl
	out.RawQuery = strings.Join(pairs, "&")
	return out
}

// lowerASCII converts ASCII characters to lowercase without allocating
// when the input is already lowercase.
func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
