package querycache

import "strings"

// Key is the ordered identity of a cached query, e.g. {"admin-projects", ownerID}.
// Segments must not contain ':'.
type Key []string

func K(segments ...string) Key {
	return Key(segments)
}

// String encodes the key with a trailing separator so that a shorter key
// is a string prefix of every key it segment-prefixes.
func (k Key) String() string {
	var b strings.Builder
	for _, s := range k {
		b.WriteString(s)
		b.WriteByte(':')
	}
	return b.String()
}

// HasPrefix reports whether p's segments are a leading run of k's segments.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}
