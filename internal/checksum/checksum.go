// Package checksum fingerprints stored record files. The digest doubles as the
// record's ETag and lets the watcher skip files it has already indexed.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex SHA-256 of a record file's bytes.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matches reports whether ifMatch, an If-Match header value with or without
// quotes, names the checksum sum. An empty ifMatch always matches.
func Matches(ifMatch, sum string) bool {
	if ifMatch == "" || ifMatch == "*" {
		return true
	}
	return strings.Trim(ifMatch, `"`) == sum
}
