package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "prefix:hex" cache key from the JSON encoding of the
// stage inputs. The hex part is the untruncated SHA-256 digest so keys for
// distinct inputs never collide.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 digest of data as a 64-character hex string.
// Pipeline stages use it to fingerprint portfolios and layouts.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
