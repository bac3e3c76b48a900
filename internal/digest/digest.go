// Package digest fingerprints stored configuration documents.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Document computes a fingerprint of a document's kind and JSON body.
// Insignificant whitespace in body does not change the result; a body that is
// not valid JSON is hashed as-is.
func Document(kind, body string) string {
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(body)); err != nil {
		compact.Reset()
		compact.WriteString(body)
	}

	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{'#'})
	h.Write(compact.Bytes())
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16]) // 128-bit hash as hex
}
