package search

import (
	"crypto/sha256"
	"encoding/hex"
)

// computeFingerprint hashes the document slice. It changes whenever a
// document is added, removed, reordered or its text changes, which is when
// the bleve index has to be rebuilt.
func computeFingerprint(docs []Doc) string {
	h := sha256.New()

	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte{0})
		h.Write([]byte(doc.Type))
		h.Write([]byte{0})
		h.Write([]byte(doc.Text))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
