package badger

import (
	"encoding/binary"

	"github.com/poiesic/semanalyzer/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "emb:"
)

// makeEmbeddingNamespacePrefix generates the key prefix shared by every
// embedding in a namespace. The namespace is hashed so that namespaces
// containing separators cannot shadow one another.
// Format: prefix:namespaceID
func makeEmbeddingNamespacePrefix(namespace string) []byte {
	prefixBytes := []byte(embeddingPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(namespace)))
	return buf
}

// makeEmbeddingKey generates a key for an embedding by namespace and content ID.
// Format: prefix:namespaceID:contentID
func makeEmbeddingKey(namespace string, id core.ID) []byte {
	prefix := makeEmbeddingNamespacePrefix(namespace)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
