// Package gobd implements the hash primitives of the GoBD archive chain.
// Every archived document carries a SHA-256 content hash and a chain hash
// linking it to the tenant's previously archived document, which makes any
// after-the-fact modification of stored documents detectable.
package gobd

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenesisHash seeds the first link of every tenant chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// HashDocument returns the hex SHA-256 of the document content.
func HashDocument(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ChainHash links a document into the chain:
// SHA-256(previousChainHash + ":" + contentHash), hex encoded.
func ChainHash(contentHash, previousChainHash string) string {
	sum := sha256.Sum256([]byte(previousChainHash + ":" + contentHash))
	return hex.EncodeToString(sum[:])
}

// VerifyIntegrity recomputes the content hash and compares it to the expected
// one.
func VerifyIntegrity(content []byte, expectedHash string) bool {
	return HashDocument(content) == expectedHash
}
