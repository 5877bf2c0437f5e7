package gobd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/windassist/windpark-api/internal/domain/gobd"
)

// Known SHA-256 vectors. If the concatenation order or separator of the chain
// hash ever changes, every previously archived chain becomes unverifiable, so
// these pin the exact algorithm.
func TestHashDocument_Vector(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		gobd.HashDocument([]byte("abc")))

	// sha256("")
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		gobd.HashDocument(nil))
}

func TestChainHash_UsesColonSeparator(t *testing.T) {
	contentHash := gobd.HashDocument([]byte("abc"))
	chained := gobd.ChainHash(contentHash, gobd.GenesisHash)

	// Recompute by hand over the documented canonical string.
	manual := gobd.HashDocument([]byte(gobd.GenesisHash + ":" + contentHash))
	assert.Equal(t, manual, chained)
	assert.NotEqual(t, chained, gobd.ChainHash(contentHash, chained), "chaining must be order sensitive")
}

func TestVerifyIntegrity(t *testing.T) {
	content := []byte("Rechnung GS-2024-00001")
	hash := gobd.HashDocument(content)

	assert.True(t, gobd.VerifyIntegrity(content, hash))
	assert.False(t, gobd.VerifyIntegrity([]byte("Rechnung GS-2024-00002"), hash))
	assert.False(t, gobd.VerifyIntegrity(content, "deadbeef"))
}

func TestGenesisHash_Shape(t *testing.T) {
	assert.Len(t, gobd.GenesisHash, 64)
}
