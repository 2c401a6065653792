package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeVerifier_Deterministic(t *testing.T) {
	v1 := MakeVerifier([]byte("secret"))
	v2 := MakeVerifier([]byte("secret"))

	assert.Equal(t, v1, v2)
	assert.Len(t, v1, 32)
	assert.NotEqual(t, v1, MakeVerifier([]byte("secret2")))
}

func TestTokenDigest_KnownValue(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	assert.Equal(t, want, TokenDigest("abc"))

	_, err := hex.DecodeString(TokenDigest("anything"))
	assert.NoError(t, err)
}

func TestVerifyToken(t *testing.T) {
	d := TokenDigest("refresh-me")

	assert.True(t, VerifyToken("refresh-me", d))
	assert.False(t, VerifyToken("refresh-you", d))
	assert.False(t, VerifyToken("refresh-me", ""))
}
