package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais mot de passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashUsesUniqueSalt(t *testing.T) {
	h1, err := HashPassword("même mot de passe")
	require.NoError(t, err)
	h2, err := HashPassword("même mot de passe")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("secret", "pas-un-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("secret", "$argon2id$v=19$corrompu")
	assert.Error(t, err)
}

func TestVerifyPasswordRejectsForeignHashFormat(t *testing.T) {
	// un hash bcrypt hérité ne doit jamais atteindre le parsing Argon2
	ok, err := VerifyPassword("secret", "$2a$10$N9qo8uLOickgx2ZMRZoMye")
	assert.False(t, ok)
	assert.EqualError(t, err, "format de hash non supporté")
}

func TestIsArgon2Hash(t *testing.T) {
	assert.True(t, IsArgon2Hash("$argon2id$v=19$m=32768,t=1,p=4$abc$def"))
	assert.False(t, IsArgon2Hash("$2a$10$legacybcrypt"))
	assert.False(t, IsArgon2Hash(""))
}
