// internal/auth/password_test.go
package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateHashAndVerify(t *testing.T) {
	hash, err := CreateHash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	require.True(t, VerifyPassword("correct horse battery staple", hash))
	require.False(t, VerifyPassword("wrong password", hash))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := CreateHash("hunter2")
	require.NoError(t, err)
	h2, err := CreateHash("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

// A malformed stored digest must yield false, never a panic or error leak.
func TestVerifyMalformedDigest(t *testing.T) {
	for _, digest := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=2$toofewparts",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!badsalt!!!$AAAA",
		"$argon2id$v=9999$m=65536,t=3,p=2$c2FsdA$AAAA",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$AAAA",
		"$argon2id$v=19$m=banana,t=3,p=2$c2FsdA$AAAA",
	} {
		require.False(t, VerifyPassword("anything", digest), "digest %q", digest)
	}
}

func TestDecodeHashRoundTrip(t *testing.T) {
	hash, err := CreateHash("secret")
	require.NoError(t, err)

	p, salt, key, err := decodeHash(hash)
	require.NoError(t, err)
	require.Equal(t, defaultParams.memory, p.memory)
	require.Equal(t, defaultParams.iterations, p.iterations)
	require.Len(t, salt, int(defaultParams.saltLength))
	require.Len(t, key, int(defaultParams.keyLength))
}
