package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parámetros bajos para que los tests sean rápidos
var fast = Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 16}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(fast, "john")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=1024,t=1,p=1$"))

	assert.True(t, Verify("john", phc))
	assert.False(t, Verify("jane", phc))
}

func TestHash_Empty(t *testing.T) {
	_, err := Hash(fast, "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerify_Malformed(t *testing.T) {
	for _, phc := range []string{
		"",
		"john",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$ZGs",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$ZGs",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$ZGs",
		"$argon2id$v=19$m=1024,t=1,p=1$***$ZGs",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		assert.False(t, Verify("john", phc), phc)
	}
}
