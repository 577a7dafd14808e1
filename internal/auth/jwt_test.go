package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret-0123456789"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Encode(42, "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "autostyle-api", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCodec_Decode_Expired(t *testing.T) {
	codec := NewTokenCodec(testSecret, -time.Second)

	token, err := codec.Encode(42, "alice@example.com", "Alice")
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_Decode_TamperedPayload(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Encode(42, "alice@example.com", "Alice")
	require.NoError(t, err)

	// Flip a byte in the payload segment.
	raw := []byte(token)
	mid := len(raw) / 2
	if raw[mid] == 'A' {
		raw[mid] = 'B'
	} else {
		raw[mid] = 'A'
	}

	claims, err := codec.Decode(string(raw))
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_Decode_WrongKey(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	other := NewTokenCodec("a-completely-different-secret-value", time.Hour)

	token, err := codec.Encode(42, "alice@example.com", "Alice")
	require.NoError(t, err)

	claims, err := other.Decode(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_Decode_Garbage(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		claims, err := codec.Decode(input)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", input)
	}
}
