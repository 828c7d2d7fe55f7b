package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), 15*time.Minute)

	token, err := codec.Issue("user-123", "alice", models.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), -1*time.Second)

	token, err := codec.Issue("user-123", "alice", models.RoleUser)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), 15*time.Minute)

	token, err := codec.Issue("user-123", "alice", models.RoleUser)
	require.NoError(t, err)

	// Flip the first character of the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), 15*time.Minute)

	userToken, err := codec.Issue("user-123", "alice", models.RoleUser)
	require.NoError(t, err)
	adminToken, err := codec.Issue("user-456", "mallory", models.RoleAdmin)
	require.NoError(t, err)

	// Splice the admin payload under the user token's signature.
	userParts := strings.Split(userToken, ".")
	adminParts := strings.Split(adminToken, ".")
	spliced := userParts[0] + "." + adminParts[1] + "." + userParts[2]

	_, err = codec.Decode(spliced)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenCodec([]byte("right-secret"), 15*time.Minute)
	verifier := NewTokenCodec([]byte("wrong-secret"), 15*time.Minute)

	token, err := issuer.Issue("user-123", "alice", models.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "not.a.jwt"},
		{name: "two segments", token: "abc.def"},
		{name: "garbage", token: "garbage"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := codec.Decode(tt.token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}
