package apikey_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dattastudio/studio-api/business/sdk/apikey"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDecodeRoundTrip(t *testing.T) {
	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")

	connectionID := uuid.New()
	expiresAt := time.Now().Add(7 * 24 * time.Hour)

	str, err := signer.Issue(connectionID, expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, str)

	key, err := signer.Decode(str)
	require.NoError(t, err)

	assert.Equal(t, connectionID, key.ConnectionID)
	assert.WithinDuration(t, expiresAt, key.ExpiresAt, time.Second)
	assert.WithinDuration(t, time.Now(), key.IssuedAt, time.Minute)
}

func TestDecodeExpired(t *testing.T) {
	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")

	str, err := signer.Issue(uuid.New(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = signer.Decode(str)
	assert.ErrorIs(t, err, apikey.ErrExpiredKey)
}

func TestDecodeTampered(t *testing.T) {
	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")

	str, err := signer.Issue(uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	// Flip a character inside the payload segment. The signature no longer
	// matches, so none of the fields can be trusted.
	parts := strings.Split(str, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = signer.Decode(tampered)
	assert.ErrorIs(t, err, apikey.ErrInvalidKey)
}

func TestDecodeGarbage(t *testing.T) {
	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")

	_, err := signer.Decode("not-an-api-key")
	assert.ErrorIs(t, err, apikey.ErrInvalidKey)
}

func TestDecodeWrongSecret(t *testing.T) {
	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")
	other := apikey.NewSigner([]byte("a-different-secret-key"), "https://studio.datta.dev/keys/")

	str, err := signer.Issue(uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = other.Decode(str)
	assert.ErrorIs(t, err, apikey.ErrInvalidKey)
}

func TestDecodeWrongIssuer(t *testing.T) {
	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")
	other := apikey.NewSigner([]byte("test-secret-0123456789"), "https://other.example.com/")

	str, err := signer.Issue(uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = other.Decode(str)
	assert.ErrorIs(t, err, apikey.ErrInvalidKey)
}
