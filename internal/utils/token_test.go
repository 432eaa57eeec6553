package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenSecret(t *testing.T) {
	ts, err := NewTokenSecret(30)
	require.NoError(t, err)

	assert.Len(t, ts.Secret, 96) // 48 random bytes hex-encoded
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), ts.Exp, time.Minute)

	other, err := NewTokenSecret(30)
	require.NoError(t, err)
	assert.NotEqual(t, ts.Secret, other.Secret)
}

func TestComposeParseRoundTrip(t *testing.T) {
	ts, err := NewTokenSecret(1)
	require.NoError(t, err)

	raw := ComposeToken(42, ts.Secret)
	assert.True(t, strings.HasPrefix(raw, TokenPrefix))

	id, secret, err := ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, ts.Secret, secret)
}

func TestParseTokenRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"wrong prefix", "oat_MQ.deadbeef"},
		{"no separator", TokenPrefix + "MQdeadbeef"},
		{"empty id segment", TokenPrefix + ".deadbeef"},
		{"empty secret segment", TokenPrefix + "MQ."},
		{"id not base64", TokenPrefix + "!!!.deadbeef"},
		{"id not numeric", TokenPrefix + "YWJj.deadbeef"}, // "abc"
		{"id zero", TokenPrefix + "MA.deadbeef"},          // "0"
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseToken(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestHashTokenSecret(t *testing.T) {
	h1 := HashTokenSecret("secret")
	h2 := HashTokenSecret("secret")
	h3 := HashTokenSecret("Secret")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // SHA-256 hex
}
