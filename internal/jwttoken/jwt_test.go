package jwttoken

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "pandaCareTestSecretKey123456789012345678901234567890"

func TestRoundTrip(t *testing.T) {
	svc := New(testKey, time.Hour)

	token, err := svc.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, svc.Validate(token))

	subject, err := svc.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), subject)

	claims, err := svc.Claims(token)
	require.NoError(t, err)
	assert.Equal(t, "pandacare-authprofile", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")
}

func TestGenerateFromUserIDRoundTrip(t *testing.T) {
	svc := New(testKey, time.Hour)

	token, err := svc.GenerateFromUserID(7)
	require.NoError(t, err)
	assert.True(t, svc.Validate(token))

	subject, err := svc.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), subject)
}

func TestValidate_Expired(t *testing.T) {
	svc := New(testKey, time.Millisecond)

	token, err := svc.Generate(1)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, svc.Validate(token))

	_, err = svc.Subject(token)
	assert.Error(t, err)
}

func TestValidate_ZeroTTLAlwaysExpired(t *testing.T) {
	svc := New(testKey, 0)

	token, err := svc.Generate(1)
	require.NoError(t, err)
	assert.False(t, svc.Validate(token))
}

func TestValidate_MalformedInputs(t *testing.T) {
	svc := New(testKey, time.Hour)

	cases := map[string]string{
		"empty":               "",
		"garbage":             "malformed.jwt.token",
		"one segment":         "justonesegment",
		"two segments":        "header.payload",
		"four segments":       "a.b.c.d",
		"whitespace":          "   ",
		"valid-looking junk":  "eyJhbGciOiJIUzI1NiJ9.not-base64!.sig",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, svc.Validate(token))
			})
		})
	}
}

func TestValidate_WrongAlgorithmRejected(t *testing.T) {
	svc := New(testKey, time.Hour)

	// RS256 header with an arbitrary payload; must be rejected before
	// any signature verification is attempted.
	rs256 := "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9" +
		".eyJzdWIiOiI0MiIsImlhdCI6MTUxNjIzOTAyMn0" +
		".RSASHA256Signature"
	assert.False(t, svc.Validate(rs256))

	// Unsigned token ("none" algorithm).
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.False(t, svc.Validate(none))
}

func TestValidate_WrongKeyOrTamperedSignature(t *testing.T) {
	svc := New(testKey, time.Hour)
	other := New("a-completely-different-secret-key-0123456789", time.Hour)

	token, err := other.Generate(42)
	require.NoError(t, err)
	assert.False(t, svc.Validate(token))

	good, err := svc.Generate(42)
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	assert.False(t, svc.Validate(tampered))
}

func TestSubject_InvalidTokenErrors(t *testing.T) {
	svc := New(testKey, time.Hour)
	_, err := svc.Subject("")
	assert.Error(t, err)
}
