package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"appliancestore/internal/auth"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestCodec_RoundTrip(t *testing.T) {
	c := auth.NewCodec("s3cret")
	tok := c.Issue("admin")

	user, ok := c.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, "admin", user)
}

func TestCodec_WireFormat(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	c := auth.NewCodec("s3cret").WithClock(fixedClock(now))

	raw, err := base64.StdEncoding.DecodeString(c.Issue("admin"))
	require.NoError(t, err)
	parts := strings.Split(string(raw), ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "admin", parts[0])
	assert.Equal(t, "1700086400000", parts[1])
	assert.Len(t, parts[2], 64)
}

func TestCodec_Expired(t *testing.T) {
	issued := time.Now()
	c := auth.NewCodec("s3cret").WithClock(fixedClock(issued))
	tok := c.Issue("admin")

	_, ok := c.WithClock(fixedClock(issued.Add(auth.TokenTTL - time.Second))).Verify(tok)
	assert.True(t, ok, "still inside the TTL")

	_, ok = c.WithClock(fixedClock(issued.Add(auth.TokenTTL + time.Second))).Verify(tok)
	assert.False(t, ok, "past expiry")
}

func TestCodec_Tampered(t *testing.T) {
	c := auth.NewCodec("s3cret")
	raw, err := base64.StdEncoding.DecodeString(c.Issue("admin"))
	require.NoError(t, err)

	payloadLen := strings.LastIndex(string(raw), ":")
	for i := 0; i < payloadLen; i++ {
		b := []byte(string(raw))
		if b[i] == ':' {
			continue
		}
		b[i] ^= 0x01
		_, ok := c.Verify(base64.StdEncoding.EncodeToString(b))
		assert.False(t, ok, "flipped byte %d", i)
	}
}

func TestCodec_WrongSecretAndGarbage(t *testing.T) {
	tok := auth.NewCodec("one").Issue("admin")
	_, ok := auth.NewCodec("two").Verify(tok)
	assert.False(t, ok)

	for _, bad := range []string{
		"",
		"not base64 !!",
		base64.StdEncoding.EncodeToString([]byte("admin:123")),
		base64.StdEncoding.EncodeToString([]byte("a:b:c:d")),
		base64.StdEncoding.EncodeToString([]byte("admin:soon:abcd")),
	} {
		_, ok := auth.NewCodec("one").Verify(bad)
		assert.False(t, ok, bad)
	}
}

func TestCredentials_Check(t *testing.T) {
	plain := auth.Credentials{Username: "admin", Password: "admin"}
	assert.NoError(t, plain.Check("admin", "admin"))
	assert.ErrorIs(t, plain.Check("admin", "nope"), auth.ErrBadCredentials)
	assert.ErrorIs(t, plain.Check("root", "admin"), auth.ErrBadCredentials)
	assert.ErrorIs(t, plain.Check("", ""), auth.ErrBadCredentials)

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := auth.Credentials{Username: "admin", Password: string(hash)}
	assert.NoError(t, hashed.Check("admin", "Str0ng!pass"))
	assert.ErrorIs(t, hashed.Check("admin", string(hash)), auth.ErrBadCredentials)
}
