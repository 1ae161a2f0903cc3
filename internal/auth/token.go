package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// TokenTTL is how long an issued admin token stays valid.
const TokenTTL = 24 * time.Hour

// Codec issues and verifies stateless admin tokens of the form
// base64("username:expiryMillis:hexHMAC"). Nothing is stored server-side,
// so a token cannot be revoked before it expires.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of the codec that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Codec) Issue(username string) string {
	expiry := c.now().Add(TokenTTL).UnixMilli()
	payload := username + ":" + strconv.FormatInt(expiry, 10)
	return base64.StdEncoding.EncodeToString([]byte(payload + ":" + c.sign(payload)))
}

// Verify returns the embedded username when the token is well formed,
// unexpired and correctly signed. Any failure reports ok=false.
func (c *Codec) Verify(token string) (username string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", false
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", false
	}
	username, expiryStr, sig := parts[0], parts[1], parts[2]
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return "", false
	}
	if c.now().UnixMilli() > expiry {
		return "", false
	}
	want := c.sign(username + ":" + expiryStr)
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}
	return username, true
}
