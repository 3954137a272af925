package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Verify checks the provider's HMAC-SHA256 signature over the raw request
// body. When no secret is configured the check is skipped entirely; callers
// are expected to log that mode loudly at startup. When a secret is set and
// the header is absent, verification fails closed.
func Verify(body []byte, header, secret string) error {
	if secret == "" {
		return nil
	}
	if header == "" {
		return ErrMissingSignature
	}

	supplied := strings.TrimSpace(header)
	supplied = strings.TrimPrefix(supplied, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// Hex digests compare case-insensitively; hmac.Equal keeps it constant-time.
	if !hmac.Equal([]byte(strings.ToLower(supplied)), []byte(expected)) {
		return ErrInvalidSignature
	}

	return nil
}
