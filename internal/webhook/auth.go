package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"
)

// Header names accepted on incoming webhook requests. Ghala sends the
// timestamp under either of two names depending on delivery path.
const (
	HeaderTimestamp    = "X-Ghala-Timestamp"
	HeaderTimestampAlt = "Webhook-Timestamp"
	HeaderSignature    = "X-Ghala-Signature"
)

// DefaultMaxTimestampAge is the replay-protection freshness window.
const DefaultMaxTimestampAge = 5 * time.Minute

// Authentication failures. Mapped to 400 responses by the server; the
// response detail never includes the computed signature or the secret.
var (
	ErrMissingHeaders   = errors.New("missing required headers")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrStaleTimestamp   = errors.New("stale timestamp")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Authenticator verifies timestamp freshness and HMAC signatures.
// The clock is injectable so freshness checks are testable.
type Authenticator struct {
	MaxAge time.Duration
	Now    func() time.Time
}

// NewAuthenticator creates an Authenticator with the given freshness window.
// A zero maxAge falls back to DefaultMaxTimestampAge.
func NewAuthenticator(maxAge time.Duration) *Authenticator {
	if maxAge == 0 {
		maxAge = DefaultMaxTimestampAge
	}
	return &Authenticator{
		MaxAge: maxAge,
		Now:    time.Now,
	}
}

// Verify authenticates a request: timestamp freshness first, then the
// HMAC signature. Pure computation over its inputs; no I/O.
func (a *Authenticator) Verify(secret, timestamp, signature string, body []byte) error {
	if err := a.VerifyTimestamp(timestamp); err != nil {
		return err
	}
	return VerifySignature(secret, timestamp, body, signature)
}

// VerifyTimestamp checks that the timestamp parses as seconds since epoch
// (fractional values allowed) and falls within the freshness window.
func (a *Authenticator) VerifyTimestamp(timestamp string) error {
	ts, err := strconv.ParseFloat(timestamp, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}

	now := float64(a.Now().UnixNano()) / float64(time.Second)
	if math.Abs(now-ts) > a.MaxAge.Seconds() {
		return ErrStaleTimestamp
	}
	return nil
}

// ComputeSignature computes the base64-encoded HMAC-SHA256 digest over
// timestamp + "." + body. The body bytes are signed exactly as received,
// never re-encoded.
func ComputeSignature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the supplied signature against the expected
// digest using constant-time comparison to prevent timing attacks.
func VerifySignature(secret, timestamp string, body []byte, signature string) error {
	if secret == "" || signature == "" {
		return ErrInvalidSignature
	}

	expected := ComputeSignature(secret, timestamp, body)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// ExtractHeaders pulls the timestamp and signature headers from a request,
// accepting both timestamp header variants. Absence of either header fails
// with ErrMissingHeaders before any crypto work runs.
func ExtractHeaders(r *http.Request) (timestamp, signature string, err error) {
	timestamp = r.Header.Get(HeaderTimestamp)
	if timestamp == "" {
		timestamp = r.Header.Get(HeaderTimestampAlt)
	}
	signature = r.Header.Get(HeaderSignature)

	if timestamp == "" || signature == "" {
		return "", "", ErrMissingHeaders
	}
	return timestamp, signature, nil
}
