package webhook

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	secret := "s3cr3t"
	timestamp := "1700000000"
	body := []byte(`{"event":"order.created","data":{"customer":{"name":"Jane"},"order_id":42,"total":9.99,"products":[]}}`)

	sig := ComputeSignature(secret, timestamp, body)

	if err := VerifySignature(secret, timestamp, body, sig); err != nil {
		t.Errorf("round-trip verification failed: %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "s3cr3t"
	timestamp := "1700000000"
	body := []byte(`{"event":"order.created","data":{}}`)
	validSig := ComputeSignature(secret, timestamp, body)

	tests := []struct {
		name      string
		secret    string
		timestamp string
		body      []byte
		signature string
		wantErr   error
	}{
		{
			name:      "valid signature",
			secret:    secret,
			timestamp: timestamp,
			body:      body,
			signature: validSig,
		},
		{
			name:      "signature from different secret",
			secret:    secret,
			timestamp: timestamp,
			body:      body,
			signature: ComputeSignature("wrong-secret", timestamp, body),
			wantErr:   ErrInvalidSignature,
		},
		{
			name:      "tampered body",
			secret:    secret,
			timestamp: timestamp,
			body:      []byte(`{"event":"order.created","data":{"order_id":1}}`),
			signature: validSig,
			wantErr:   ErrInvalidSignature,
		},
		{
			name:      "tampered timestamp",
			secret:    secret,
			timestamp: "1700000001",
			body:      body,
			signature: validSig,
			wantErr:   ErrInvalidSignature,
		},
		{
			name:      "empty signature",
			secret:    secret,
			timestamp: timestamp,
			body:      body,
			signature: "",
			wantErr:   ErrInvalidSignature,
		},
		{
			name:      "empty secret",
			secret:    "",
			timestamp: timestamp,
			body:      body,
			signature: validSig,
			wantErr:   ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.secret, tt.timestamp, tt.body, tt.signature)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifySignature() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyTimestamp(t *testing.T) {
	auth := NewAuthenticator(5 * time.Minute)
	auth.Now = fixedClock(1700000000)

	tests := []struct {
		name      string
		timestamp string
		wantErr   error
	}{
		{name: "exact now", timestamp: "1700000000"},
		{name: "within window past", timestamp: "1699999800"},
		{name: "within window future", timestamp: "1700000200"},
		{name: "fractional seconds", timestamp: "1700000000.537"},
		{name: "just inside window", timestamp: "1699999700"},
		{name: "too old", timestamp: "1699999699", wantErr: ErrStaleTimestamp},
		{name: "too far in future", timestamp: "1700000301", wantErr: ErrStaleTimestamp},
		{name: "ancient", timestamp: "1600000000", wantErr: ErrStaleTimestamp},
		{name: "not a number", timestamp: "yesterday", wantErr: ErrInvalidTimestamp},
		{name: "empty", timestamp: "", wantErr: ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.VerifyTimestamp(tt.timestamp)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyTimestamp(%q) error = %v, want %v", tt.timestamp, err, tt.wantErr)
			}
		})
	}
}

func TestVerifyStaleBeatsSignature(t *testing.T) {
	// A perfectly signed request with an old timestamp still fails: the
	// freshness check runs before the signature check.
	secret := "s3cr3t"
	timestamp := "1700000000"
	body := []byte(`{}`)
	sig := ComputeSignature(secret, timestamp, body)

	auth := NewAuthenticator(5 * time.Minute)
	auth.Now = fixedClock(1800000000)

	err := auth.Verify(secret, timestamp, sig, body)
	if !errors.Is(err, ErrStaleTimestamp) {
		t.Errorf("Verify() error = %v, want ErrStaleTimestamp", err)
	}
}

func TestVerifyKnownVector(t *testing.T) {
	// Pinned scenario: with a mocked clock near the timestamp the request
	// verifies; with the real epoch distance it is stale.
	secret := "s3cr3t"
	timestamp := "1700000000"
	body := []byte(`{"event":"order.created","data":{"customer":{"name":"Jane"},"order_id":42,"total":9.99,"products":[]}}`)
	sig := ComputeSignature(secret, timestamp, body)

	auth := NewAuthenticator(5 * time.Minute)
	auth.Now = fixedClock(1700000060)
	if err := auth.Verify(secret, timestamp, sig, body); err != nil {
		t.Errorf("Verify() with mocked clock error = %v", err)
	}

	auth.Now = time.Now
	if err := auth.Verify(secret, timestamp, sig, body); !errors.Is(err, ErrStaleTimestamp) {
		t.Errorf("Verify() with real clock error = %v, want ErrStaleTimestamp", err)
	}
}

func TestExtractHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		wantTS  string
		wantErr error
	}{
		{
			name: "primary timestamp header",
			headers: map[string]string{
				HeaderTimestamp: "1700000000",
				HeaderSignature: "sig",
			},
			wantTS: "1700000000",
		},
		{
			name: "alternate timestamp header",
			headers: map[string]string{
				HeaderTimestampAlt: "1700000001",
				HeaderSignature:    "sig",
			},
			wantTS: "1700000001",
		},
		{
			name: "primary wins over alternate",
			headers: map[string]string{
				HeaderTimestamp:    "1700000000",
				HeaderTimestampAlt: "1700000001",
				HeaderSignature:    "sig",
			},
			wantTS: "1700000000",
		},
		{
			name: "missing signature",
			headers: map[string]string{
				HeaderTimestamp: "1700000000",
			},
			wantErr: ErrMissingHeaders,
		},
		{
			name: "missing timestamp",
			headers: map[string]string{
				HeaderSignature: "sig",
			},
			wantErr: ErrMissingHeaders,
		},
		{
			name:    "no headers at all",
			headers: map[string]string{},
			wantErr: ErrMissingHeaders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/ghala/webhook/order-created", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			ts, sig, err := ExtractHeaders(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExtractHeaders() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				if ts != tt.wantTS {
					t.Errorf("timestamp = %q, want %q", ts, tt.wantTS)
				}
				if sig != "sig" {
					t.Errorf("signature = %q, want sig", sig)
				}
			}
		})
	}
}

func TestComputeSignatureDeterministic(t *testing.T) {
	body := []byte("test payload")
	sig := ComputeSignature("secret", "1700000000", body)

	sig2 := ComputeSignature("secret", "1700000000", body)
	if sig != sig2 {
		t.Error("signature should be deterministic")
	}

	sig3 := ComputeSignature("secret", "1700000000", []byte("different"))
	if sig == sig3 {
		t.Error("different body should produce different signature")
	}
}
