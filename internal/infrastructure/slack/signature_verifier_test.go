package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func signRequest(t *testing.T, secret, timestamp string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	v := NewSignatureVerifier(testSigningSecret)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	body := []byte(`{"type":"url_verification","challenge":"abc"}`)

	sig := signRequest(t, testSigningSecret, ts, body)
	if err := v.VerifySignature(ts, body, sig); err != nil {
		t.Errorf("VerifySignature() error = %v, want nil", err)
	}
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	v := NewSignatureVerifier(testSigningSecret)
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	sig := signRequest(t, testSigningSecret, ts, []byte("original"))
	if err := v.VerifySignature(ts, []byte("tampered"), sig); err == nil {
		t.Error("tampered body must fail verification")
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	v := NewSignatureVerifier(testSigningSecret)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	body := []byte("payload")

	sig := signRequest(t, "different-secret", ts, body)
	if err := v.VerifySignature(ts, body, sig); err == nil {
		t.Error("signature from a different secret must fail")
	}
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	v := NewSignatureVerifier(testSigningSecret)
	ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	body := []byte("payload")

	sig := signRequest(t, testSigningSecret, ts, body)
	if err := v.VerifySignature(ts, body, sig); err == nil {
		t.Error("timestamp older than the window must fail")
	}
}

func TestVerifySignature_FutureTimestamp(t *testing.T) {
	v := NewSignatureVerifier(testSigningSecret)
	ts := strconv.FormatInt(time.Now().Add(10*time.Minute).Unix(), 10)
	body := []byte("payload")

	sig := signRequest(t, testSigningSecret, ts, body)
	if err := v.VerifySignature(ts, body, sig); err == nil {
		t.Error("timestamp far in the future must fail")
	}
}

func TestVerifySignature_MalformedInputs(t *testing.T) {
	v := NewSignatureVerifier(testSigningSecret)
	now := strconv.FormatInt(time.Now().Unix(), 10)

	tests := []struct {
		name      string
		timestamp string
		signature string
	}{
		{"non-numeric timestamp", "not-a-number", "v0=deadbeef"},
		{"missing version prefix", now, "deadbeef"},
		{"wrong version prefix", now, "v1=deadbeef"},
		{"empty signature", now, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.VerifySignature(tt.timestamp, []byte("body"), tt.signature); err == nil {
				t.Error("want verification failure")
			}
		})
	}
}
