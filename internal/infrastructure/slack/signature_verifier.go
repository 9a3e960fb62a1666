package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureVersion is the Slack signature version prefix.
	SignatureVersion = "v0"

	// MaxTimestampSkew is how far a request timestamp may drift from
	// the server clock, in either direction, before the request is
	// rejected as a possible replay.
	MaxTimestampSkew = 5 * time.Minute
)

// SignatureVerifier provides Slack request signature verification.
type SignatureVerifier struct {
	signingSecret string
}

// NewSignatureVerifier creates a new signature verifier.
func NewSignatureVerifier(signingSecret string) *SignatureVerifier {
	return &SignatureVerifier{
		signingSecret: signingSecret,
	}
}

// VerifySignature verifies a Slack request signature using HMAC-SHA256.
// Per Slack spec: https://api.slack.com/authentication/verifying-requests-from-slack
//
// Parameters:
//   - timestamp: X-Slack-Request-Timestamp header value (Unix timestamp)
//   - body: Raw request body (must not be parsed before verification)
//   - signature: X-Slack-Signature header value (format: "v0=<hex_signature>")
func (v *SignatureVerifier) VerifySignature(timestamp string, body []byte, signature string) error {
	if err := v.validateTimestamp(timestamp); err != nil {
		return err
	}

	if !strings.HasPrefix(signature, SignatureVersion+"=") {
		return fmt.Errorf("invalid signature format: expected prefix '%s='", SignatureVersion)
	}
	providedSig := strings.TrimPrefix(signature, SignatureVersion+"=")

	// Signature base string: v0:<timestamp>:<body>
	baseString := fmt.Sprintf("%s:%s:%s", SignatureVersion, timestamp, string(body))
	expectedSig := v.computeSignature(baseString)

	// Constant-time comparison to prevent timing attacks.
	if !hmac.Equal([]byte(expectedSig), []byte(providedSig)) {
		return fmt.Errorf("signature mismatch: request may be forged or tampered")
	}

	return nil
}

// validateTimestamp rejects timestamps outside the allowed skew window,
// past or future.
func (v *SignatureVerifier) validateTimestamp(timestamp string) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %w", err)
	}

	skew := time.Since(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > MaxTimestampSkew {
		return fmt.Errorf("timestamp outside allowed window: skew %s, max %s",
			skew.Round(time.Second), MaxTimestampSkew)
	}

	return nil
}

// computeSignature computes the HMAC-SHA256 signature for baseString.
func (v *SignatureVerifier) computeSignature(baseString string) string {
	h := hmac.New(sha256.New, []byte(v.signingSecret))
	h.Write([]byte(baseString))
	return hex.EncodeToString(h.Sum(nil))
}
