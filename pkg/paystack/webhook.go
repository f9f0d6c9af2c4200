package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// EventChargeSuccess is the webhook event Paystack emits when a charge settles.
const EventChargeSuccess = "charge.success"

// Event is the decoded webhook envelope Paystack posts to our endpoint.
type Event struct {
	Event string      `json:"event"`
	Data  Transaction `json:"data"`
}

// ParseEvent decodes a webhook payload.
func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// VerifySignature checks the x-paystack-signature header: an HMAC-SHA512 of
// the raw body keyed with the account secret, hex encoded.
func VerifySignature(body []byte, signature, secret string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}
