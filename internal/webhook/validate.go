package webhook

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"unicode"

	"github.com/importacademy/hotmart-bridge/internal/eventlog"
)

// SanitizeText strips markup and control characters from free-form
// input and collapses runs of whitespace into single spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SanitizeEmail trims whitespace and lower-cases the address before
// validation happens.
func SanitizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail reports whether s is a bare, syntactically valid address
// with a dotted domain. Display names and angle brackets are rejected.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}

// SplitFullName splits on whitespace. The last token is the last name;
// everything before it, joined by single spaces, is the first name. A
// single-token name yields an empty first name on purpose.
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// DeriveUsername lower-cases the full name and removes all whitespace.
func DeriveUsername(full string) string {
	return strings.ToLower(strings.Join(strings.Fields(full), ""))
}

// Validator turns a raw request body into a ValidatedEvent, applying
// the checks in a fixed order so each malformed payload is reported by
// its first defect.
type Validator struct {
	Log *eventlog.Logger
}

type buyerSection struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type productSection struct {
	Name string `json:"name"`
}

type purchaseSection struct {
	Transaction string `json:"transaction"`
}

// ParsePayload validates body and returns the sanitized event.
// Check order: decodable, required keys, object-shaped sections,
// email syntax, non-empty name.
func (v *Validator) ParsePayload(ctx context.Context, body []byte, authHeader string) (*ValidatedEvent, *Failure) {
	var raw map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &raw) != nil || len(raw) == 0 {
		v.Log.Critical(ctx, "No data provided in request.", string(body))
		return nil, failf(KindNoData, "No data provided")
	}

	for _, key := range []string{"buyer", "product", "purchase", "event"} {
		if sec, ok := raw[key]; !ok || isJSONNull(sec) {
			v.Log.Error(ctx, "Missing data: "+key+" in request.", "")
			return nil, failf(KindMissingField, "Missing data: "+key)
		}
	}

	for _, key := range []string{"buyer", "product", "purchase"} {
		if !isJSONObject(raw[key]) {
			v.Log.Error(ctx, "Invalid data format in request.", "")
			return nil, failf(KindInvalidFormat, "Invalid data format")
		}
	}

	var buyer buyerSection
	var product productSection
	var purchase purchaseSection
	if json.Unmarshal(raw["buyer"], &buyer) != nil ||
		json.Unmarshal(raw["product"], &product) != nil ||
		json.Unmarshal(raw["purchase"], &purchase) != nil {
		v.Log.Error(ctx, "Invalid data format in request.", "")
		return nil, failf(KindInvalidFormat, "Invalid data format")
	}

	email := SanitizeEmail(buyer.Email)
	if !ValidEmail(email) {
		v.Log.Error(ctx, "Invalid email address provided: "+email, "")
		return nil, failf(KindInvalidEmail, "Invalid email address")
	}

	fullName := SanitizeText(buyer.Name)
	if fullName == "" {
		v.Log.Error(ctx, "Full name is empty.", "")
		return nil, failf(KindEmptyName, "Full name is empty")
	}

	first, last := SplitFullName(fullName)

	var eventName string
	_ = json.Unmarshal(raw["event"], &eventName)

	return &ValidatedEvent{
		Type:          ParseEventType(eventName),
		RawEvent:      eventName,
		TransactionID: strings.TrimSpace(purchase.Transaction),
		Email:         email,
		FullName:      fullName,
		FirstName:     first,
		LastName:      last,
		Username:      DeriveUsername(fullName),
		ProductName:   SanitizeText(product.Name),
		AuthToken:     SanitizeText(authHeader),
	}, nil
}

func isJSONNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func isJSONObject(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "{")
}
