package webhook

import (
	"context"
	"testing"
)

func validBody() string {
	return `{
		"event": "PURCHASE_APPROVED",
		"purchase": {"transaction": "HP12345"},
		"buyer": {"email": " Maria@Example.com ", "name": "Maria Da Silva"},
		"product": {"name": "Curso Completo"}
	}`
}

func TestParsePayloadValid(t *testing.T) {
	v := &Validator{}
	ev, f := v.ParsePayload(context.Background(), []byte(validBody()), "Bearer tok")
	if f != nil {
		t.Fatalf("unexpected failure: %v", f)
	}
	if ev.Type != EventApproved {
		t.Errorf("type = %q", ev.Type)
	}
	if ev.TransactionID != "HP12345" {
		t.Errorf("transaction = %q", ev.TransactionID)
	}
	if ev.Email != "maria@example.com" {
		t.Errorf("email = %q", ev.Email)
	}
	if ev.FirstName != "Maria Da" || ev.LastName != "Silva" {
		t.Errorf("name split = %q / %q", ev.FirstName, ev.LastName)
	}
	if ev.Username != "mariadasilva" {
		t.Errorf("username = %q", ev.Username)
	}
	if ev.ProductName != "Curso Completo" {
		t.Errorf("product = %q", ev.ProductName)
	}
}

func TestParsePayloadOrderedFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind Kind
		msg  string
	}{
		{"empty body", ``, KindNoData, "No data provided"},
		{"not json", `hello`, KindNoData, "No data provided"},
		{"empty object", `{}`, KindNoData, "No data provided"},
		{"missing product", `{"event":"x","purchase":{},"buyer":{}}`, KindMissingField, "Missing data: product"},
		{"missing event", `{"purchase":{},"buyer":{},"product":{}}`, KindMissingField, "Missing data: event"},
		{"scalar buyer", `{"event":"x","purchase":{},"buyer":"maria","product":{}}`, KindInvalidFormat, "Invalid data format"},
		{"bad email", `{"event":"x","purchase":{},"buyer":{"email":"not-an-email","name":"Maria"},"product":{}}`, KindInvalidEmail, "Invalid email address"},
		{"empty name", `{"event":"x","purchase":{},"buyer":{"email":"m@example.com","name":"   "},"product":{}}`, KindEmptyName, "Full name is empty"},
	}

	v := &Validator{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, f := v.ParsePayload(context.Background(), []byte(tc.body), "")
			if f == nil {
				t.Fatal("expected failure")
			}
			if f.Kind != tc.kind {
				t.Errorf("kind = %v, want %v", f.Kind, tc.kind)
			}
			if f.Message != tc.msg {
				t.Errorf("message = %q, want %q", f.Message, tc.msg)
			}
		})
	}
}

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"Maria Da Silva", "Maria Da", "Silva"},
		{"Cher", "", "Cher"},
		{"Jane Doe", "Jane", "Doe"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := SplitFullName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitFullName(%q) = %q / %q, want %q / %q", tc.in, first, last, tc.first, tc.last)
		}
	}
}

func TestDeriveUsername(t *testing.T) {
	if got := DeriveUsername("Jane Doe"); got != "janedoe" {
		t.Errorf("username = %q", got)
	}
	if got := DeriveUsername("  Maria  Da  Silva "); got != "mariadasilva" {
		t.Errorf("username = %q", got)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Maria   Da Silva  ", "Maria Da Silva"},
		{"<b>Maria</b> Silva", "Maria Silva"},
		{"Maria\x00Silva", "MariaSilva"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeText(tc.in); got != tc.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"m@example.com", "first.last@sub.example.com"}
	invalid := []string{"", "no-at-sign", "m@nodot", "Maria <m@example.com>"}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true", s)
		}
	}
}

func TestParseEventType(t *testing.T) {
	if ParseEventType("PURCHASE_APPROVED") != EventApproved {
		t.Error("approved not recognized")
	}
	if ParseEventType("PURCHASE_WAITING_PAYMENT") != EventUnknown {
		t.Error("unexpected event not mapped to unknown")
	}
}
