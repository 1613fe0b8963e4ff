package notify

import (
	"strings"
	"testing"
)

func TestWelcomeMail(t *testing.T) {
	urls := SiteURLs{Login: "https://example.com/login", ResetPassword: "https://example.com/reset"}
	m := WelcomeMail("maria@example.com", "Maria", "s3cret", urls)

	if m.To != "maria@example.com" {
		t.Fatalf("to = %q", m.To)
	}
	if m.ContentType != ContentTypePlain {
		t.Fatalf("content type = %q", m.ContentType)
	}
	for _, want := range []string{"Maria", "s3cret", urls.Login} {
		if !strings.Contains(m.Body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestProductAvailableMail(t *testing.T) {
	urls := SiteURLs{Login: "https://example.com/login", Instructions: "https://example.com/instrucoes"}
	m := ProductAvailableMail("joao@example.com", "João", "Curso Completo", urls)

	if m.ContentType != ContentTypeHTML {
		t.Fatalf("content type = %q", m.ContentType)
	}
	for _, want := range []string{"João", "Curso Completo", urls.Login, urls.Instructions} {
		if !strings.Contains(m.Body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAdminAlertMail(t *testing.T) {
	m := AdminAlertMail("admin@example.com", "db down")
	if m.To != "admin@example.com" {
		t.Fatalf("to = %q", m.To)
	}
	if !strings.Contains(m.Body, "db down") {
		t.Errorf("body missing message")
	}
}
