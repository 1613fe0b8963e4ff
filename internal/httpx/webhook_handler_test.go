package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/importacademy/hotmart-bridge/internal/identity"
	"github.com/importacademy/hotmart-bridge/internal/orders"
	"github.com/importacademy/hotmart-bridge/internal/webhook"
)

type stubResolver struct{ created int }

func (s *stubResolver) Resolve(_ context.Context, email, username, firstName, lastName, fullName string) (*identity.Resolution, error) {
	s.created++
	return &identity.Resolution{
		Account: &identity.Account{ID: "acct-1", Email: email, Username: username},
		Created: true,
	}, nil
}

type stubReconciler struct {
	created []string
	refunds []string
}

func (s *stubReconciler) CreateOrderForNewAccount(_ context.Context, accountID, firstName, email, productName, transactionID string) (*orders.Order, error) {
	s.created = append(s.created, transactionID)
	return &orders.Order{ID: "order-1", Status: orders.StatusCompleted}, nil
}

func (s *stubReconciler) ProcessExistingAccount(_ context.Context, p orders.ExistingAccountPurchase) (*orders.Order, error) {
	s.created = append(s.created, p.TransactionID)
	return &orders.Order{ID: "order-2", Status: orders.StatusCompleted}, nil
}

func (s *stubReconciler) RefundByTransactionID(_ context.Context, transactionID string) ([]orders.Order, error) {
	s.refunds = append(s.refunds, transactionID)
	return nil, nil
}

func (s *stubReconciler) FindOrderByTransactionID(_ context.Context, _ string) (*orders.Order, error) {
	return nil, nil
}

type openGuard struct{}

func (openGuard) Acquire(_ context.Context, _ string) (bool, error) { return true, nil }
func (openGuard) Release(_ context.Context, _ string)               {}

func newTestServer(t *testing.T) (*httptest.Server, *stubReconciler) {
	t.Helper()
	rec := &stubReconciler{}
	router := NewRouter()
	h := &WebhookHandler{
		Auth:      &webhook.Authenticator{Token: "good-token"},
		Validator: &webhook.Validator{},
		Dispatcher: &webhook.Dispatcher{
			Resolver:   &stubResolver{},
			Reconciler: rec,
			Guard:      openGuard{},
		},
	}
	h.Register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, rec
}

func postEvent(t *testing.T, url, hottok, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url+"/hotmart-webhook/v1/process?hottok="+hottok, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func approvedBody() string {
	return `{
		"event": "PURCHASE_APPROVED",
		"purchase": {"transaction": "HP100"},
		"buyer": {"email": "jane@example.com", "name": "Jane Doe"},
		"product": {"name": "Curso Completo"}
	}`
}

func TestProcessRejectsBadToken(t *testing.T) {
	srv, rec := newTestServer(t)

	resp, out := postEvent(t, srv.URL, "wrong", approvedBody())
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out["message"] != "Hottok inválido" {
		t.Errorf("message = %v", out["message"])
	}
	if len(rec.created) != 0 {
		t.Error("order created despite bad token")
	}
}

func TestProcessRejectsMissingField(t *testing.T) {
	srv, rec := newTestServer(t)
	body := `{"event":"PURCHASE_APPROVED","purchase":{"transaction":"HP1"},"buyer":{"email":"j@example.com","name":"Jane Doe"}}`

	resp, out := postEvent(t, srv.URL, "good-token", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out["message"] != "Missing data: product" {
		t.Errorf("message = %v", out["message"])
	}
	if len(rec.created) != 0 {
		t.Error("order created despite invalid payload")
	}
}

func TestProcessRejectsUnknownEvent(t *testing.T) {
	srv, _ := newTestServer(t)
	body := strings.Replace(approvedBody(), "PURCHASE_APPROVED", "PURCHASE_WAITING_PAYMENT", 1)

	resp, out := postEvent(t, srv.URL, "good-token", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out["message"] != "Evento desconhecido" {
		t.Errorf("message = %v", out["message"])
	}
}

func TestProcessApproved(t *testing.T) {
	srv, rec := newTestServer(t)

	resp, out := postEvent(t, srv.URL, "good-token", approvedBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out["success"] != true {
		t.Errorf("success = %v", out["success"])
	}
	if out["message"] != "Processed successfully!" {
		t.Errorf("message = %v", out["message"])
	}
	if len(rec.created) != 1 || rec.created[0] != "HP100" {
		t.Errorf("created = %v", rec.created)
	}
}

func TestProcessChargeback(t *testing.T) {
	srv, rec := newTestServer(t)
	body := strings.Replace(approvedBody(), "PURCHASE_APPROVED", "PURCHASE_CHARGEBACK", 1)

	resp, _ := postEvent(t, srv.URL, "good-token", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(rec.refunds) != 1 || rec.refunds[0] != "HP100" {
		t.Errorf("refunds = %v", rec.refunds)
	}
	if len(rec.created) != 0 {
		t.Errorf("created = %v", rec.created)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
