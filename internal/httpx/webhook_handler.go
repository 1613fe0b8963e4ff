package httpx

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/importacademy/hotmart-bridge/internal/eventlog"
	"github.com/importacademy/hotmart-bridge/internal/webhook"
)

// maxBodyBytes bounds the webhook payload. Real events are a few KB.
const maxBodyBytes = 1 << 20

// WebhookHandler exposes the purchase event pipeline over HTTP.
type WebhookHandler struct {
	Auth       *webhook.Authenticator
	Validator  *webhook.Validator
	Dispatcher *webhook.Dispatcher
	Log        *eventlog.Logger
}

func (h *WebhookHandler) Register(r *chi.Mux) {
	r.Post("/hotmart-webhook/v1/process", h.Process)
}

// Process runs one inbound event through authentication, validation
// and dispatch. Auth and validation failures answer before any store
// is touched.
func (h *WebhookHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "No data provided"})
		return
	}
	h.Log.Raw(ctx, "Dados brutos recebidos: "+string(body))

	if f := h.Auth.Authenticate(ctx, r.URL.Query().Get("hottok")); f != nil {
		writeJSON(w, f.HTTPStatus(), map[string]any{"message": f.Message})
		return
	}

	ev, f := h.Validator.ParsePayload(ctx, body, r.Header.Get("Authorization"))
	if f != nil {
		writeJSON(w, f.HTTPStatus(), map[string]any{"message": f.Message})
		return
	}

	out, f := h.Dispatcher.Dispatch(ctx, ev)
	if f != nil {
		writeJSON(w, f.HTTPStatus(), map[string]any{"message": f.Message})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": out.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
