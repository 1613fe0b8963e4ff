package webhook

import (
	"context"
	"crypto/subtle"

	"github.com/importacademy/hotmart-bridge/internal/eventlog"
)

// Authenticator checks the shared hottok secret carried on each
// request. An empty configured token rejects everything.
type Authenticator struct {
	Token string
	Log   *eventlog.Logger
}

// Authenticate compares the presented token against the configured
// secret in constant time. On mismatch the presented value is logged
// so operators can spot misconfigured senders.
func (a *Authenticator) Authenticate(ctx context.Context, presented string) *Failure {
	if a.Token != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(a.Token)) == 1 {
		return nil
	}
	a.Log.Error(ctx, "Hottok inválido: "+presented, "")
	return failf(KindAuth, "Hottok inválido")
}
