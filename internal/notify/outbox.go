package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/importacademy/hotmart-bridge/internal/kafka"
)

// Outbox publishes notification events onto the kafka topic after the
// store mutation that warrants them has committed. Delivery happens in
// cmd/notifier; a publish failure never fails the pipeline.
type Outbox struct {
	Producer *kafkax.Producer
	Service  string
}

func (o *Outbox) publish(kind, key string, payload any) {
	ev := Envelope{
		EventID:    uuid.NewString(),
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Producer:   o.Service,
		Payload:    kafkax.MustMarshal(payload),
	}
	o.Producer.Publish([]byte(key), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-kind", Value: []byte(kind)},
	)
}

func (o *Outbox) WelcomeEmail(_ context.Context, email, firstName, password string) {
	o.publish(KindWelcome, email, WelcomePayload{Email: email, FirstName: firstName, Password: password})
}

func (o *Outbox) ProductAvailableEmail(_ context.Context, email, firstName, productName string) {
	o.publish(KindProductAvailable, email, ProductAvailablePayload{Email: email, FirstName: firstName, ProductName: productName})
}

func (o *Outbox) CriticalError(_ context.Context, message string) {
	o.publish(KindAdminAlert, "admin", AdminAlertPayload{Message: message})
}
